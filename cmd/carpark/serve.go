package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sweeney/carpark-controller/internal/config"
	"github.com/sweeney/carpark-controller/internal/gpio"
	"github.com/sweeney/carpark-controller/internal/logic"
	"github.com/sweeney/carpark-controller/internal/metrics"
	"github.com/sweeney/carpark-controller/internal/mqtt"
	"github.com/sweeney/carpark-controller/internal/status"
	"github.com/sweeney/carpark-controller/internal/web"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	io, err := gpio.NewRealIO(gpioParams(cfg))
	if err != nil {
		return err
	}
	defer io.Close()

	publisher := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.LotName)
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), statusConfig(cfg))
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	snap := tracker.Snapshot()
	startup := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startup); err != nil {
		log.Warn().Err(err).Msg("publish startup event")
	} else {
		log.Info().Msg("published startup event")
	}

	m := metrics.New()

	resetCh := make(chan struct{}, 1)
	enqueueReset := func() bool {
		select {
		case resetCh <- struct{}{}:
			return true
		default:
			return false
		}
	}

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, m.Handler(), enqueueReset)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
	}

	ctrl := logic.NewController(controllerConfig(cfg), time.Now())

	log.Info().
		Str("lot", cfg.LotName).
		Int("slots", len(cfg.Slots)).
		Dur("poll", cfg.Poll()).
		Str("broker", cfg.MQTT.Broker).
		Bool("barrier", cfg.Barrier.Enabled).
		Msg("started")

	ticker := time.NewTicker(cfg.Poll())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(loopDeps{
		reader:    io,
		actuator:  io,
		publisher: publisher,
		conn:      publisher,
		tracker:   tracker,
		metrics:   m,
		ctrl:      ctrl,
		heartbeat: cfg.Heartbeat(),
		now:       time.Now,
		tick:      ticker.C,
		sig:       sigCh,
		reset:     resetCh,
	})
}

// loopDeps carries everything runLoop needs, so tests can substitute fakes
// and a scripted clock.
type loopDeps struct {
	reader    gpio.Reader
	actuator  gpio.Actuator
	publisher mqtt.Publisher
	conn      mqtt.ConnectionStatus
	tracker   *status.Tracker
	metrics   *metrics.Metrics
	ctrl      *logic.Controller
	heartbeat time.Duration
	now       func() time.Time
	tick      <-chan time.Time
	sig       <-chan os.Signal
	reset     <-chan struct{}
}

func runLoop(d loopDeps) error {
	// Force an LED write on the first tick so the hardware matches the
	// model from boot.
	var lastLED logic.LEDState

	for {
		select {
		case s := <-d.sig:
			log.Info().Str("signal", s.String()).Msg("shutting down")
			name := "UNKNOWN"
			if s == syscall.SIGINT {
				name = "SIGINT"
			} else if s == syscall.SIGTERM {
				name = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: d.now(),
				Event:     "SHUTDOWN",
				Reason:    name,
				Retained:  true,
			}
			if d.tracker != nil {
				if d.conn != nil {
					d.tracker.SetMQTTConnected(d.conn.IsConnected())
				}
				event.RawPayload = status.FormatStatusEvent(d.tracker.Snapshot(), "SHUTDOWN", name)
			}
			if err := d.publisher.PublishSystem(event); err != nil {
				log.Warn().Err(err).Msg("publish shutdown event")
			}
			return nil

		case <-d.reset:
			t := d.now()
			// Reset clears slots and counters but never moves the
			// barrier.
			log.Info().
				Str("barrier", string(d.ctrl.BarrierPosition())).
				Msg("admin reset: clearing slot states and counters")
			d.ctrl.Reset(t)
			updateTracker(d, t)
			event := mqtt.SystemEvent{
				Timestamp:  t,
				Event:      "RESET",
				RawPayload: status.FormatStatusEvent(d.tracker.Snapshot(), "RESET", ""),
			}
			if err := d.publisher.PublishSystem(event); err != nil {
				log.Warn().Err(err).Msg("publish reset event")
			}

		case <-d.tick:
			t := d.now()
			levels, button, err := d.reader.Read()
			if err != nil {
				log.Error().Err(err).Msg("gpio read")
				if d.metrics != nil {
					d.metrics.ReadErrors.Inc()
				}
				continue
			}

			res := d.ctrl.Tick(logic.Input{Levels: levels, Button: button, Time: t})

			// Actuator writes happen only on transitions: the state
			// machines emit commands once per logical change.
			for _, cmd := range res.Commands {
				if err := d.actuator.SetBarrier(cmd == logic.CommandOpen); err != nil {
					log.Error().Err(err).Str("command", string(cmd)).Msg("barrier write")
				}
			}
			if res.LED != lastLED {
				if err := d.actuator.SetLEDs(res.LED == logic.LEDFull); err != nil {
					log.Error().Err(err).Str("led", string(res.LED)).Msg("led write")
				}
				lastLED = res.LED
			}

			for _, e := range res.Events {
				evt := log.Info().Str("event", string(e.Type)).
					Int("occupied", e.Occupied).
					Int("available", e.Available)
				if e.Slot != "" {
					evt = evt.Str("slot", e.Slot)
				}
				evt.Msg("transition")
				if err := d.publisher.Publish(e); err != nil {
					// Don't crash on publish failure.
					log.Warn().Err(err).Msg("publish event")
				}
			}

			if hb := d.ctrl.CheckHeartbeat(t, d.heartbeat); hb != nil {
				log.Info().
					Dur("uptime", hb.Uptime).
					Int("occupied_edges", hb.Counts.Occupied).
					Int("vacated_edges", hb.Counts.Vacated).
					Msg("heartbeat")
				if d.tracker != nil {
					if net := readNetworkInfo(); net != nil {
						d.tracker.SetNetwork(net)
					}
				}
				updateTracker(d, t)
				event := mqtt.SystemEvent{
					Timestamp:  hb.Timestamp,
					Event:      "HEARTBEAT",
					RawPayload: status.FormatStatusEvent(d.tracker.Snapshot(), "HEARTBEAT", ""),
				}
				if err := d.publisher.PublishSystem(event); err != nil {
					log.Warn().Err(err).Msg("publish heartbeat")
				}
			}

			updateTracker(d, t)
			if d.metrics != nil {
				d.metrics.ObserveTick(res, d.ctrl.Lot(), d.ctrl.BarrierPosition())
			}
		}
	}
}

func updateTracker(d loopDeps, t time.Time) {
	if d.tracker == nil {
		return
	}
	d.tracker.Update(d.ctrl.Lot(), d.ctrl.LED(), d.ctrl.BarrierPosition(),
		d.ctrl.BarrierRemaining(t), d.ctrl.Counts(), d.ctrl.StartTime())
	if d.conn != nil {
		d.tracker.SetMQTTConnected(d.conn.IsConnected())
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func gpioParams(cfg *config.Config) gpio.Params {
	p := gpio.Params{
		Button:         gpio.InputPin{Pin: cfg.Button.Pin, ActiveLow: cfg.Button.ActiveLow},
		GreenPin:       cfg.LEDs.GreenPin,
		RedPin:         cfg.LEDs.RedPin,
		BarrierPin:     cfg.Barrier.Pin,
		BarrierEnabled: cfg.Barrier.Enabled,
	}
	for _, s := range cfg.Slots {
		p.Sensors = append(p.Sensors, gpio.InputPin{Pin: s.Pin, ActiveLow: s.ActiveLow})
	}
	return p
}

func controllerConfig(cfg *config.Config) logic.ControllerConfig {
	start := time.Now()
	slots := make([]logic.Slot, len(cfg.Slots))
	for i, s := range cfg.Slots {
		slots[i] = logic.Slot{Name: s.Name, Channel: logic.NewChannel(cfg.SlotDebounce(i), start)}
	}
	return logic.ControllerConfig{
		Slots:          slots,
		ButtonWindow:   cfg.ButtonDebounce(),
		AutoCloseAfter: cfg.AutoClose(),
	}
}

func statusConfig(cfg *config.Config) status.Config {
	return status.Config{
		LotName:          cfg.LotName,
		PollMs:           int64(cfg.PollMs),
		ButtonDebounceMs: int64(cfg.Button.DebounceMs),
		AutoCloseMs:      int64(cfg.Barrier.AutoCloseMs),
		HeartbeatMs:      int64(cfg.HeartbeatMs),
		Broker:           cfg.MQTT.Broker,
		HTTPAddr:         cfg.HTTPAddr,
		BarrierEnabled:   cfg.Barrier.Enabled,
	}
}
