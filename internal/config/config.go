// Package config loads the lot configuration file.
//
// Pin polarity is a deployment property, not a protocol: the observed
// sensor boards report occupied as active-low, but each channel carries
// its own active_low flag so a rewired deployment is a config edit.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SlotConfig describes one parking slot sensor.
type SlotConfig struct {
	Name       string `yaml:"name"`
	Pin        int    `yaml:"pin"`
	ActiveLow  bool   `yaml:"active_low"`
	DebounceMs int    `yaml:"debounce_ms"`
}

// ButtonConfig describes the manual barrier button.
type ButtonConfig struct {
	Pin        int  `yaml:"pin"`
	ActiveLow  bool `yaml:"active_low"`
	DebounceMs int  `yaml:"debounce_ms"`
}

// LEDConfig describes the two occupancy indicator LEDs.
type LEDConfig struct {
	GreenPin int `yaml:"green_pin"`
	RedPin   int `yaml:"red_pin"`
}

// BarrierConfig describes the barrier actuator.
type BarrierConfig struct {
	Enabled     bool `yaml:"enabled"`
	Pin         int  `yaml:"pin"`
	AutoCloseMs int  `yaml:"auto_close_ms"`
}

// MQTTConfig describes the broker connection.
type MQTTConfig struct {
	Broker string `yaml:"broker"`
}

// Config is the full deployment configuration.
type Config struct {
	LotName     string        `yaml:"lot_name"`
	Slots       []SlotConfig  `yaml:"slots"`
	Button      ButtonConfig  `yaml:"button"`
	LEDs        LEDConfig     `yaml:"leds"`
	Barrier     BarrierConfig `yaml:"barrier"`
	MQTT        MQTTConfig    `yaml:"mqtt"`
	HTTPAddr    string        `yaml:"http_addr"`
	PollMs      int           `yaml:"poll_ms"`
	HeartbeatMs int           `yaml:"heartbeat_ms"`
}

// Default returns the configuration used when no file is given: the
// three-slot reference deployment.
func Default() *Config {
	return &Config{
		LotName: "carpark",
		Slots: []SlotConfig{
			{Name: "A1", Pin: 17, ActiveLow: true},
			{Name: "A2", Pin: 27, ActiveLow: true},
			{Name: "A3", Pin: 22, ActiveLow: true},
		},
		Button:      ButtonConfig{Pin: 5, ActiveLow: true, DebounceMs: 50},
		LEDs:        LEDConfig{GreenPin: 23, RedPin: 24},
		Barrier:     BarrierConfig{Enabled: true, Pin: 25, AutoCloseMs: 5000},
		MQTT:        MQTTConfig{Broker: "tcp://192.168.1.200:1883"},
		HTTPAddr:    ":8080",
		PollMs:      150,
		HeartbeatMs: int((15 * time.Minute).Milliseconds()),
	}
}

// Load reads a YAML config file, applies defaults for omitted values,
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for deployment mistakes.
func (c *Config) Validate() error {
	if c.LotName == "" {
		return fmt.Errorf("config: lot_name must not be empty")
	}
	if len(c.Slots) == 0 {
		return fmt.Errorf("config: at least one slot is required")
	}

	seenNames := make(map[string]bool, len(c.Slots))
	seenPins := make(map[int]string, len(c.Slots))
	for i, s := range c.Slots {
		if s.Name == "" {
			return fmt.Errorf("config: slot %d has no name", i)
		}
		if seenNames[s.Name] {
			return fmt.Errorf("config: duplicate slot name %q", s.Name)
		}
		seenNames[s.Name] = true
		if s.Pin < 0 {
			return fmt.Errorf("config: slot %q has negative pin %d", s.Name, s.Pin)
		}
		if prev, dup := seenPins[s.Pin]; dup {
			return fmt.Errorf("config: slot %q reuses pin %d of slot %q", s.Name, s.Pin, prev)
		}
		seenPins[s.Pin] = s.Name
		if s.DebounceMs < 0 {
			return fmt.Errorf("config: slot %q has negative debounce", s.Name)
		}
	}

	if c.Button.DebounceMs < 0 {
		return fmt.Errorf("config: button has negative debounce")
	}
	if c.Barrier.Enabled && c.Barrier.AutoCloseMs <= 0 {
		return fmt.Errorf("config: barrier auto_close_ms must be positive")
	}
	if c.PollMs <= 0 {
		return fmt.Errorf("config: poll_ms must be positive")
	}
	return nil
}

// Poll returns the tick period.
func (c *Config) Poll() time.Duration {
	return time.Duration(c.PollMs) * time.Millisecond
}

// Heartbeat returns the heartbeat interval (0 = disabled).
func (c *Config) Heartbeat() time.Duration {
	return time.Duration(c.HeartbeatMs) * time.Millisecond
}

// AutoClose returns the barrier auto-close duration.
func (c *Config) AutoClose() time.Duration {
	return time.Duration(c.Barrier.AutoCloseMs) * time.Millisecond
}

// ButtonDebounce returns the button debounce window.
func (c *Config) ButtonDebounce() time.Duration {
	return time.Duration(c.Button.DebounceMs) * time.Millisecond
}

// SlotDebounce returns the debounce window for slot i.
func (c *Config) SlotDebounce(i int) time.Duration {
	return time.Duration(c.Slots[i].DebounceMs) * time.Millisecond
}
