package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/sweeney/carpark-controller/internal/logic"
)

// bufferCapacity bounds how many messages survive a broker outage.
const bufferCapacity = 64

// RealPublisher publishes to an actual MQTT broker. The controller must
// keep running with no broker in reach, so construction never fails:
// events published while disconnected are held in a ring buffer and
// replayed on (re)connect.
type RealPublisher struct {
	client      paho.Client
	eventTopic  string
	systemTopic string

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealPublisher creates a publisher for the given broker and lot name.
// The connection is established in the background with automatic retry.
func NewRealPublisher(broker, lot string) *RealPublisher {
	p := &RealPublisher{
		eventTopic:  EventTopic(lot),
		systemTopic: SystemTopic(lot),
		buf:         newRingBuffer(bufferCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("carpark-controller-" + lot).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(p.onConnect)

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

// onConnect replays messages buffered while disconnected, oldest first.
func (p *RealPublisher) onConnect(client paho.Client) {
	p.mu.Lock()
	msgs := p.buf.drain()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Info().Int("messages", len(msgs)).Msg("mqtt reconnected, replaying buffered messages")
	for _, m := range msgs {
		token := client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Warn().Str("topic", m.topic).Msg("replay publish timeout")
		}
	}
}

func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.buf.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		p.mu.Unlock()
		return fmt.Errorf("not connected, message buffered")
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Publish sends a lot event to the broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	// QoS 0 (at-most-once), not retained
	return p.publish(p.eventTopic, 0, false, payload)
}

// PublishSystem sends a system lifecycle event to the broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	// QoS 1 (at-least-once) for lifecycle events - we want delivery
	return p.publish(p.systemTopic, 1, event.Retained, payload)
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
