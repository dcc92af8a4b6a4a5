// Package events announces finished detections to an MQTT broker so farm
// dashboards and devices can react to them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"agrisakhi/api/internal/logger"
	"agrisakhi/api/internal/plant"
)

// Publisher is what the detection pipeline talks to.
type Publisher interface {
	Publish(ctx context.Context, identity string, rec plant.DetectionRecord) error
	Close()
}

// Nop drops every event. Used when MQTT is disabled.
type Nop struct{}

func (Nop) Publish(context.Context, string, plant.DetectionRecord) error { return nil }
func (Nop) Close() {}

const (
	userPlaceholder = "{user_id}"
	guestTopicID    = "guest"
	queueSize       = 64
	publishTimeout  = 5 * time.Second
	disconnectQuiet = 250 // ms
)

// client is the part of mqtt.Client the publisher uses.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

type message struct {
	topic   string
	payload []byte
}

// MQTTPublisher queues events and publishes them from a single goroutine, so
// a slow broker never holds up a request.
type MQTTPublisher struct {
	client client
	topic  string
	qos    byte
	log    *slog.Logger

	queue     chan message
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewMQTTPublisher starts the publish loop. topic may contain {user_id}.
func NewMQTTPublisher(c client, topic string, qos byte) *MQTTPublisher {
	p := &MQTTPublisher{
		client:  c,
		topic:   topic,
		qos:     qos,
		log:     logger.Module("events"),
		queue:   make(chan message, queueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go p.run()
	return p
}

// Topic expands the {user_id} placeholder; guests publish under "guest".
func Topic(pattern, identity string) string {
	if identity == "" {
		identity = guestTopicID
	}
	return strings.ReplaceAll(pattern, userPlaceholder, identity)
}

// Publish enqueues rec. A full queue drops the event and returns an error.
func (p *MQTTPublisher) Publish(ctx context.Context, identity string, rec plant.DetectionRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal detection event: %w", err)
	}
	msg := message{topic: Topic(p.topic, identity), payload: payload}
	select {
	case <-p.done:
		return fmt.Errorf("publisher closed")
	default:
	}
	select {
	case p.queue <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("event queue full, dropping detection %s", rec.ID)
	}
}

func (p *MQTTPublisher) run() {
	defer close(p.stopped)
	for {
		select {
		case <-p.done:
			p.drain()
			return
		case msg := <-p.queue:
			p.send(msg)
		}
	}
}

func (p *MQTTPublisher) drain() {
	for {
		select {
		case msg := <-p.queue:
			p.send(msg)
		default:
			return
		}
	}
}

func (p *MQTTPublisher) send(msg message) {
	token := p.client.Publish(msg.topic, p.qos, false, msg.payload)
	if !token.WaitTimeout(publishTimeout) {
		p.log.Warn("mqtt publish timed out", "topic", msg.topic)
		return
	}
	if err := token.Error(); err != nil {
		p.log.Warn("mqtt publish failed", "topic", msg.topic, "error", err)
		return
	}
	p.log.Debug("detection published", "topic", msg.topic, "bytes", len(msg.payload))
}

// Close flushes queued events and disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		<-p.stopped
		p.client.Disconnect(disconnectQuiet)
	})
}
