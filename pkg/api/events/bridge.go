package events

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/gothink/gothink/pkg/eventbus"
)

const defaultBridgeBuffer = 256

// bridgeLogger is the minimal logging interface the bridge needs.
type bridgeLogger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopBridgeLogger struct{}

func (nopBridgeLogger) Debug(msg string, args ...any) {}
func (nopBridgeLogger) Warn(msg string, args ...any)  {}

// bridgeMetrics counts events forwarded to the live stream.
type bridgeMetrics interface {
	RecordEventBroadcast(eventType string)
}

type nopBridgeMetrics struct{}

func (nopBridgeMetrics) RecordEventBroadcast(eventType string) {}

// BridgeOption configures optional bridge collaborators.
type BridgeOption func(*Bridge)

// WithBridgeMetrics sets the metrics recorder for forwarded events.
func WithBridgeMetrics(metrics bridgeMetrics) BridgeOption {
	return func(b *Bridge) {
		if metrics != nil {
			b.metrics = metrics
		}
	}
}

// Bridge subscribes to the reasoning lifecycle stream and republishes each
// envelope as a broadcaster event for websocket delivery.
type Bridge struct {
	bus      *eventbus.MemoryBus
	out      *Broadcaster
	consumer *eventbus.EnvelopeConsumer
	logger   bridgeLogger
	metrics  bridgeMetrics

	mu      sync.Mutex
	sub     *eventbus.Subscription
	done    chan struct{}
	started bool
}

// NewBridge creates a bridge between the event bus and the broadcaster.
func NewBridge(bus *eventbus.MemoryBus, out *Broadcaster, log bridgeLogger, opts ...BridgeOption) (*Bridge, error) {
	router := eventbus.NewSchemaRouter()
	if err := eventbus.RegisterReasoningSchemas(router); err != nil {
		return nil, err
	}

	b := &Bridge{
		bus:      bus,
		out:      out,
		consumer: eventbus.NewEnvelopeConsumer(router),
		logger:   nopBridgeLogger{},
		metrics:  nopBridgeMetrics{},
	}
	if log != nil {
		b.logger = log
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Start subscribes to all reasoning subjects and begins forwarding.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return nil
	}

	sub, err := b.bus.Subscribe(eventbus.SubjectPrefix+".>", defaultBridgeBuffer)
	if err != nil {
		return err
	}
	b.sub = sub
	b.done = make(chan struct{})
	b.started = true
	go b.run(ctx, sub, b.done)
	return nil
}

// Stop halts forwarding and releases the bus subscription.
func (b *Bridge) Stop() {
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return
	}
	sub, done := b.sub, b.done
	b.started = false
	b.sub = nil
	b.mu.Unlock()

	_ = sub.Close()
	<-done
}

func (b *Bridge) run(ctx context.Context, sub *eventbus.Subscription, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.C():
			if !ok {
				return
			}
			b.forward(msg)
		}
	}
}

func (b *Bridge) forward(msg eventbus.Message) {
	envelope, _, duplicate, err := b.consumer.DecodeAndValidate(msg.Payload)
	if err != nil {
		b.logger.Warn("dropping malformed lifecycle event", "subject", msg.Subject, "error", err)
		return
	}
	if duplicate {
		return
	}

	eventType := streamEventType(msg.Subject, envelope.EventType)
	b.out.Broadcast(Event{
		Type:      eventType,
		Timestamp: envelope.Timestamp,
		Payload:   streamPayload(envelope),
	})
	b.metrics.RecordEventBroadcast(eventType)
	b.logger.Debug("forwarded lifecycle event", "type", eventType, "event_id", envelope.EventID)
}

// streamEventType joins the subject's domain segment with the envelope's
// event type, producing names like "thought.accepted" or "branch.pruned".
func streamEventType(subject, eventType string) string {
	rest := strings.TrimPrefix(subject, eventbus.SubjectPrefix+".")
	if rest != subject {
		if domain, _, ok := strings.Cut(rest, "."); ok && domain != "" {
			return domain + "." + eventType
		}
	}
	return eventType
}

// streamPayload flattens the envelope into a single payload map so clients
// never have to parse nested envelope fields.
func streamPayload(envelope eventbus.Envelope) map[string]any {
	payload := make(map[string]any)
	if len(envelope.Payload) > 0 {
		_ = json.Unmarshal(envelope.Payload, &payload)
	}
	payload["event_id"] = envelope.EventID
	payload["session_key"] = envelope.SessionKey
	payload["sequence"] = envelope.Sequence
	if envelope.BranchID != "" {
		payload["branch_id"] = envelope.BranchID
	}
	if envelope.ThoughtID != "" {
		payload["thought_id"] = envelope.ThoughtID
	}
	return payload
}
