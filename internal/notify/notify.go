package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event is the change notification published after a catalog write. The
// payload identifies the write for tracing; consumers only care that the
// collection changed at all.
type Event struct {
	Type      string    `json:"type"`
	ID        string    `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventCatalogChanged is the only event type currently emitted.
const EventCatalogChanged = "catalog_changed"

// Publisher emits change events to the notification topic.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers:     brokers,
			Topic:       topic,
			MaxAttempts: 3,
		}),
	}
}

// CatalogChanged publishes one change event.
func (p *Publisher) CatalogChanged(ctx context.Context, id string) error {
	event := Event{
		Type:      EventCatalogChanged,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: payload}); err != nil {
		return fmt.Errorf("write change event: %w", err)
	}
	return nil
}

// Close releases the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Listener consumes change events in the order the transport delivers them.
type Listener struct {
	reader *kafka.Reader
}

// NewListener creates a consumer-group listener on the notification topic.
func NewListener(brokers []string, topic, group string) *Listener {
	return &Listener{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  group,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
	}
}

// Next blocks until one change event has been delivered and committed. The
// event body is not inspected: any event means the collection changed.
func (l *Listener) Next(ctx context.Context) error {
	msg, err := l.reader.FetchMessage(ctx)
	if err != nil {
		return fmt.Errorf("fetch change event: %w", err)
	}

	if err := l.reader.CommitMessages(ctx, msg); err != nil {
		return fmt.Errorf("commit change event: %w", err)
	}
	return nil
}

// Close tears the subscription down. It must complete before a new listener
// is started for the same group to avoid duplicate update streams.
func (l *Listener) Close() error {
	return l.reader.Close()
}
