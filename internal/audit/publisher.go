// Package audit publishes a record of every completed lookup to a Kafka
// topic. The trail is optional; lookups never depend on Kafka availability.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/weather-lookup-service/internal/config"
	"github.com/couchcryptid/weather-lookup-service/internal/domain"
	"github.com/couchcryptid/weather-lookup-service/internal/observability"
)

// Lookup outcomes recorded in audit events.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Event is the audit record for one completed lookup.
type Event struct {
	ID           string    `json:"id"`
	City         string    `json:"city"`
	Outcome      string    `json:"outcome"`
	TemperatureC *float64  `json:"temperature_c,omitempty"`
	RequestedAt  time.Time `json:"requested_at"`
}

// NewEvent builds an audit event stamped with a fresh UUID and the active
// clock. report may be nil for non-success outcomes.
func NewEvent(city, outcome string, report *domain.WeatherReport) Event {
	e := Event{
		ID:          uuid.NewString(),
		City:        city,
		Outcome:     outcome,
		RequestedAt: domain.Clock().Now().UTC(),
	}
	if report != nil {
		t := report.TemperatureC
		e.TemperatureC = &t
	}
	return e
}

// Publisher produces audit events to the configured Kafka topic.
type Publisher struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewPublisher creates a Kafka producer for the audit topic.
func NewPublisher(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAuditTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Publisher{writer: w, metrics: metrics, logger: logger}
}

// Publish writes one audit event. Failures are logged and counted but still
// returned so callers can decide; the lookup path ignores them.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		p.metrics.AuditPublishErrors.Inc()
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.AuditPublishErrors.Inc()
		p.logger.Warn("audit publish failed", "city", event.City, "outcome", event.Outcome, "error", err)
		return fmt.Errorf("publish audit event: %w", err)
	}
	p.metrics.AuditEventsPublished.Inc()
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an Event into a Kafka message keyed by city so
// lookups for the same city land on the same partition.
func serializeToMessage(event Event) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize audit event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.City),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "outcome", Value: []byte(event.Outcome)},
			{Key: "requested_at", Value: []byte(event.RequestedAt.Format(time.RFC3339))},
		},
	}, nil
}
