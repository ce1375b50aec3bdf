package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/metrics"

	"github.com/segmentio/kafka-go"
)

// Domain event types. The topic is "<prefix>.<type>".
const (
	EventUserCreated     = "user.created"
	EventOrderCreated    = "order.created"
	EventTicketIssued    = "ticket.issued"
	EventTicketCheckedIn = "ticket.checked_in"
)

func EventTypes() []string {
	return []string{EventUserCreated, EventOrderCreated, EventTicketIssued, EventTicketCheckedIn}
}

// Publisher hands domain events to the broker after the owning row has been committed.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, data interface{}) error
}

type Envelope struct {
	Type       string      `json:"type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

type Producer struct {
	Writer *kafka.Writer
	Prefix string
	Logger *logger.Logger
}

// NewProducer builds an async writer; delivery failures are logged and counted, never
// returned to the request that produced the event.
func NewProducer(brokers []string, prefix string, log *logger.Logger) *Producer {
	p := &Producer{Prefix: prefix, Logger: log}
	p.Writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             p.onCompletion,
	}
	return p
}

func (p *Producer) Topic(eventType string) string {
	if p.Prefix == "" {
		return eventType
	}
	return p.Prefix + "." + eventType
}

func (p *Producer) Topics() []string {
	topics := make([]string, 0, len(EventTypes()))
	for _, t := range EventTypes() {
		topics = append(topics, p.Topic(t))
	}
	return topics
}

func (p *Producer) Publish(ctx context.Context, eventType, key string, data interface{}) error {
	msgBytes, err := json.Marshal(Envelope{
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	topic := p.Topic(eventType)
	p.Logger.LogKafka("PUBLISH", topic, key)
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: msgBytes,
	})
}

func (p *Producer) onCompletion(messages []kafka.Message, err error) {
	for _, m := range messages {
		metrics.RecordDomainEvent(m.Topic, err)
		if err != nil {
			p.Logger.Error("KAFKA", fmt.Sprintf("Failed to deliver %s key=%s: %v", m.Topic, string(m.Key), err))
		}
	}
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// LogPublisher stands in for Kafka when no brokers are configured.
type LogPublisher struct {
	Logger *logger.Logger
}

func (l LogPublisher) Publish(_ context.Context, eventType, key string, _ interface{}) error {
	l.Logger.Debug("KAFKA", fmt.Sprintf("[DISABLED] %s key=%s", eventType, key))
	return nil
}

// KeyOf formats an integer id as a message key.
func KeyOf(id int64) string {
	return strconv.FormatInt(id, 10)
}
