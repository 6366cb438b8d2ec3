package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/elevate/clubhub/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Event types
const (
	ClubRequestCreated   = "club_request.created"
	ClubRequestApproved  = "club_request.approved"
	ClubRequestRejected  = "club_request.rejected"
	ClubRequestWithdrawn = "club_request.withdrawn"
	AnnouncementCreated  = "announcement.created"
	ClubAdminAssigned    = "club.admin_assigned"
)

// Event is the envelope written to the topic
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	ClubID     int64       `json:"clubId"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload,omitempty"`
}

// NewEvent stamps a new event
func NewEvent(eventType string, clubID int64, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ClubID:     clubID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher emits domain events
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Config holds kafka producer settings
type Config struct {
	Brokers []string
	Topic   string
}

// KafkaPublisher writes events to a kafka topic keyed by club ID, so events of one club
// stay ordered within a partition
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaPublisher creates a synchronous producer
func NewKafkaPublisher(cfg Config) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		AllowAutoTopicCreation: true,
	}
	logger.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("Kafka publisher configured")
	return &KafkaPublisher{writer: w, topic: cfg.Topic}, nil
}

// Publish sends one event
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ClubID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", event.Type, p.topic, err)
	}
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
