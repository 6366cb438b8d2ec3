package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	e := NewEvent(ClubRequestApproved, 3, map[string]int64{"requestId": 9})
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, ClubRequestApproved, e.Type)
	assert.Equal(t, int64(3), e.ClubID)
	assert.False(t, e.OccurredAt.IsZero())
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(Config{Topic: "clubhub.events"})
	assert.Error(t, err)

	p, err := NewKafkaPublisher(Config{Brokers: []string{"localhost:9092"}, Topic: "clubhub.events"})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), NewEvent(AnnouncementCreated, 1, nil)))
	assert.NoError(t, p.Close())
}
