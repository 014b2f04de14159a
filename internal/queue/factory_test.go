package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/pindex/internal/config"
)

func TestNewQueue_DefaultsToMemory(t *testing.T) {
	q, err := NewQueue(config.QueueConfig{})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	_, ok := q.(*MemoryQueue)
	assert.True(t, ok, "expected *MemoryQueue, got %T", q)
}

func TestNewQueue_TypeIsCaseInsensitive(t *testing.T) {
	q, err := NewQueue(config.QueueConfig{Type: "MEMORY"})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	_, ok := q.(*MemoryQueue)
	assert.True(t, ok)
}

func TestNewQueue_UnsupportedType(t *testing.T) {
	_, err := NewQueue(config.QueueConfig{Type: "rabbitmq"})
	assert.Error(t, err)
}

func TestNewQueue_KafkaWithoutBrokers(t *testing.T) {
	_, err := NewQueue(config.QueueConfig{Type: "kafka"})
	assert.Error(t, err)
}

func TestNewPublisherAndSubscriber(t *testing.T) {
	pub, err := NewPublisher(config.QueueConfig{Type: "memory"})
	require.NoError(t, err)
	assert.NoError(t, pub.Close())

	sub, err := NewSubscriber(config.QueueConfig{Type: "memory"})
	require.NoError(t, err)
	assert.NoError(t, sub.Close())
}

func TestSubjectToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Theft from Vehicle", "theft_from_vehicle"},
		{"  Break and Enter Commercial ", "break_and_enter_commercial"},
		{"Mischief.Property", "mischief_property"},
		{"assault-1", "assault-1"},
		{"", "_"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SubjectToken(tt.in), "SubjectToken(%q)", tt.in)
	}
}
