package queue

import (
	"fmt"
	"strings"

	"github.com/soltixdb/pindex/internal/config"
)

// NewQueue creates a new Queue instance based on configuration.
// The in-process memory queue is used when no type is configured.
func NewQueue(cfg config.QueueConfig) (Queue, error) {
	queueType := QueueType(strings.ToLower(cfg.Type))
	if queueType == "" {
		queueType = QueueTypeMemory
	}

	switch queueType {
	case QueueTypeNATS:
		return newNATSQueue(cfg.URL, cfg.Username, cfg.Password)

	case QueueTypeRedis:
		return newRedisQueue(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
			Group:    cfg.RedisGroup,
			Consumer: cfg.RedisConsumer,
		})

	case QueueTypeKafka:
		return newKafkaQueue(KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.KafkaGroupID,
		})

	case QueueTypeMemory:
		return newMemoryQueue(), nil

	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: nats, redis, kafka, memory)", queueType)
	}
}

// NewPublisher creates a new Publisher instance based on configuration
func NewPublisher(cfg config.QueueConfig) (Publisher, error) {
	return NewQueue(cfg)
}

// NewSubscriber creates a new Subscriber instance based on configuration
func NewSubscriber(cfg config.QueueConfig) (Subscriber, error) {
	return NewQueue(cfg)
}
