package queue

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisURL() string {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return url
	}
	return "redis://localhost:6379"
}

// skipWithoutRedis skips the test unless a Redis server answers PING
func skipWithoutRedis(t *testing.T) {
	t.Helper()
	opts, err := redis.ParseURL(getRedisURL())
	if err != nil {
		t.Skipf("invalid REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if client.Ping(ctx).Err() != nil {
		t.Skip("Redis not available, skipping test")
	}
}

func TestApplyRedisDefaults(t *testing.T) {
	cfg := RedisConfig{}
	applyRedisDefaults(&cfg)

	assert.Equal(t, "pindex", cfg.Stream)
	assert.Equal(t, "pindex-group", cfg.Group)
	assert.NotEmpty(t, cfg.Consumer)

	custom := RedisConfig{Stream: "s", Group: "g", Consumer: "c"}
	applyRedisDefaults(&custom)
	assert.Equal(t, RedisConfig{Stream: "s", Group: "g", Consumer: "c"}, custom)
}

func TestNewRedisQueue_Unreachable(t *testing.T) {
	_, err := NewRedisQueue(RedisConfig{URL: "redis://127.0.0.1:1"})
	assert.Error(t, err)
}

func TestRedisQueue_PublishSubscribe(t *testing.T) {
	skipWithoutRedis(t)

	stream := "pindex-test-" + time.Now().Format("150405.000000")
	q, err := NewRedisQueue(RedisConfig{URL: getRedisURL(), Stream: stream, Group: "pindex-test"})
	require.NoError(t, err)
	defer func() {
		q.client.Del(context.Background(), q.streamName("records"))
		_ = q.Close()
	}()

	received := make(chan string, 2)
	require.NoError(t, q.Subscribe("records", func(data []byte) error {
		received <- string(data)
		return nil
	}))

	n, err := q.PublishBatch(context.Background(), []BatchMessage{
		{Subject: "records", Data: []byte("a")},
		{Subject: "records", Data: []byte("b")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var got []string
	for i := 0; i < 2; i++ {
		select {
		case msg := <-received:
			got = append(got, msg)
		case <-time.After(10 * time.Second):
			t.Fatal("timeout waiting for Redis message")
		}
	}
	assert.ElementsMatch(t, []string{"a", "b"}, got)
}
