package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestNATS creates an embedded NATS server with JetStream for testing
func setupTestNATS(t *testing.T) (string, func()) {
	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		t.Fatalf("Failed to create NATS server: %v", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}

	cleanup := func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	}
	return ns.ClientURL(), cleanup
}

func TestNewNATSQueue(t *testing.T) {
	url, cleanup := setupTestNATS(t)
	defer cleanup()

	q, err := NewNATSQueue(url)
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	assert.NotNil(t, q.conn)
	assert.NotNil(t, q.js)
	assert.NotNil(t, q.subscriptions)
}

func TestNewNATSQueue_InvalidURL(t *testing.T) {
	q, err := NewNATSQueue("nats://127.0.0.1:1")
	if err == nil {
		_ = q.Close()
		t.Fatal("Expected error with unreachable server")
	}
}

func TestNATSQueue_WithExistingConn(t *testing.T) {
	url, cleanup := setupTestNATS(t)
	defer cleanup()

	conn, err := nats.Connect(url)
	require.NoError(t, err)

	q, err := newNATSQueueWithConn(conn)
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	require.NoError(t, q.Publish(context.Background(), "pindex.conn", []byte("x")))
}

func TestNATSQueue_PublishThenSubscribeReplays(t *testing.T) {
	url, cleanup := setupTestNATS(t)
	defer cleanup()

	q, err := NewNATSQueue(url)
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	subject := "pindex.occurrences"
	ctx := context.Background()
	for _, msg := range []string{"one", "two", "three"} {
		require.NoError(t, q.Publish(ctx, subject, []byte(msg)))
	}

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})
	require.NoError(t, q.Subscribe(subject, func(data []byte) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, string(data))
		if len(got) == 3 {
			close(done)
		}
		return nil
	}))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for replayed messages")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestNATSQueue_PublishBatch(t *testing.T) {
	url, cleanup := setupTestNATS(t)
	defer cleanup()

	q, err := NewNATSQueue(url)
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	messages := []BatchMessage{
		{Subject: "pindex.index.theft", Data: []byte(`{"p_index":12.5}`)},
		{Subject: "pindex.index.theft", Data: []byte(`{"p_index":-80}`)},
		{Subject: "pindex.index.assault", Data: []byte(`{"p_index":95.4}`)},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := q.PublishBatch(ctx, messages)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	info, err := q.js.StreamInfo(natsStreamPrefix + sanitizeConsumerName("pindex.index.theft"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), info.State.Msgs)
}

func TestNATSQueue_PublishBatchEmpty(t *testing.T) {
	url, cleanup := setupTestNATS(t)
	defer cleanup()

	q, err := NewNATSQueue(url)
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	n, err := q.PublishBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestNATSQueue_SubscribeTwiceAndUnsubscribe(t *testing.T) {
	url, cleanup := setupTestNATS(t)
	defer cleanup()

	q, err := NewNATSQueue(url)
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	handler := func([]byte) error { return nil }
	require.NoError(t, q.Subscribe("pindex.dup", handler))
	assert.Error(t, q.Subscribe("pindex.dup", handler))

	require.NoError(t, q.Unsubscribe("pindex.dup"))
	assert.Error(t, q.Unsubscribe("pindex.dup"))
}
