package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentra/internal/shared/logger"
)

// nopLogger is a no-op logger for testing.
type nopLogger struct{}

func newNopLogger() logger.Interface { return &nopLogger{} }

func (l *nopLogger) Debug(msg string, args ...any)                   {}
func (l *nopLogger) Info(msg string, args ...any)                    {}
func (l *nopLogger) Warn(msg string, args ...any)                    {}
func (l *nopLogger) Error(msg string, args ...any)                   {}
func (l *nopLogger) With(args ...any) logger.Interface               { return l }
func (l *nopLogger) Named(name string) logger.Interface              { return l }
func (l *nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (l *nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, func() {
		client.Close()
		mr.Close()
	}
}

func TestRedisThreadEventBus_CommentEventCrossInstance(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	publisher := NewRedisThreadEventBus(client, newNopLogger())
	subscriber := NewRedisThreadEventBus(client, newNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ThreadCommentEvent, 1)
	go func() {
		_ = subscriber.SubscribeCommentEvents(ctx, func(event ThreadCommentEvent) {
			received <- event
		})
	}()

	// Give the subscription a moment to establish before publishing.
	time.Sleep(100 * time.Millisecond)

	event := ThreadCommentEvent{
		IssueID: 42,
		Comment: CommentPayload{
			ID:          7,
			IssueID:     42,
			UserID:      3,
			UserType:    "engineer",
			DisplayName: "On-call Engineer",
			Content:     "looking into it",
			CreatedAt:   1700000000000,
		},
	}
	require.NoError(t, publisher.PublishCommentEvent(ctx, event))

	select {
	case got := <-received:
		assert.Equal(t, uint(42), got.IssueID)
		assert.Equal(t, uint(7), got.Comment.ID)
		assert.Equal(t, "looking into it", got.Comment.Content)
		assert.NotZero(t, got.Timestamp)
		assert.Equal(t, publisher.instanceID, got.InstanceID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for comment event")
	}
}

func TestRedisThreadEventBus_FiltersOwnEvents(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	bus := NewRedisThreadEventBus(client, newNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ThreadStatusEvent, 1)
	go func() {
		_ = bus.SubscribeStatusEvents(ctx, func(event ThreadStatusEvent) {
			received <- event
		})
	}()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, bus.PublishStatusEvent(ctx, ThreadStatusEvent{
		IssueID:   42,
		Status:    "resolved",
		UpdatedBy: 3,
	}))

	select {
	case got := <-received:
		t.Fatalf("event from own instance should be filtered, got %+v", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRedisThreadEventBus_StatusEventCrossInstance(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	publisher := NewRedisThreadEventBus(client, newNopLogger())
	subscriber := NewRedisThreadEventBus(client, newNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ThreadStatusEvent, 1)
	go func() {
		_ = subscriber.SubscribeStatusEvents(ctx, func(event ThreadStatusEvent) {
			received <- event
		})
	}()

	time.Sleep(100 * time.Millisecond)

	resolvedAt := int64(1700000000000)
	require.NoError(t, publisher.PublishStatusEvent(ctx, ThreadStatusEvent{
		IssueID:    42,
		Status:     "resolved",
		UpdatedBy:  3,
		ResolvedAt: &resolvedAt,
	}))

	select {
	case got := <-received:
		assert.Equal(t, uint(42), got.IssueID)
		assert.Equal(t, "resolved", got.Status)
		require.NotNil(t, got.ResolvedAt)
		assert.Equal(t, resolvedAt, *got.ResolvedAt)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for status event")
	}
}
