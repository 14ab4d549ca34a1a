package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"sentra/internal/shared/biztime"
	"sentra/internal/shared/goroutine"
	"sentra/internal/shared/logger"
)

const (
	threadCommentChannel = "sentra:thread:comment"
	threadStatusChannel  = "sentra:thread:status"
)

// CommentPayload is the wire form of a comment pushed to thread subscribers.
// Field names match the REST representation so clients reconcile pushed and
// fetched comments through the same decoder.
type CommentPayload struct {
	ID          uint   `json:"id"`
	IssueID     uint   `json:"issue_id"`
	UserID      uint   `json:"user_id"`
	UserType    string `json:"user_type"`
	DisplayName string `json:"display_name"`
	AvatarRef   string `json:"avatar_ref,omitempty"`
	Content     string `json:"content"`
	ContentHTML string `json:"content_html,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// ThreadCommentEvent relays a newly posted comment to every instance holding
// subscribers for its issue.
type ThreadCommentEvent struct {
	IssueID    uint           `json:"issue_id"`
	Comment    CommentPayload `json:"comment"`
	Timestamp  int64          `json:"timestamp"`
	InstanceID string         `json:"instance_id,omitempty"` // Source instance ID to avoid self-delivery
}

// ThreadStatusEvent relays an issue status change for cross-instance fan-out.
type ThreadStatusEvent struct {
	IssueID    uint   `json:"issue_id"`
	Status     string `json:"status"`
	UpdatedBy  uint   `json:"updated_by"`
	ResolvedAt *int64 `json:"resolved_at,omitempty"`
	Timestamp  int64  `json:"timestamp"`
	InstanceID string `json:"instance_id,omitempty"`
}

// ThreadEventPublisher defines the interface for publishing thread events across instances.
type ThreadEventPublisher interface {
	PublishCommentEvent(ctx context.Context, event ThreadCommentEvent) error
	PublishStatusEvent(ctx context.Context, event ThreadStatusEvent) error
}

// ThreadEventSubscriber defines the interface for subscribing to thread events.
type ThreadEventSubscriber interface {
	SubscribeCommentEvents(ctx context.Context, handler func(event ThreadCommentEvent)) error
	SubscribeStatusEvents(ctx context.Context, handler func(event ThreadStatusEvent)) error
}

// ThreadEventBus combines publisher and subscriber interfaces.
type ThreadEventBus interface {
	ThreadEventPublisher
	ThreadEventSubscriber
}

// RedisThreadEventBus implements ThreadEventBus using Redis Pub/Sub.
// Each server instance publishes the events it originates and applies events
// from other instances to its local websocket hub; its own events are filtered
// on receipt because the hub has already broadcast them locally.
type RedisThreadEventBus struct {
	client     *redis.Client
	logger     logger.Interface
	instanceID string
}

// NewRedisThreadEventBus creates a new Redis-based thread event bus.
func NewRedisThreadEventBus(client *redis.Client, logger logger.Interface) *RedisThreadEventBus {
	return &RedisThreadEventBus{
		client:     client,
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

// PublishCommentEvent publishes a comment event to Redis for cross-instance delivery.
func (b *RedisThreadEventBus) PublishCommentEvent(ctx context.Context, event ThreadCommentEvent) error {
	if event.Timestamp == 0 {
		event.Timestamp = biztime.NowUTC().UnixMilli()
	}
	event.InstanceID = b.instanceID

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal thread comment event: %w", err)
	}

	if err := b.client.Publish(ctx, threadCommentChannel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish thread comment event",
			"issue_id", event.IssueID,
			"comment_id", event.Comment.ID,
			"error", err,
		)
		return fmt.Errorf("failed to publish thread comment event: %w", err)
	}

	b.logger.Debugw("thread comment event published to Redis",
		"issue_id", event.IssueID,
		"comment_id", event.Comment.ID,
	)
	return nil
}

// PublishStatusEvent publishes a status change event to Redis.
func (b *RedisThreadEventBus) PublishStatusEvent(ctx context.Context, event ThreadStatusEvent) error {
	if event.Timestamp == 0 {
		event.Timestamp = biztime.NowUTC().UnixMilli()
	}
	event.InstanceID = b.instanceID

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal thread status event: %w", err)
	}

	if err := b.client.Publish(ctx, threadStatusChannel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish thread status event",
			"issue_id", event.IssueID,
			"status", event.Status,
			"error", err,
		)
		return fmt.Errorf("failed to publish thread status event: %w", err)
	}

	b.logger.Debugw("thread status event published to Redis",
		"issue_id", event.IssueID,
		"status", event.Status,
	)
	return nil
}

// SubscribeCommentEvents subscribes to comment events from Redis.
// Events published by this instance are filtered out.
func (b *RedisThreadEventBus) SubscribeCommentEvents(ctx context.Context, handler func(event ThreadCommentEvent)) error {
	return b.subscribeWithReconnect(ctx, threadCommentChannel, func(payload string) {
		var event ThreadCommentEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			b.logger.Warnw("failed to unmarshal thread comment event",
				"payload", payload,
				"error", err,
			)
			return
		}

		if event.InstanceID == b.instanceID {
			return
		}

		handler(event)
	})
}

// SubscribeStatusEvents subscribes to status change events from Redis.
// Events published by this instance are filtered out.
func (b *RedisThreadEventBus) SubscribeStatusEvents(ctx context.Context, handler func(event ThreadStatusEvent)) error {
	return b.subscribeWithReconnect(ctx, threadStatusChannel, func(payload string) {
		var event ThreadStatusEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			b.logger.Warnw("failed to unmarshal thread status event",
				"payload", payload,
				"error", err,
			)
			return
		}

		if event.InstanceID == b.instanceID {
			return
		}

		handler(event)
	})
}

// subscribeWithReconnect wraps subscribe with automatic reconnection and exponential backoff.
func (b *RedisThreadEventBus) subscribeWithReconnect(ctx context.Context, channel string, handler func(payload string)) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.subscribe(ctx, channel, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("thread subscription disconnected, reconnecting",
			"channel", channel,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

// subscribe is a generic Redis Pub/Sub subscriber.
func (b *RedisThreadEventBus) subscribe(ctx context.Context, channel string, handler func(payload string)) error {
	pubsub := b.client.Subscribe(ctx, channel)
	defer pubsub.Close()

	_, err := pubsub.Receive(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", channel, err)
	}

	b.logger.Infow("subscribed to thread event channel",
		"channel", channel,
	)

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("thread event subscriber stopped",
				"channel", channel,
				"reason", ctx.Err(),
			)
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("thread event channel closed",
					"channel", channel,
				)
				return nil
			}

			goroutine.SafeGo(b.logger, "thread-event-handler-"+channel, func() {
				handler(msg.Payload)
			})
		}
	}
}
