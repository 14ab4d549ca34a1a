package services

import (
	"context"

	"sentra/internal/application/issue/dto"
	"sentra/internal/infrastructure/pubsub"
	"sentra/internal/shared/biztime"
	"sentra/internal/shared/logger"
)

// ThreadPushService fans thread events out to the local websocket hub and,
// via the Redis event bus, to every other server instance. It also applies
// events arriving from other instances to the local hub, which closes the
// cross-instance delivery loop.
type ThreadPushService struct {
	hub    *IssueHub
	bus    pubsub.ThreadEventBus
	logger logger.Interface
}

func NewThreadPushService(hub *IssueHub, bus pubsub.ThreadEventBus, log logger.Interface) *ThreadPushService {
	return &ThreadPushService{
		hub:    hub,
		bus:    bus,
		logger: log,
	}
}

// NotifyCommentAdded pushes a freshly committed comment to all subscribers.
// The sender's own connection receives it too; clients absorb the duplicate
// during reconciliation.
func (s *ThreadPushService) NotifyCommentAdded(ctx context.Context, comment dto.CommentDTO) {
	payload := commentToPayload(comment)

	delivered := s.hub.BroadcastToIssue(comment.IssueID, &ThreadMessage{
		Type:      MsgTypeCommentAdded,
		IssueID:   comment.IssueID,
		Timestamp: biztime.NowUTC().UnixMilli(),
		Data:      payload,
	})

	s.logger.Debugw("comment pushed to local subscribers",
		"issue_id", comment.IssueID,
		"comment_id", comment.ID,
		"delivered", delivered,
	)

	if s.bus == nil {
		return
	}
	if err := s.bus.PublishCommentEvent(ctx, pubsub.ThreadCommentEvent{
		IssueID: comment.IssueID,
		Comment: payload,
	}); err != nil {
		s.logger.Warnw("failed to relay comment event to other instances",
			"issue_id", comment.IssueID,
			"comment_id", comment.ID,
			"error", err,
		)
	}
}

// NotifyStatusChanged pushes a committed status transition to all subscribers.
func (s *ThreadPushService) NotifyStatusChanged(ctx context.Context, issueID uint, status string, updatedBy uint, resolvedAt *int64) {
	s.broadcastStatusLocal(issueID, status, updatedBy, resolvedAt)

	if s.bus == nil {
		return
	}
	if err := s.bus.PublishStatusEvent(ctx, pubsub.ThreadStatusEvent{
		IssueID:    issueID,
		Status:     status,
		UpdatedBy:  updatedBy,
		ResolvedAt: resolvedAt,
	}); err != nil {
		s.logger.Warnw("failed to relay status event to other instances",
			"issue_id", issueID,
			"status", status,
			"error", err,
		)
	}
}

// Start subscribes to the event bus and applies remote events to the local
// hub. Blocks until ctx is cancelled; run it in its own goroutine per channel.
func (s *ThreadPushService) Start(ctx context.Context) {
	if s.bus == nil {
		return
	}

	go func() {
		_ = s.bus.SubscribeCommentEvents(ctx, func(event pubsub.ThreadCommentEvent) {
			s.hub.BroadcastToIssue(event.IssueID, &ThreadMessage{
				Type:      MsgTypeCommentAdded,
				IssueID:   event.IssueID,
				Timestamp: event.Timestamp,
				Data:      event.Comment,
			})
		})
	}()

	go func() {
		_ = s.bus.SubscribeStatusEvents(ctx, func(event pubsub.ThreadStatusEvent) {
			s.broadcastStatusLocal(event.IssueID, event.Status, event.UpdatedBy, event.ResolvedAt)
		})
	}()
}

func (s *ThreadPushService) broadcastStatusLocal(issueID uint, status string, updatedBy uint, resolvedAt *int64) {
	s.hub.BroadcastToIssue(issueID, &ThreadMessage{
		Type:      MsgTypeStatusChanged,
		IssueID:   issueID,
		Timestamp: biztime.NowUTC().UnixMilli(),
		Data: map[string]any{
			"issue_id":    issueID,
			"status":      status,
			"updated_by":  updatedBy,
			"resolved_at": resolvedAt,
		},
	})
}

func commentToPayload(comment dto.CommentDTO) pubsub.CommentPayload {
	return pubsub.CommentPayload{
		ID:          comment.ID,
		IssueID:     comment.IssueID,
		UserID:      comment.UserID,
		UserType:    comment.UserType,
		DisplayName: comment.DisplayName,
		AvatarRef:   comment.AvatarRef,
		Content:     comment.Content,
		ContentHTML: comment.ContentHTML,
		CreatedAt:   comment.CreatedAt,
	}
}
