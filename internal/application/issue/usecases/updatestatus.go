package usecases

import (
	"context"
	"fmt"

	"sentra/internal/application/issue/dto"
	"sentra/internal/domain/issue"
	vo "sentra/internal/domain/issue/valueobjects"
	"sentra/internal/shared/errors"
	"sentra/internal/shared/logger"
)

type UpdateStatusCommand struct {
	IssueID     uint
	NewStatus   vo.IssueStatus
	Comment     string
	UserID      uint
	UserType    vo.UserType
	DisplayName string
	AvatarRef   string
}

type UpdateStatusResult struct {
	IssueID    uint   `json:"issue_id"`
	Status     string `json:"status"`
	ResolvedAt *int64 `json:"resolved_at,omitempty"`

	// Comment is set when the optional resolution comment was attached.
	// CommentError is set when the status committed but the comment did not;
	// the status change is never rolled back for a failed comment.
	Comment      *dto.CommentDTO `json:"comment,omitempty"`
	CommentError string          `json:"comment_error,omitempty"`
}

// UpdateStatusUseCase commits a workflow transition and then, separately,
// attaches the optional comment through the regular comment path. The two
// writes are deliberately not one transaction: a resolved issue with a lost
// comment beats an unresolved issue with a lost resolution.
type UpdateStatusUseCase struct {
	issueRepo  issue.IssueRepository
	addComment AddCommentExecutor
	txMgr      TransactionRunner
	notifier   ThreadNotifier
	mailer     NotificationService
	logger     logger.Interface
}

func NewUpdateStatusUseCase(
	issueRepo issue.IssueRepository,
	addComment AddCommentExecutor,
	txMgr TransactionRunner,
	notifier ThreadNotifier,
	mailer NotificationService,
	logger logger.Interface,
) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		issueRepo:  issueRepo,
		addComment: addComment,
		txMgr:      txMgr,
		notifier:   notifier,
		mailer:     mailer,
		logger:     logger,
	}
}

func (uc *UpdateStatusUseCase) Execute(ctx context.Context, cmd UpdateStatusCommand) (*UpdateStatusResult, error) {
	uc.logger.Infow("executing update status use case",
		"issue_id", cmd.IssueID,
		"new_status", cmd.NewStatus,
		"user_id", cmd.UserID)

	if !cmd.UserType.IsEngineer() {
		uc.logger.Warnw("non-engineer attempted status change", "issue_id", cmd.IssueID, "user_id", cmd.UserID)
		return nil, errors.NewForbiddenError("only engineers can change issue status")
	}

	i, err := uc.issueRepo.GetByID(ctx, cmd.IssueID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to load issue", "issue_id", cmd.IssueID, "error", err)
		return nil, fmt.Errorf("failed to load issue: %w", err)
	}

	previousStatus := i.Status()

	if err := i.ChangeStatus(cmd.NewStatus, cmd.UserID); err != nil {
		uc.logger.Warnw("status transition rejected",
			"issue_id", cmd.IssueID,
			"from", previousStatus,
			"to", cmd.NewStatus,
			"error", err)
		return nil, errors.NewValidationError(err.Error())
	}

	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.issueRepo.Update(txCtx, i); err != nil {
			uc.logger.Errorw("failed to persist status change", "issue_id", cmd.IssueID, "error", err)
			return fmt.Errorf("failed to persist status change: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	result := &UpdateStatusResult{
		IssueID: i.ID(),
		Status:  i.Status().String(),
	}
	if i.ResolvedAt() != nil {
		resolved := i.ResolvedAt().UnixMilli()
		result.ResolvedAt = &resolved
	}

	statusChanged := previousStatus != i.Status()
	if statusChanged && uc.notifier != nil {
		uc.notifier.NotifyStatusChanged(ctx, i.ID(), i.Status().String(), cmd.UserID, result.ResolvedAt)
	}

	if cmd.Comment != "" {
		commentResult, err := uc.addComment.Execute(ctx, AddCommentCommand{
			IssueID:     cmd.IssueID,
			UserID:      cmd.UserID,
			UserType:    cmd.UserType,
			DisplayName: cmd.DisplayName,
			AvatarRef:   cmd.AvatarRef,
			Content:     cmd.Comment,
		})
		if err != nil {
			uc.logger.Errorw("status committed but comment failed",
				"issue_id", cmd.IssueID,
				"status", result.Status,
				"error", err)
			result.CommentError = err.Error()
		} else {
			result.Comment = &commentResult.Comment
		}
	}

	if statusChanged && i.Status().IsResolved() && uc.mailer != nil {
		if err := uc.mailer.NotifyIssueResolved(ctx, i.ID(), i.Title()); err != nil {
			uc.logger.Warnw("failed to send resolution notification", "issue_id", i.ID(), "error", err)
		}
	}

	uc.logger.Infow("status updated successfully",
		"issue_id", cmd.IssueID,
		"from", previousStatus,
		"to", result.Status)
	return result, nil
}
