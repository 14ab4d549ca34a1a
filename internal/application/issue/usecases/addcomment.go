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

type AddCommentCommand struct {
	IssueID     uint
	UserID      uint
	UserType    vo.UserType
	DisplayName string
	AvatarRef   string
	Content     string
}

type AddCommentResult struct {
	Comment dto.CommentDTO
}

type AddCommentUseCase struct {
	issueRepo   issue.IssueRepository
	commentRepo issue.CommentRepository
	txMgr       TransactionRunner
	markdown    MarkdownRenderer
	notifier    ThreadNotifier
	logger      logger.Interface
}

func NewAddCommentUseCase(
	issueRepo issue.IssueRepository,
	commentRepo issue.CommentRepository,
	txMgr TransactionRunner,
	markdown MarkdownRenderer,
	notifier ThreadNotifier,
	logger logger.Interface,
) *AddCommentUseCase {
	return &AddCommentUseCase{
		issueRepo:   issueRepo,
		commentRepo: commentRepo,
		txMgr:       txMgr,
		markdown:    markdown,
		notifier:    notifier,
		logger:      logger,
	}
}

func (uc *AddCommentUseCase) Execute(ctx context.Context, cmd AddCommentCommand) (*AddCommentResult, error) {
	uc.logger.Infow("executing add comment use case", "issue_id", cmd.IssueID, "user_id", cmd.UserID)

	i, err := uc.issueRepo.GetByID(ctx, cmd.IssueID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to load issue", "issue_id", cmd.IssueID, "error", err)
		return nil, fmt.Errorf("failed to load issue: %w", err)
	}

	if !i.CanBeViewedBy(cmd.UserID, cmd.UserType) {
		uc.logger.Warnw("user cannot comment on issue", "issue_id", cmd.IssueID, "user_id", cmd.UserID)
		return nil, errors.NewForbiddenError("cannot comment on this issue")
	}

	author := issue.Author{
		UserID:      cmd.UserID,
		UserType:    cmd.UserType,
		DisplayName: cmd.DisplayName,
		AvatarRef:   cmd.AvatarRef,
	}

	comment, err := issue.NewComment(cmd.IssueID, author, cmd.Content)
	if err != nil {
		uc.logger.Warnw("invalid comment", "issue_id", cmd.IssueID, "error", err)
		return nil, errors.NewValidationError(err.Error())
	}

	// Comment save and issue touch commit atomically. The push below runs
	// only after commit, so subscribers never see a comment the next page
	// fetch could miss.
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.commentRepo.Save(txCtx, comment); err != nil {
			uc.logger.Errorw("failed to save comment", "error", err)
			return fmt.Errorf("failed to save comment: %w", err)
		}

		if err := i.AttachComment(comment); err != nil {
			return fmt.Errorf("failed to attach comment: %w", err)
		}

		if err := uc.issueRepo.Update(txCtx, i); err != nil {
			uc.logger.Errorw("failed to update issue", "error", err)
			return fmt.Errorf("failed to update issue: %w", err)
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	contentHTML, err := uc.markdown.ToHTML(comment.Content())
	if err != nil {
		uc.logger.Warnw("failed to render comment markdown", "comment_id", comment.ID(), "error", err)
		contentHTML = ""
	}

	commentDTO := dto.ToCommentDTO(comment, contentHTML)

	if uc.notifier != nil {
		uc.notifier.NotifyCommentAdded(ctx, commentDTO)
	}

	uc.logger.Infow("comment added successfully", "comment_id", comment.ID(), "issue_id", cmd.IssueID)
	return &AddCommentResult{Comment: commentDTO}, nil
}
