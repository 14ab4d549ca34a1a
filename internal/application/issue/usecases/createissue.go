package usecases

import (
	"context"
	"fmt"

	"sentra/internal/domain/issue"
	"sentra/internal/shared/logger"
)

type CreateIssueCommand struct {
	Title       string
	Description string
	Location    string
	Cause       string
	ReporterID  uint
	Images      []string
}

type CreateIssueResult struct {
	IssueID   uint   `json:"issue_id"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

type CreateIssueUseCase struct {
	issueRepo issue.IssueRepository
	logger    logger.Interface
}

func NewCreateIssueUseCase(
	issueRepo issue.IssueRepository,
	logger logger.Interface,
) *CreateIssueUseCase {
	return &CreateIssueUseCase{
		issueRepo: issueRepo,
		logger:    logger,
	}
}

func (uc *CreateIssueUseCase) Execute(ctx context.Context, cmd CreateIssueCommand) (*CreateIssueResult, error) {
	uc.logger.Infow("executing create issue use case", "reporter_id", cmd.ReporterID)

	i, err := issue.NewIssue(cmd.Title, cmd.Description, cmd.Location, cmd.Cause, cmd.ReporterID, cmd.Images)
	if err != nil {
		uc.logger.Errorw("failed to create issue", "error", err)
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	if err := uc.issueRepo.Save(ctx, i); err != nil {
		uc.logger.Errorw("failed to save issue", "error", err)
		return nil, fmt.Errorf("failed to save issue: %w", err)
	}

	uc.logger.Infow("issue created successfully", "issue_id", i.ID(), "reporter_id", cmd.ReporterID)
	return &CreateIssueResult{
		IssueID:   i.ID(),
		Status:    i.Status().String(),
		CreatedAt: i.CreatedAt().UnixMilli(),
	}, nil
}
