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

type GetIssueQuery struct {
	IssueID  uint
	UserID   uint
	UserType vo.UserType
}

type GetIssueUseCase struct {
	issueRepo issue.IssueRepository
	logger    logger.Interface
}

func NewGetIssueUseCase(
	issueRepo issue.IssueRepository,
	logger logger.Interface,
) *GetIssueUseCase {
	return &GetIssueUseCase{
		issueRepo: issueRepo,
		logger:    logger,
	}
}

func (uc *GetIssueUseCase) Execute(ctx context.Context, query GetIssueQuery) (*dto.IssueDTO, error) {
	i, err := uc.issueRepo.GetByID(ctx, query.IssueID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to load issue", "issue_id", query.IssueID, "error", err)
		return nil, fmt.Errorf("failed to load issue: %w", err)
	}

	if !i.CanBeViewedBy(query.UserID, query.UserType) {
		uc.logger.Warnw("user cannot view issue", "issue_id", query.IssueID, "user_id", query.UserID)
		return nil, errors.NewForbiddenError("cannot view this issue")
	}

	return dto.ToIssueDTO(i), nil
}
