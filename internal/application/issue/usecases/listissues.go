package usecases

import (
	"context"
	"fmt"

	"sentra/internal/application/issue/dto"
	"sentra/internal/domain/issue"
	vo "sentra/internal/domain/issue/valueobjects"
	"sentra/internal/shared/logger"
)

type ListIssuesQuery struct {
	Status    *vo.IssueStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
	UserID    uint
	UserType  vo.UserType
}

type ListIssuesResult struct {
	Issues []dto.IssueListItemDTO
	Total  int64
}

type ListIssuesUseCase struct {
	issueRepo issue.IssueRepository
	logger    logger.Interface
}

func NewListIssuesUseCase(
	issueRepo issue.IssueRepository,
	logger logger.Interface,
) *ListIssuesUseCase {
	return &ListIssuesUseCase{
		issueRepo: issueRepo,
		logger:    logger,
	}
}

func (uc *ListIssuesUseCase) Execute(ctx context.Context, query ListIssuesQuery) (*ListIssuesResult, error) {
	filter := issue.IssueFilter{
		Status:    query.Status,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}

	// Employees only see issues they reported themselves.
	if !query.UserType.IsEngineer() {
		reporterID := query.UserID
		filter.ReporterID = &reporterID
	}

	issues, total, err := uc.issueRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list issues", "error", err)
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	items := make([]dto.IssueListItemDTO, len(issues))
	for i, entity := range issues {
		items[i] = dto.ToIssueListItemDTO(entity)
	}

	return &ListIssuesResult{
		Issues: items,
		Total:  total,
	}, nil
}
