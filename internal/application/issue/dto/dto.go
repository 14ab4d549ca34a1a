package dto

import (
	"sentra/internal/domain/issue"
)

// Timestamps are epoch milliseconds across the whole API surface. Pushed and
// fetched comments must decode identically so clients can merge them by id
// and created_at.

type IssueDTO struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location,omitempty"`
	Cause       string   `json:"cause,omitempty"`
	Status      string   `json:"status"`
	ReporterID  uint     `json:"reporter_id"`
	Images      []string `json:"images"`
	Version     int      `json:"version"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"updated_at"`
	ResolvedAt  *int64   `json:"resolved_at,omitempty"`
}

type CommentDTO struct {
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

type IssueListItemDTO struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Location   string `json:"location,omitempty"`
	Status     string `json:"status"`
	ReporterID uint   `json:"reporter_id"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
}

func ToIssueDTO(i *issue.Issue) *IssueDTO {
	if i == nil {
		return nil
	}

	d := &IssueDTO{
		ID:          i.ID(),
		Title:       i.Title(),
		Description: i.Description(),
		Location:    i.Location(),
		Cause:       i.Cause(),
		Status:      i.Status().String(),
		ReporterID:  i.ReporterID(),
		Images:      i.Images(),
		Version:     i.Version(),
		CreatedAt:   i.CreatedAt().UnixMilli(),
		UpdatedAt:   i.UpdatedAt().UnixMilli(),
	}

	if i.ResolvedAt() != nil {
		resolved := i.ResolvedAt().UnixMilli()
		d.ResolvedAt = &resolved
	}

	return d
}

func ToCommentDTO(c *issue.Comment, contentHTML string) CommentDTO {
	author := c.Author()
	return CommentDTO{
		ID:          c.ID(),
		IssueID:     c.IssueID(),
		UserID:      author.UserID,
		UserType:    author.UserType.String(),
		DisplayName: author.DisplayName,
		AvatarRef:   author.AvatarRef,
		Content:     c.Content(),
		ContentHTML: contentHTML,
		CreatedAt:   c.CreatedAt().UnixMilli(),
	}
}

func ToIssueListItemDTO(i *issue.Issue) IssueListItemDTO {
	return IssueListItemDTO{
		ID:         i.ID(),
		Title:      i.Title(),
		Location:   i.Location(),
		Status:     i.Status().String(),
		ReporterID: i.ReporterID(),
		CreatedAt:  i.CreatedAt().UnixMilli(),
		UpdatedAt:  i.UpdatedAt().UnixMilli(),
	}
}
