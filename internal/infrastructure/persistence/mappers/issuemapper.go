package mappers

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"sentra/internal/domain/issue"
	vo "sentra/internal/domain/issue/valueobjects"
	"sentra/internal/infrastructure/persistence/models"
)

// IssueMapper handles the conversion between Issue domain entities and persistence models.
type IssueMapper interface {
	// ToModel converts an issue domain entity to a persistence model.
	ToModel(i *issue.Issue) *models.IssueModel

	// ToDomain converts an issue persistence model to a domain entity.
	ToDomain(model *models.IssueModel) (*issue.Issue, error)

	// CommentToModel converts a comment domain entity to a persistence model.
	CommentToModel(c *issue.Comment) *models.CommentModel

	// CommentToDomain converts a comment persistence model to a domain entity.
	CommentToDomain(model *models.CommentModel) (*issue.Comment, error)
}

// IssueMapperImpl is the concrete implementation of IssueMapper.
type IssueMapperImpl struct{}

// NewIssueMapper creates a new IssueMapper.
func NewIssueMapper() IssueMapper {
	return &IssueMapperImpl{}
}

// ToModel converts an issue domain entity to a persistence model.
func (m *IssueMapperImpl) ToModel(i *issue.Issue) *models.IssueModel {
	model := &models.IssueModel{
		ID:          i.ID(),
		Title:       i.Title(),
		Description: i.Description(),
		Location:    i.Location(),
		Cause:       i.Cause(),
		Status:      i.Status().String(),
		ReporterID:  i.ReporterID(),
		Version:     i.Version(),
		CreatedAt:   i.CreatedAt().UnixMilli(),
		UpdatedAt:   i.UpdatedAt().UnixMilli(),
	}

	if images := i.Images(); len(images) > 0 {
		imagesJSON, _ := json.Marshal(images)
		model.Images = datatypes.JSON(imagesJSON)
	}

	if i.ResolvedAt() != nil {
		resolved := i.ResolvedAt().UnixMilli()
		model.ResolvedAt = &resolved
	}

	return model
}

// ToDomain converts an issue persistence model to a domain entity.
// Only the issue fields are converted. Comments are loaded separately by the repository.
func (m *IssueMapperImpl) ToDomain(model *models.IssueModel) (*issue.Issue, error) {
	status, ok := vo.ParseStatus(model.Status)
	if !ok {
		return nil, fmt.Errorf("invalid issue status %q (id=%d)", model.Status, model.ID)
	}

	var images []string
	if len(model.Images) > 0 {
		if err := json.Unmarshal(model.Images, &images); err != nil {
			return nil, fmt.Errorf("failed to unmarshal issue images (id=%d): %w", model.ID, err)
		}
	}

	createdAt := issueConvertMillisToTime(model.CreatedAt)
	updatedAt := issueConvertMillisToTime(model.UpdatedAt)

	var resolvedAt *time.Time
	if model.ResolvedAt != nil {
		t := issueConvertMillisToTime(*model.ResolvedAt)
		resolvedAt = &t
	}

	return issue.ReconstructIssue(
		model.ID,
		model.Title,
		model.Description,
		model.Location,
		model.Cause,
		status,
		model.ReporterID,
		images,
		model.Version,
		createdAt,
		updatedAt,
		resolvedAt,
	)
}

// CommentToModel converts a comment domain entity to a persistence model.
func (m *IssueMapperImpl) CommentToModel(c *issue.Comment) *models.CommentModel {
	author := c.Author()
	return &models.CommentModel{
		ID:                c.ID(),
		IssueID:           c.IssueID(),
		AuthorUserID:      author.UserID,
		AuthorUserType:    author.UserType.String(),
		AuthorDisplayName: author.DisplayName,
		AvatarRef:         author.AvatarRef,
		Content:           c.Content(),
		CreatedAt:         c.CreatedAt().UnixMilli(),
	}
}

// CommentToDomain converts a comment persistence model to a domain entity.
func (m *IssueMapperImpl) CommentToDomain(model *models.CommentModel) (*issue.Comment, error) {
	userType, ok := vo.ParseUserType(model.AuthorUserType)
	if !ok {
		return nil, fmt.Errorf("invalid comment author type %q (id=%d)", model.AuthorUserType, model.ID)
	}

	author := issue.Author{
		UserID:      model.AuthorUserID,
		UserType:    userType,
		DisplayName: model.AuthorDisplayName,
		AvatarRef:   model.AvatarRef,
	}

	return issue.ReconstructComment(
		model.ID,
		model.IssueID,
		author,
		model.Content,
		issueConvertMillisToTime(model.CreatedAt),
	)
}

func issueConvertMillisToTime(millis int64) time.Time {
	return time.Unix(0, millis*int64(time.Millisecond)).UTC()
}
