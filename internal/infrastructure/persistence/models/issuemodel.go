package models

import "gorm.io/datatypes"

type IssueModel struct {
	ID          uint           `gorm:"primaryKey"`
	Title       string         `gorm:"size:200;not null"`
	Description string         `gorm:"type:text;not null"`
	Location    string         `gorm:"size:200"`
	Cause       string         `gorm:"type:text"`
	Status      string         `gorm:"size:20;not null;index"`
	ReporterID  uint           `gorm:"not null;index"`
	Images      datatypes.JSON `gorm:"type:json"`
	Version     int            `gorm:"not null;default:1"`
	CreatedAt   int64          `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt   int64          `gorm:"autoUpdateTime:milli;not null"`
	ResolvedAt  *int64

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (IssueModel) TableName() string {
	return "issues"
}

type CommentModel struct {
	ID                uint   `gorm:"primaryKey"`
	IssueID           uint   `gorm:"not null;index:idx_issue_comments_page,priority:1"`
	AuthorUserID      uint   `gorm:"not null;index"`
	AuthorUserType    string `gorm:"size:20;not null"`
	AuthorDisplayName string `gorm:"size:100;not null"`
	AvatarRef         string `gorm:"size:255"`
	Content           string `gorm:"type:text;not null"`
	CreatedAt         int64  `gorm:"autoCreateTime:milli;not null;index:idx_issue_comments_page,priority:2"`
	UpdatedAt         int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (CommentModel) TableName() string {
	return "issue_comments"
}
