package issue

import (
	"fmt"
	"time"

	"sentra/internal/shared/biztime"

	vo "sentra/internal/domain/issue/valueobjects"
)

// Author identifies who wrote a comment, denormalized so a thread renders
// without extra user lookups.
type Author struct {
	UserID      uint
	UserType    vo.UserType
	DisplayName string
	AvatarRef   string
}

func (a Author) Validate() error {
	if a.UserID == 0 {
		return fmt.Errorf("author user ID is required")
	}
	if !a.UserType.IsValid() {
		return fmt.Errorf("invalid author user type")
	}
	return nil
}

// Comment is a single timestamped message in an issue's discussion thread.
// Comments are immutable once persisted; the server-assigned id and created_at
// are authoritative for thread ordering on every client.
type Comment struct {
	id        uint
	issueID   uint
	author    Author
	content   string
	createdAt time.Time
}

func NewComment(issueID uint, author Author, content string) (*Comment, error) {
	if issueID == 0 {
		return nil, fmt.Errorf("issue ID is required")
	}
	if err := author.Validate(); err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("content cannot be empty")
	}
	if len(content) > 5000 {
		return nil, fmt.Errorf("content exceeds maximum length of 5000 characters")
	}

	return &Comment{
		issueID:   issueID,
		author:    author,
		content:   content,
		createdAt: biztime.NowUTC(),
	}, nil
}

func ReconstructComment(
	id uint,
	issueID uint,
	author Author,
	content string,
	createdAt time.Time,
) (*Comment, error) {
	if id == 0 {
		return nil, fmt.Errorf("comment ID cannot be zero")
	}
	if issueID == 0 {
		return nil, fmt.Errorf("issue ID is required")
	}
	if err := author.Validate(); err != nil {
		return nil, err
	}

	return &Comment{
		id:        id,
		issueID:   issueID,
		author:    author,
		content:   content,
		createdAt: createdAt,
	}, nil
}

func (c *Comment) ID() uint {
	return c.id
}

func (c *Comment) IssueID() uint {
	return c.issueID
}

func (c *Comment) Author() Author {
	return c.author
}

func (c *Comment) Content() string {
	return c.content
}

func (c *Comment) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Comment) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("comment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("comment ID cannot be zero")
	}
	c.id = id
	return nil
}
