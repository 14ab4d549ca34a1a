package issue

import (
	"fmt"
	"time"

	"sentra/internal/shared/biztime"

	vo "sentra/internal/domain/issue/valueobjects"
)

// Issue is a reported safety hazard tracked through the triage workflow.
// Text fields and images are mutated by the detail-edit endpoints; status is
// mutated only through ChangeStatus so workflow rules stay in one place.
type Issue struct {
	id          uint
	title       string
	description string
	location    string
	cause       string
	status      vo.IssueStatus
	reporterID  uint
	images      []string
	version     int
	createdAt   time.Time
	updatedAt   time.Time
	resolvedAt  *time.Time
	comments    []*Comment
	events      []interface{}
}

func NewIssue(title, description, location, cause string, reporterID uint, images []string) (*Issue, error) {
	if len(title) == 0 {
		return nil, fmt.Errorf("title is required")
	}
	if len(title) > 200 {
		return nil, fmt.Errorf("title exceeds maximum length of 200 characters")
	}
	if len(description) == 0 {
		return nil, fmt.Errorf("description is required")
	}
	if len(description) > 5000 {
		return nil, fmt.Errorf("description exceeds maximum length of 5000 characters")
	}
	if reporterID == 0 {
		return nil, fmt.Errorf("reporter ID is required")
	}
	if images == nil {
		images = []string{}
	}

	now := biztime.NowUTC()
	i := &Issue{
		title:       title,
		description: description,
		location:    location,
		cause:       cause,
		status:      vo.StatusPending,
		reporterID:  reporterID,
		images:      images,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
		comments:    []*Comment{},
		events:      []interface{}{},
	}
	i.recordEvent(NewIssueReportedEvent(i.id, title, reporterID, now))
	return i, nil
}

func ReconstructIssue(
	id uint,
	title, description, location, cause string,
	status vo.IssueStatus,
	reporterID uint,
	images []string,
	version int,
	createdAt, updatedAt time.Time,
	resolvedAt *time.Time,
) (*Issue, error) {
	if id == 0 {
		return nil, fmt.Errorf("issue ID cannot be zero")
	}
	if len(title) == 0 {
		return nil, fmt.Errorf("title is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status")
	}
	if images == nil {
		images = []string{}
	}

	return &Issue{
		id:          id,
		title:       title,
		description: description,
		location:    location,
		cause:       cause,
		status:      status,
		reporterID:  reporterID,
		images:      images,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		resolvedAt:  resolvedAt,
		comments:    []*Comment{},
	}, nil
}

func (i *Issue) ID() uint {
	return i.id
}

func (i *Issue) Title() string {
	return i.title
}

func (i *Issue) Description() string {
	return i.description
}

func (i *Issue) Location() string {
	return i.location
}

func (i *Issue) Cause() string {
	return i.cause
}

func (i *Issue) Status() vo.IssueStatus {
	return i.status
}

func (i *Issue) ReporterID() uint {
	return i.reporterID
}

func (i *Issue) Images() []string {
	imagesCopy := make([]string, len(i.images))
	copy(imagesCopy, i.images)
	return imagesCopy
}

func (i *Issue) Version() int {
	return i.version
}

func (i *Issue) CreatedAt() time.Time {
	return i.createdAt
}

func (i *Issue) UpdatedAt() time.Time {
	return i.updatedAt
}

func (i *Issue) ResolvedAt() *time.Time {
	return i.resolvedAt
}

func (i *Issue) Comments() []*Comment {
	commentsCopy := make([]*Comment, len(i.comments))
	copy(commentsCopy, i.comments)
	return commentsCopy
}

func (i *Issue) SetID(id uint) error {
	if i.id != 0 {
		return fmt.Errorf("issue ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("issue ID cannot be zero")
	}
	i.id = id
	return nil
}

// ChangeStatus applies a workflow transition. Same-state writes are a no-op
// rather than an error so retried requests stay idempotent.
func (i *Issue) ChangeStatus(newStatus vo.IssueStatus, changedBy uint) error {
	if !newStatus.IsValid() {
		return fmt.Errorf("invalid status: %s", newStatus)
	}

	if i.status == newStatus {
		return nil
	}

	if !i.status.CanTransitionTo(newStatus) {
		return fmt.Errorf("cannot transition from %s to %s", i.status, newStatus)
	}

	oldStatus := i.status
	i.status = newStatus
	i.updatedAt = biztime.NowUTC()
	i.version++

	if newStatus.IsResolved() && i.resolvedAt == nil {
		now := biztime.NowUTC()
		i.resolvedAt = &now
	}
	if !newStatus.IsResolved() {
		i.resolvedAt = nil
	}

	i.recordEvent(NewIssueStatusChangedEvent(i.id, oldStatus.String(), newStatus.String(), changedBy, i.updatedAt))
	return nil
}

// AttachComment appends a loaded or freshly saved comment to the aggregate.
func (i *Issue) AttachComment(comment *Comment) error {
	if comment == nil {
		return fmt.Errorf("comment cannot be nil")
	}
	if comment.IssueID() != i.id {
		return fmt.Errorf("comment issue ID mismatch")
	}

	i.comments = append(i.comments, comment)
	i.updatedAt = biztime.NowUTC()
	author := comment.Author()
	i.recordEvent(NewCommentAddedEvent(i.id, comment.ID(), author.UserID, author.UserType, comment.CreatedAt()))
	return nil
}

func (i *Issue) recordEvent(event interface{}) {
	if i.events == nil {
		i.events = []interface{}{}
	}
	i.events = append(i.events, event)
}

// GetEvents returns and clears the recorded domain events.
func (i *Issue) GetEvents() []interface{} {
	events := i.events
	i.events = []interface{}{}
	return events
}

// ClearEvents drops any recorded events without returning them.
func (i *Issue) ClearEvents() {
	i.events = []interface{}{}
}

// CanBeViewedBy reports whether a user may open this issue's thread.
// Engineers see every issue; employees see only their own reports.
func (i *Issue) CanBeViewedBy(userID uint, userType vo.UserType) bool {
	if userType.IsEngineer() {
		return true
	}
	return i.reporterID == userID
}

func (i *Issue) Validate() error {
	if len(i.title) == 0 {
		return fmt.Errorf("title is required")
	}
	if len(i.description) == 0 {
		return fmt.Errorf("description is required")
	}
	if !i.status.IsValid() {
		return fmt.Errorf("invalid status")
	}
	if i.reporterID == 0 {
		return fmt.Errorf("reporter ID is required")
	}
	return nil
}
