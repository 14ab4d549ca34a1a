package issue

import (
	"time"

	vo "sentra/internal/domain/issue/valueobjects"
)

type IssueReportedEvent struct {
	IssueID    uint
	Title      string
	ReporterID uint
	Timestamp  time.Time
}

func NewIssueReportedEvent(issueID uint, title string, reporterID uint, timestamp time.Time) IssueReportedEvent {
	return IssueReportedEvent{
		IssueID:    issueID,
		Title:      title,
		ReporterID: reporterID,
		Timestamp:  timestamp,
	}
}

type IssueStatusChangedEvent struct {
	IssueID   uint
	OldStatus string
	NewStatus string
	ChangedBy uint
	Timestamp time.Time
}

func NewIssueStatusChangedEvent(issueID uint, oldStatus, newStatus string, changedBy uint, timestamp time.Time) IssueStatusChangedEvent {
	return IssueStatusChangedEvent{
		IssueID:   issueID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedBy: changedBy,
		Timestamp: timestamp,
	}
}

type CommentAddedEvent struct {
	IssueID   uint
	CommentID uint
	UserID    uint
	UserType  vo.UserType
	Timestamp time.Time
}

func NewCommentAddedEvent(issueID, commentID, userID uint, userType vo.UserType, timestamp time.Time) CommentAddedEvent {
	return CommentAddedEvent{
		IssueID:   issueID,
		CommentID: commentID,
		UserID:    userID,
		UserType:  userType,
		Timestamp: timestamp,
	}
}
