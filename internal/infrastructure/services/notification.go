package services

import (
	"context"

	"sentra/internal/shared/logger"
)

// ResolvedEmailSender sends resolution emails. Satisfied by email.SMTPEmailService.
type ResolvedEmailSender interface {
	SendIssueResolvedEmail(to, reporterName, issueTitle string, issueID uint) error
}

// EmailNotificationService delivers resolution notifications to the safety
// team mailbox. Reporter addresses are not synced from the HR directory yet,
// so everything goes to the configured notify address.
type EmailNotificationService struct {
	sender        ResolvedEmailSender
	notifyAddress string
	enabled       bool
	logger        logger.Interface
}

func NewEmailNotificationService(sender ResolvedEmailSender, notifyAddress string, enabled bool, log logger.Interface) *EmailNotificationService {
	return &EmailNotificationService{
		sender:        sender,
		notifyAddress: notifyAddress,
		enabled:       enabled,
		logger:        log,
	}
}

func (s *EmailNotificationService) NotifyIssueResolved(ctx context.Context, issueID uint, issueTitle string) error {
	if !s.enabled || s.notifyAddress == "" {
		s.logger.Debugw("email notifications disabled, skipping resolution email", "issue_id", issueID)
		return nil
	}

	if err := s.sender.SendIssueResolvedEmail(s.notifyAddress, "Safety Team", issueTitle, issueID); err != nil {
		s.logger.Errorw("failed to send resolution email",
			"issue_id", issueID,
			"to", s.notifyAddress,
			"error", err,
		)
		return err
	}

	s.logger.Infow("resolution email sent", "issue_id", issueID, "to", s.notifyAddress)
	return nil
}
