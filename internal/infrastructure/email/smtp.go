package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string // Base URL for email links (e.g., "http://localhost:8080")
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

// SendIssueResolvedEmail notifies the reporter that their issue was resolved.
func (s *SMTPEmailService) SendIssueResolvedEmail(to, reporterName, issueTitle string, issueID uint) error {
	issueURL := fmt.Sprintf("%s/issues/%d", s.config.BaseURL, issueID)

	subject := fmt.Sprintf("Issue Resolved: %s", issueTitle)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Your reported issue has been resolved</h2>
			<p>Hi %s,</p>
			<p>The issue you reported, <strong>%s</strong>, has been marked as resolved.</p>
			<p><a href="%s">View the issue and discussion</a></p>
			<p>If the problem is not actually fixed, reply in the issue thread and an engineer will re-open it.</p>
		</body>
		</html>
	`, reporterName, issueTitle, issueURL)

	plainBody := fmt.Sprintf(`
Hi %s,

The issue you reported, "%s", has been marked as resolved.

View the issue and discussion:
%s

If the problem is not actually fixed, reply in the issue thread and an engineer will re-open it.
	`, reporterName, issueTitle, issueURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

// SendIssueAssignedEmail notifies engineers that a new issue needs attention.
func (s *SMTPEmailService) SendIssueAssignedEmail(to, issueTitle string, issueID uint) error {
	issueURL := fmt.Sprintf("%s/issues/%d", s.config.BaseURL, issueID)

	subject := fmt.Sprintf("New Issue Reported: %s", issueTitle)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>A new safety issue needs attention</h2>
			<p><strong>%s</strong></p>
			<p><a href="%s">Open the issue</a></p>
		</body>
		</html>
	`, issueTitle, issueURL)

	plainBody := fmt.Sprintf(`
A new safety issue needs attention: "%s"

Open the issue:
%s
	`, issueTitle, issueURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromAddress)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
