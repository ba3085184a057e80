package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// DigestItem is one reminder line in the daily digest
type DigestItem struct {
	CustomerName string
	Message      string
	Type         string
	Priority     string
	DueDate      string
}

// Digest is the daily reminder summary sent to staff
type Digest struct {
	Date  string
	Items []DigestItem
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// SendReminderDigest mails the digest to every recipient
func (s *EmailService) SendReminderDigest(ctx context.Context, to []string, digest Digest) error {
	if len(to) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	htmlContent, err := renderDigest(digest)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("CRM reminders for %s (%d)", digest.Date, len(digest.Items))
	message := s.buildHTMLEmail(to, subject, htmlContent)
	return s.sendEmail(to, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to []string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := s.send(addr, auth, s.config.FromEmail, to, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to []string, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		strings.Join(to, ", "),
		subject,
	)

	return []byte(headers + htmlBody)
}

var digestTemplate = template.Must(template.New("reminder_digest").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>CRM reminders</title>
</head>
<body style="margin: 0; padding: 24px; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <h2 style="color: #1a1a2e; margin: 0 0 16px 0;">Reminders for {{.Date}}</h2>
    {{if .Items}}
    <table role="presentation" style="width: 100%; border-collapse: collapse; background-color: #ffffff;">
        <tr style="text-align: left; color: #4a5568;">
            <th style="padding: 8px;">Priority</th>
            <th style="padding: 8px;">Customer</th>
            <th style="padding: 8px;">Reminder</th>
            <th style="padding: 8px;">Due</th>
        </tr>
        {{range .Items}}
        <tr style="border-top: 1px solid #e2e8f0;">
            <td style="padding: 8px;">{{.Priority}}</td>
            <td style="padding: 8px;">{{.CustomerName}}</td>
            <td style="padding: 8px;">{{.Message}}</td>
            <td style="padding: 8px;">{{.DueDate}}</td>
        </tr>
        {{end}}
    </table>
    {{else}}
    <p style="color: #4a5568;">Nothing needs attention today.</p>
    {{end}}
</body>
</html>
`))

func renderDigest(digest Digest) (string, error) {
	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, digest); err != nil {
		return "", err
	}
	return buf.String(), nil
}
