// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/logging"
)

// SMTPService delivers attendance reports over SMTP.
type SMTPService struct {
	config    SMTPConfig
	templates Templates
}

// SMTPConfig holds the SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string // Optional for authenticated SMTP
	Password string // Optional for authenticated SMTP
}

// NewSMTPService creates a new SMTP email service
func NewSMTPService(config SMTPConfig) (*SMTPService, error) {
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	return &SMTPService{
		config:    config,
		templates: templates,
	}, nil
}

// SendAttendanceReport sends the post-grading report to each course staff
// recipient.
func (s *SMTPService) SendAttendanceReport(ctx context.Context, recipients []string, report *domain.AttendanceReport) error {
	ctx = logging.AppendCtx(ctx, slog.Int64("meeting_id", report.MeetingID))
	ctx = logging.AppendCtx(ctx, slog.String("meeting_topic", report.Topic))

	htmlContent, err := renderTemplate(s.templates.AttendanceReport.HTML, report)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render HTML template", logging.ErrKey, err)
		return fmt.Errorf("failed to render HTML template: %w", err)
	}

	textContent, err := renderTemplate(s.templates.AttendanceReport.Text, report)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render text template", logging.ErrKey, err)
		return fmt.Errorf("failed to render text template: %w", err)
	}

	subject := fmt.Sprintf("Attendance report: %s", report.Topic)
	for _, recipient := range recipients {
		message := buildEmailMessage(recipient, subject, htmlContent, textContent, s.config)
		if err := sendEmailMessage(recipient, message, s.config); err != nil {
			slog.ErrorContext(ctx, "failed to send attendance report email",
				logging.ErrKey, err, "recipient_email", recipient)
			return err
		}
	}

	slog.InfoContext(ctx, "attendance report emails sent successfully",
		"recipients", len(recipients))
	return nil
}

var _ domain.AttendanceNotifier = (*SMTPService)(nil)
