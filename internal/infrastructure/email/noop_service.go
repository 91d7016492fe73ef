// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"log/slog"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/logging"
)

// NoOpService is a no-operation notifier that logs but doesn't send emails
type NoOpService struct{}

// NewNoOpService creates a new no-op email service
func NewNoOpService() *NoOpService {
	return &NoOpService{}
}

// SendAttendanceReport logs the report but doesn't send an email
func (s *NoOpService) SendAttendanceReport(ctx context.Context, recipients []string, report *domain.AttendanceReport) error {
	ctx = logging.AppendCtx(ctx, slog.Int64("meeting_id", report.MeetingID))

	slog.DebugContext(ctx, "email service disabled, skipping attendance report",
		"recipients", len(recipients),
		"not_enrolled", len(report.NotEnrolled),
		"unmatched", len(report.Unmatched),
		"never_joined", len(report.NeverJoined))
	return nil
}

var _ domain.AttendanceNotifier = (*NoOpService)(nil)
