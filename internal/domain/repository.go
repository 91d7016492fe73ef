// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"

	"github.com/openlms/zoom-sync-service/internal/domain/models"
)

// MeetingRepository persists the local meeting activity records.
type MeetingRepository interface {
	Get(ctx context.Context, meetingID int64) (*models.Meeting, error)
	GetWithRevision(ctx context.Context, meetingID int64) (*models.Meeting, uint64, error)
	Exists(ctx context.Context, meetingID int64) (bool, error)
	Create(ctx context.Context, meeting *models.Meeting) error
	Update(ctx context.Context, meeting *models.Meeting, revision uint64) error
	Delete(ctx context.Context, meetingID int64, revision uint64) error
	ListAll(ctx context.Context) ([]*models.Meeting, error)
}

// OccurrenceRepository persists per-occurrence report rows keyed by the Zoom
// occurrence UUID. Occurrences are only ever written by the report
// reconciliation job.
type OccurrenceRepository interface {
	Get(ctx context.Context, uuid string) (*models.Occurrence, error)
	GetWithRevision(ctx context.Context, uuid string) (*models.Occurrence, uint64, error)
	Create(ctx context.Context, occurrence *models.Occurrence) error
	Update(ctx context.Context, occurrence *models.Occurrence, revision uint64) error
	ListByMeeting(ctx context.Context, meetingID int64) ([]*models.Occurrence, error)
}

// ParticipantRepository persists attendee rows. Rows are insert-only; the
// dedup key makes repeated report ingestion idempotent.
type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	ListByOccurrence(ctx context.Context, occurrenceUUID string) ([]*models.Participant, error)
	// FindResolvedByZoomUUID returns a previously matched participant row
	// carrying the same Zoom participant UUID, across all occurrences.
	FindResolvedByZoomUUID(ctx context.Context, zoomUserUUID string) (*models.Participant, error)
}

// RecordingRepository persists the local cloud-recording inventory.
type RecordingRepository interface {
	Create(ctx context.Context, recording *models.Recording) error
	Delete(ctx context.Context, uid string) error
	ListAll(ctx context.Context) ([]*models.Recording, error)
	ListByOccurrence(ctx context.Context, occurrenceUUID string) ([]*models.Recording, error)
	ExistsByZoomRecordingID(ctx context.Context, occurrenceUUID, zoomRecordingID string) (bool, error)
}

// EnrollmentRepository exposes the host LMS user directory: course rosters
// plus a global email lookup for institutional accounts outside the course.
type EnrollmentRepository interface {
	ListEnrolled(ctx context.Context, courseID string) ([]*models.LocalUser, error)
	FindGlobalByEmail(ctx context.Context, email string) (*models.LocalUser, error)
}

// GradeRepository stores attendance grades. Writes go through the grading
// service, which enforces that automated grading never lowers a grade.
type GradeRepository interface {
	Get(ctx context.Context, meetingID, userID int64) (*models.ActivityGrade, error)
	Put(ctx context.Context, grade *models.ActivityGrade) error
}

// JoinAuditRepository reads the host LMS audit trail of join-link clicks.
type JoinAuditRepository interface {
	ListJoinClicks(ctx context.Context, meetingID int64) ([]*models.JoinEvent, error)
}

// SyncStateRepository holds the shared per-deployment sync state: the report
// cursor, the daily API-limit resume timestamp and the tracking-field
// configuration. Single shared slot each; external job mutual exclusion is
// assumed.
type SyncStateRepository interface {
	GetLastCallMadeAt(ctx context.Context) (time.Time, error)
	SetLastCallMadeAt(ctx context.Context, t time.Time) error
	GetAPILimitResumeAt(ctx context.Context) (time.Time, error)
	SetAPILimitResumeAt(ctx context.Context, t time.Time) error
	GetTrackingFields(ctx context.Context) ([]models.TrackingField, error)
	SetTrackingFields(ctx context.Context, fields []models.TrackingField) error
}
