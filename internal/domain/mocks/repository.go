// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
)

// MockMeetingRepository implements domain.MeetingRepository for testing
type MockMeetingRepository struct {
	mock.Mock
}

func (m *MockMeetingRepository) Get(ctx context.Context, meetingID int64) (*models.Meeting, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) GetWithRevision(ctx context.Context, meetingID int64) (*models.Meeting, uint64, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*models.Meeting), args.Get(1).(uint64), args.Error(2)
}

func (m *MockMeetingRepository) Exists(ctx context.Context, meetingID int64) (bool, error) {
	args := m.Called(ctx, meetingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockMeetingRepository) Update(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	args := m.Called(ctx, meeting, revision)
	return args.Error(0)
}

func (m *MockMeetingRepository) Delete(ctx context.Context, meetingID int64, revision uint64) error {
	args := m.Called(ctx, meetingID, revision)
	return args.Error(0)
}

func (m *MockMeetingRepository) ListAll(ctx context.Context) ([]*models.Meeting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Meeting), args.Error(1)
}

// MockOccurrenceRepository implements domain.OccurrenceRepository for testing
type MockOccurrenceRepository struct {
	mock.Mock
}

func (m *MockOccurrenceRepository) Get(ctx context.Context, uuid string) (*models.Occurrence, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Occurrence), args.Error(1)
}

func (m *MockOccurrenceRepository) GetWithRevision(ctx context.Context, uuid string) (*models.Occurrence, uint64, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*models.Occurrence), args.Get(1).(uint64), args.Error(2)
}

func (m *MockOccurrenceRepository) Create(ctx context.Context, occurrence *models.Occurrence) error {
	args := m.Called(ctx, occurrence)
	return args.Error(0)
}

func (m *MockOccurrenceRepository) Update(ctx context.Context, occurrence *models.Occurrence, revision uint64) error {
	args := m.Called(ctx, occurrence, revision)
	return args.Error(0)
}

func (m *MockOccurrenceRepository) ListByMeeting(ctx context.Context, meetingID int64) ([]*models.Occurrence, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Occurrence), args.Error(1)
}

// MockParticipantRepository implements domain.ParticipantRepository for testing
type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	args := m.Called(ctx, participant)
	return args.Error(0)
}

func (m *MockParticipantRepository) ListByOccurrence(ctx context.Context, occurrenceUUID string) ([]*models.Participant, error) {
	args := m.Called(ctx, occurrenceUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) FindResolvedByZoomUUID(ctx context.Context, zoomUserUUID string) (*models.Participant, error) {
	args := m.Called(ctx, zoomUserUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

// MockRecordingRepository implements domain.RecordingRepository for testing
type MockRecordingRepository struct {
	mock.Mock
}

func (m *MockRecordingRepository) Create(ctx context.Context, recording *models.Recording) error {
	args := m.Called(ctx, recording)
	return args.Error(0)
}

func (m *MockRecordingRepository) Delete(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *MockRecordingRepository) ListAll(ctx context.Context) ([]*models.Recording, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Recording), args.Error(1)
}

func (m *MockRecordingRepository) ListByOccurrence(ctx context.Context, occurrenceUUID string) ([]*models.Recording, error) {
	args := m.Called(ctx, occurrenceUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Recording), args.Error(1)
}

func (m *MockRecordingRepository) ExistsByZoomRecordingID(ctx context.Context, occurrenceUUID, zoomRecordingID string) (bool, error) {
	args := m.Called(ctx, occurrenceUUID, zoomRecordingID)
	return args.Bool(0), args.Error(1)
}

// MockEnrollmentRepository implements domain.EnrollmentRepository for testing
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) ListEnrolled(ctx context.Context, courseID string) ([]*models.LocalUser, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LocalUser), args.Error(1)
}

func (m *MockEnrollmentRepository) FindGlobalByEmail(ctx context.Context, email string) (*models.LocalUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LocalUser), args.Error(1)
}

// MockGradeRepository implements domain.GradeRepository for testing
type MockGradeRepository struct {
	mock.Mock
}

func (m *MockGradeRepository) Get(ctx context.Context, meetingID, userID int64) (*models.ActivityGrade, error) {
	args := m.Called(ctx, meetingID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ActivityGrade), args.Error(1)
}

func (m *MockGradeRepository) Put(ctx context.Context, grade *models.ActivityGrade) error {
	args := m.Called(ctx, grade)
	return args.Error(0)
}

// MockJoinAuditRepository implements domain.JoinAuditRepository for testing
type MockJoinAuditRepository struct {
	mock.Mock
}

func (m *MockJoinAuditRepository) ListJoinClicks(ctx context.Context, meetingID int64) ([]*models.JoinEvent, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.JoinEvent), args.Error(1)
}

// MockSyncStateRepository implements domain.SyncStateRepository for testing
type MockSyncStateRepository struct {
	mock.Mock
}

func (m *MockSyncStateRepository) GetLastCallMadeAt(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockSyncStateRepository) SetLastCallMadeAt(ctx context.Context, t time.Time) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockSyncStateRepository) GetAPILimitResumeAt(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockSyncStateRepository) SetAPILimitResumeAt(ctx context.Context, t time.Time) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockSyncStateRepository) GetTrackingFields(ctx context.Context) ([]models.TrackingField, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TrackingField), args.Error(1)
}

func (m *MockSyncStateRepository) SetTrackingFields(ctx context.Context, fields []models.TrackingField) error {
	args := m.Called(ctx, fields)
	return args.Error(0)
}

// Interface assertions
var (
	_ domain.MeetingRepository     = (*MockMeetingRepository)(nil)
	_ domain.OccurrenceRepository  = (*MockOccurrenceRepository)(nil)
	_ domain.ParticipantRepository = (*MockParticipantRepository)(nil)
	_ domain.RecordingRepository   = (*MockRecordingRepository)(nil)
	_ domain.EnrollmentRepository  = (*MockEnrollmentRepository)(nil)
	_ domain.GradeRepository       = (*MockGradeRepository)(nil)
	_ domain.JoinAuditRepository   = (*MockJoinAuditRepository)(nil)
	_ domain.SyncStateRepository   = (*MockSyncStateRepository)(nil)
)
