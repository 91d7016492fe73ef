// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/mocks"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
	"github.com/openlms/zoom-sync-service/internal/infrastructure/zoom/api"
	apimocks "github.com/openlms/zoom-sync-service/internal/infrastructure/zoom/api/mocks"
	"github.com/openlms/zoom-sync-service/pkg/utils"
)

type reportSyncFixture struct {
	svc          *ReportSyncService
	client       *apimocks.MockClientAPI
	meetings     *mocks.MockMeetingRepository
	occurrences  *mocks.MockOccurrenceRepository
	participants *mocks.MockParticipantRepository
	syncState    *mocks.MockSyncStateRepository
	messages     *mocks.MockMessageBuilder
	now          time.Time
}

func newReportSyncFixture() *reportSyncFixture {
	f := &reportSyncFixture{
		client:       &apimocks.MockClientAPI{},
		meetings:     &mocks.MockMeetingRepository{},
		occurrences:  &mocks.MockOccurrenceRepository{},
		participants: &mocks.MockParticipantRepository{},
		syncState:    &mocks.MockSyncStateRepository{},
		messages:     &mocks.MockMessageBuilder{},
		now:          time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	enrollments := &mocks.MockEnrollmentRepository{}
	grades := &mocks.MockGradeRepository{}
	joinAudit := &mocks.MockJoinAuditRepository{}
	notifier := &mocks.MockAttendanceNotifier{}
	logger := slog.Default()

	matcher := NewMatcher(f.participants, enrollments, logger)
	grading := NewGradingService(enrollments, grades, joinAudit, notifier, f.messages, logger)

	f.svc = NewReportSyncService(
		f.client, f.meetings, f.occurrences, f.participants, f.syncState,
		matcher, grading, f.messages, nil, logger,
	)
	f.svc.now = func() time.Time { return f.now }
	return f
}

// onDashboardScopes arranges the scope probes so the dashboard meeting family
// is used without webinars.
func (f *reportSyncFixture) onDashboardScopes() {
	f.client.On("HasScope", mock.Anything, api.ScopesDashboardMeetings[0], api.ScopesDashboardMeetings[1]).
		Return(true, nil)
	f.client.On("HasScope", mock.Anything, api.ScopesDashboardWebinars[0], api.ScopesDashboardWebinars[1]).
		Return(false, nil)
}

func (f *reportSyncFixture) onReportParticipantScopes(granted bool) {
	f.client.On("HasScope", mock.Anything, api.ScopesReportParticipants[0], api.ScopesReportParticipants[1]).
		Return(granted, nil)
}

func dashboardMeetingAt(id int64, end time.Time) api.DashboardMeeting {
	return api.DashboardMeeting{
		ID:        id,
		UUID:      "uuid-" + strconv.FormatInt(id, 10),
		Topic:     "Meeting",
		Host:      "host-1",
		StartTime: end.Add(-time.Hour),
		EndTime:   end,
		Duration:  "60",
	}
}

func TestRunInterruptionPersistsResumeCursor(t *testing.T) {
	f := newReportSyncFixture()
	f.onDashboardScopes()
	f.syncState.On("GetLastCallMadeAt", mock.Anything).Return(time.Time{}, nil)

	base := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	var remote []api.DashboardMeeting
	for i := int64(1); i <= 5; i++ {
		remote = append(remote, dashboardMeetingAt(i, base.Add(time.Duration(i)*time.Hour)))
	}
	f.client.On("ListEndedMeetingsDashboard", mock.Anything, mock.Anything, mock.Anything, false).
		Return(remote, nil)

	// The first two meetings have no local activity, the third blows up.
	f.meetings.On("Get", mock.Anything, int64(1)).Return(nil, domain.NewNotFoundError("gone"))
	f.meetings.On("Get", mock.Anything, int64(2)).Return(nil, domain.NewNotFoundError("gone"))
	f.meetings.On("Get", mock.Anything, int64(3)).Return(nil, domain.NewInternalError("store down"))

	thirdEnd := base.Add(3 * time.Hour)
	f.syncState.On("SetLastCallMadeAt", mock.Anything, thirdEnd.Add(-time.Second)).Return(nil)

	err := f.svc.Run(context.Background(), RunOptions{})
	require.Error(t, err)

	f.syncState.AssertCalled(t, "SetLastCallMadeAt", mock.Anything, thirdEnd.Add(-time.Second))
	f.meetings.AssertNotCalled(t, "Get", mock.Anything, int64(4))
	f.meetings.AssertNotCalled(t, "Get", mock.Anything, int64(5))
}

func TestRunResumesAfterCursorOnly(t *testing.T) {
	f := newReportSyncFixture()
	f.onDashboardScopes()

	base := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	cursor := base.Add(3*time.Hour - time.Second)
	f.syncState.On("GetLastCallMadeAt", mock.Anything).Return(cursor, nil)

	var remote []api.DashboardMeeting
	for i := int64(1); i <= 5; i++ {
		remote = append(remote, dashboardMeetingAt(i, base.Add(time.Duration(i)*time.Hour)))
	}
	f.client.On("ListEndedMeetingsDashboard", mock.Anything, mock.Anything, mock.Anything, false).
		Return(remote, nil)

	// Only meetings 3..5 end after the cursor; all were deleted locally so
	// they are skipped without being failures.
	for i := int64(3); i <= 5; i++ {
		f.meetings.On("Get", mock.Anything, i).Return(nil, domain.NewNotFoundError("gone"))
	}
	f.syncState.On("SetLastCallMadeAt", mock.Anything, f.now).Return(nil)

	err := f.svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	f.meetings.AssertNotCalled(t, "Get", mock.Anything, int64(1))
	f.meetings.AssertNotCalled(t, "Get", mock.Anything, int64(2))
	f.syncState.AssertCalled(t, "SetLastCallMadeAt", mock.Anything, f.now)
}

func TestRunManualDoesNotAdvanceCursor(t *testing.T) {
	f := newReportSyncFixture()
	f.onDashboardScopes()
	f.syncState.On("GetLastCallMadeAt", mock.Anything).Return(time.Time{}, nil)
	f.client.On("ListEndedMeetingsDashboard", mock.Anything, mock.Anything, mock.Anything, false).
		Return([]api.DashboardMeeting{}, nil)

	err := f.svc.Run(context.Background(), RunOptions{
		From: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	f.syncState.AssertNotCalled(t, "SetLastCallMadeAt", mock.Anything, mock.Anything)
}

func TestRunIdempotentParticipantIngestion(t *testing.T) {
	f := newReportSyncFixture()
	f.onDashboardScopes()
	f.onReportParticipantScopes(true)
	f.syncState.On("GetLastCallMadeAt", mock.Anything).Return(time.Time{}, nil)

	end := time.Date(2026, 3, 9, 11, 0, 0, 0, time.UTC)
	remote := dashboardMeetingAt(7, end)
	f.client.On("ListEndedMeetingsDashboard", mock.Anything, mock.Anything, mock.Anything, false).
		Return([]api.DashboardMeeting{remote}, nil)

	f.meetings.On("Get", mock.Anything, int64(7)).Return(&models.Meeting{
		ID: 7, CourseID: "course-1",
	}, nil)

	// Occurrence already known: update in place.
	f.occurrences.On("GetWithRevision", mock.Anything, remote.UUID).Return(
		&models.Occurrence{UUID: remote.UUID, MeetingID: 7}, uint64(4), nil)
	f.occurrences.On("Update", mock.Anything, mock.Anything, uint64(4)).Return(nil)

	join := end.Add(-time.Hour)
	f.client.On("ListMeetingParticipantsReport", mock.Anything, remote.UUID, false).
		Return([]api.ReportParticipant{
			{Name: "(1)Jane Doe", UserID: 55, JoinTime: join, LeaveTime: end, Duration: 3600},
		}, nil)

	// The identical tuple is already stored, so no insert happens.
	f.participants.On("ListByOccurrence", mock.Anything, remote.UUID).Return([]*models.Participant{
		{
			OccurrenceUUID: remote.UUID, Name: "Jane Doe", LocalUserID: utils.Int64Ptr(1),
			ZoomUserID: 55, JoinTime: join.Unix(), LeaveTime: end.Unix(), Duration: 3600,
		},
	}, nil)
	f.messages.On("SendOccurrenceProcessed", mock.Anything, mock.Anything).Return(nil)
	f.syncState.On("SetLastCallMadeAt", mock.Anything, f.now).Return(nil)

	err := f.svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	f.participants.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRunFallsBackToPerHostReports(t *testing.T) {
	f := newReportSyncFixture()
	f.client.On("HasScope", mock.Anything, api.ScopesDashboardMeetings[0], api.ScopesDashboardMeetings[1]).
		Return(false, nil)
	f.syncState.On("GetLastCallMadeAt", mock.Anything).Return(time.Time{}, nil)

	f.client.On("ListReportUsers", mock.Anything, mock.Anything, mock.Anything).
		Return([]api.ReportUser{{ID: "host-1"}, {ID: "host-deleted"}, {ID: "host-throttled"}}, nil)

	end := time.Date(2026, 3, 9, 11, 0, 0, 0, time.UTC)
	f.client.On("ListUserEndedMeetingsReport", mock.Anything, "host-1", mock.Anything, mock.Anything).
		Return([]api.ReportMeeting{
			{ID: 7, UUID: "uuid-7", UserID: "host-1", StartTime: end.Add(-time.Hour), EndTime: end, Duration: 60},
		}, nil)
	f.client.On("ListUserEndedMeetingsReport", mock.Anything, "host-deleted", mock.Anything, mock.Anything).
		Return(nil, domain.NewRemoteNotFoundError("user gone", 1001, "User does not exist"))
	f.client.On("ListUserEndedMeetingsReport", mock.Anything, "host-throttled", mock.Anything, mock.Anything).
		Return(nil, domain.NewRetryFailedError("retry ceiling hit"))

	f.meetings.On("Get", mock.Anything, int64(7)).Return(nil, domain.NewNotFoundError("gone"))
	f.syncState.On("SetLastCallMadeAt", mock.Anything, f.now).Return(nil)

	err := f.svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	// Only the healthy host's meeting made it through.
	f.meetings.AssertNumberOfCalls(t, "Get", 1)
}

func TestRunExplicitHostListSkipsEnumeration(t *testing.T) {
	f := newReportSyncFixture()
	f.client.On("HasScope", mock.Anything, api.ScopesDashboardMeetings[0], api.ScopesDashboardMeetings[1]).
		Return(false, nil)
	f.syncState.On("GetLastCallMadeAt", mock.Anything).Return(time.Time{}, nil)

	f.client.On("ListUserEndedMeetingsReport", mock.Anything, "host-x", mock.Anything, mock.Anything).
		Return([]api.ReportMeeting{}, nil)

	err := f.svc.Run(context.Background(), RunOptions{Hosts: []string{"host-x"}})
	require.NoError(t, err)

	f.client.AssertNotCalled(t, "ListReportUsers", mock.Anything, mock.Anything, mock.Anything)
	// Explicit hosts make it a manual run.
	f.syncState.AssertNotCalled(t, "SetLastCallMadeAt", mock.Anything, mock.Anything)
}

func TestNormalizeReportDurationUnits(t *testing.T) {
	report := normalizeReport(api.ReportMeeting{ID: 1, Duration: 45})
	assert.Equal(t, int64(2700), report.Duration)
	assert.Equal(t, models.ReportSourceReport, report.Source)

	dashboard, err := normalizeDashboard(api.DashboardMeeting{ID: 1, Duration: "01:21:18"})
	require.NoError(t, err)
	assert.Equal(t, int64(4878), dashboard.Duration)
	assert.Equal(t, models.ReportSourceDashboard, dashboard.Source)
}
