// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/openlms/zoom-sync-service/internal/infrastructure/zoom/api"
)

// MockClientAPI implements api.ClientAPI for testing
type MockClientAPI struct {
	mock.Mock
}

func (m *MockClientAPI) HasScope(ctx context.Context, candidates ...string) (bool, error) {
	callArgs := make([]any, 0, len(candidates)+1)
	callArgs = append(callArgs, ctx)
	for _, c := range candidates {
		callArgs = append(callArgs, c)
	}
	args := m.Called(callArgs...)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientAPI) CreateMeeting(ctx context.Context, hostID string, webinar bool, request *api.MeetingRequest) (*api.MeetingResponse, error) {
	args := m.Called(ctx, hostID, webinar, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.MeetingResponse), args.Error(1)
}

func (m *MockClientAPI) GetMeeting(ctx context.Context, meetingID int64, webinar bool) (*api.MeetingResponse, error) {
	args := m.Called(ctx, meetingID, webinar)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.MeetingResponse), args.Error(1)
}

func (m *MockClientAPI) UpdateMeeting(ctx context.Context, meetingID int64, webinar bool, request *api.MeetingRequest) error {
	args := m.Called(ctx, meetingID, webinar, request)
	return args.Error(0)
}

func (m *MockClientAPI) DeleteMeeting(ctx context.Context, meetingID int64, webinar bool) error {
	args := m.Called(ctx, meetingID, webinar)
	return args.Error(0)
}

func (m *MockClientAPI) GetMeetingInvitation(ctx context.Context, meetingID int64, webinar bool) (string, error) {
	args := m.Called(ctx, meetingID, webinar)
	return args.String(0), args.Error(1)
}

func (m *MockClientAPI) ListRegistrants(ctx context.Context, meetingID int64, webinar bool) ([]api.Registrant, error) {
	args := m.Called(ctx, meetingID, webinar)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.Registrant), args.Error(1)
}

func (m *MockClientAPI) ListUsers(ctx context.Context) ([]api.ZoomUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.ZoomUser), args.Error(1)
}

func (m *MockClientAPI) GetUser(ctx context.Context, userID string) (*api.ZoomUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ZoomUser), args.Error(1)
}

func (m *MockClientAPI) GetUserSecuritySettings(ctx context.Context, userID string) (*api.MeetingSecuritySettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.MeetingSecuritySettings), args.Error(1)
}

func (m *MockClientAPI) ListSchedulers(ctx context.Context, userID string) ([]api.Scheduler, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.Scheduler), args.Error(1)
}

func (m *MockClientAPI) UpdateUserType(ctx context.Context, userID string, userType int) error {
	args := m.Called(ctx, userID, userType)
	return args.Error(0)
}

func (m *MockClientAPI) ListEndedMeetingsDashboard(ctx context.Context, from, to time.Time, webinar bool) ([]api.DashboardMeeting, error) {
	args := m.Called(ctx, from, to, webinar)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.DashboardMeeting), args.Error(1)
}

func (m *MockClientAPI) ListReportUsers(ctx context.Context, from, to time.Time) ([]api.ReportUser, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.ReportUser), args.Error(1)
}

func (m *MockClientAPI) ListUserEndedMeetingsReport(ctx context.Context, userID string, from, to time.Time) ([]api.ReportMeeting, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.ReportMeeting), args.Error(1)
}

func (m *MockClientAPI) ListMeetingParticipantsReport(ctx context.Context, occurrenceUUID string, webinar bool) ([]api.ReportParticipant, error) {
	args := m.Called(ctx, occurrenceUUID, webinar)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.ReportParticipant), args.Error(1)
}

func (m *MockClientAPI) ListMeetingParticipantsMetrics(ctx context.Context, occurrenceUUID string, webinar bool) ([]api.ReportParticipant, error) {
	args := m.Called(ctx, occurrenceUUID, webinar)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.ReportParticipant), args.Error(1)
}

func (m *MockClientAPI) GetMeetingRecordings(ctx context.Context, occurrenceUUID string) (*api.MeetingRecordings, error) {
	args := m.Called(ctx, occurrenceUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.MeetingRecordings), args.Error(1)
}

func (m *MockClientAPI) GetRecordingSettings(ctx context.Context, occurrenceUUID string) (*api.RecordingSettings, error) {
	args := m.Called(ctx, occurrenceUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.RecordingSettings), args.Error(1)
}

func (m *MockClientAPI) ListUserRecordings(ctx context.Context, userID string, from, to time.Time) ([]api.MeetingRecordings, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.MeetingRecordings), args.Error(1)
}

func (m *MockClientAPI) ListTrackingFields(ctx context.Context) ([]api.TrackingFieldResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.TrackingFieldResponse), args.Error(1)
}

// Ensure MockClientAPI implements api.ClientAPI
var _ api.ClientAPI = (*MockClientAPI)(nil)
