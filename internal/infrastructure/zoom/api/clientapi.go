// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"time"
)

// ClientAPI defines the interface for Zoom API operations.
// This allows for easy mocking and testing of the Zoom client.
type ClientAPI interface {
	HasScope(ctx context.Context, candidates ...string) (bool, error)

	CreateMeeting(ctx context.Context, hostID string, webinar bool, request *MeetingRequest) (*MeetingResponse, error)
	GetMeeting(ctx context.Context, meetingID int64, webinar bool) (*MeetingResponse, error)
	UpdateMeeting(ctx context.Context, meetingID int64, webinar bool, request *MeetingRequest) error
	DeleteMeeting(ctx context.Context, meetingID int64, webinar bool) error
	GetMeetingInvitation(ctx context.Context, meetingID int64, webinar bool) (string, error)
	ListRegistrants(ctx context.Context, meetingID int64, webinar bool) ([]Registrant, error)

	ListUsers(ctx context.Context) ([]ZoomUser, error)
	GetUser(ctx context.Context, userID string) (*ZoomUser, error)
	GetUserSecuritySettings(ctx context.Context, userID string) (*MeetingSecuritySettings, error)
	ListSchedulers(ctx context.Context, userID string) ([]Scheduler, error)
	UpdateUserType(ctx context.Context, userID string, userType int) error

	ListEndedMeetingsDashboard(ctx context.Context, from, to time.Time, webinar bool) ([]DashboardMeeting, error)
	ListReportUsers(ctx context.Context, from, to time.Time) ([]ReportUser, error)
	ListUserEndedMeetingsReport(ctx context.Context, userID string, from, to time.Time) ([]ReportMeeting, error)
	ListMeetingParticipantsReport(ctx context.Context, occurrenceUUID string, webinar bool) ([]ReportParticipant, error)
	ListMeetingParticipantsMetrics(ctx context.Context, occurrenceUUID string, webinar bool) ([]ReportParticipant, error)

	GetMeetingRecordings(ctx context.Context, occurrenceUUID string) (*MeetingRecordings, error)
	GetRecordingSettings(ctx context.Context, occurrenceUUID string) (*RecordingSettings, error)
	ListUserRecordings(ctx context.Context, userID string, from, to time.Time) ([]MeetingRecordings, error)

	ListTrackingFields(ctx context.Context) ([]TrackingFieldResponse, error)
}

// Ensure that Client implements ClientAPI
var _ ClientAPI = (*Client)(nil)
