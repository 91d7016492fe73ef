// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
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
)

type recordingSyncFixture struct {
	svc        *RecordingSyncService
	client     *apimocks.MockClientAPI
	meetings   *mocks.MockMeetingRepository
	recordings *mocks.MockRecordingRepository
	messages   *mocks.MockMessageBuilder
	now        time.Time
}

func newRecordingSyncFixture() *recordingSyncFixture {
	f := &recordingSyncFixture{
		client:     &apimocks.MockClientAPI{},
		meetings:   &mocks.MockMeetingRepository{},
		recordings: &mocks.MockRecordingRepository{},
		messages:   &mocks.MockMessageBuilder{},
		now:        time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewRecordingSyncService(f.client, f.meetings, f.recordings, f.messages, slog.Default())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *recordingSyncFixture) onRecordingScopes(granted bool) {
	f.client.On("HasScope", mock.Anything,
		api.ScopesRecordings[0], api.ScopesRecordings[1], api.ScopesRecordings[2]).
		Return(granted, nil)
}

func TestRecordingSyncSkipsWithoutScope(t *testing.T) {
	f := newRecordingSyncFixture()
	f.onRecordingScopes(false)

	err := f.svc.Run(context.Background())
	require.NoError(t, err)
	f.meetings.AssertNotCalled(t, "ListAll", mock.Anything)
}

func TestRecordingSyncDiscoversNewFiles(t *testing.T) {
	f := newRecordingSyncFixture()
	f.onRecordingScopes(true)

	// One ended meeting, one future one. Only the ended one is eligible.
	f.meetings.On("ListAll", mock.Anything).Return([]*models.Meeting{
		{
			ID: 7, HostID: "host-1", Topic: "Seminar", ExistsOnRemote: true,
			StartTime: f.now.Add(-2 * time.Hour).Unix(), Duration: 3600,
			RecordingsVisible: true,
		},
		{
			ID: 8, HostID: "host-1", ExistsOnRemote: true,
			StartTime: f.now.Add(2 * time.Hour).Unix(), Duration: 3600,
		},
	}, nil)

	f.client.On("ListUserRecordings", mock.Anything, "host-1", mock.Anything, mock.Anything).
		Return([]api.MeetingRecordings{
			{
				UUID: "occ-7", ID: 7, Topic: "Seminar",
				RecordingFiles: []api.RecordingFile{
					{ID: "file-a", PlayURL: "https://zoom.example/a", RecordingType: "shared_screen_with_speaker_view"},
					{ID: "file-b", PlayURL: "https://zoom.example/b", RecordingType: "audio_only"},
				},
			},
			// Not in the eligible set: skipped entirely.
			{UUID: "occ-9", ID: 9, RecordingFiles: []api.RecordingFile{{ID: "file-x"}}},
		}, nil)

	f.recordings.On("ExistsByZoomRecordingID", mock.Anything, "occ-7", "file-a").Return(false, nil)
	f.recordings.On("ExistsByZoomRecordingID", mock.Anything, "occ-7", "file-b").Return(true, nil)
	f.client.On("GetRecordingSettings", mock.Anything, "occ-7").
		Return(&api.RecordingSettings{Password: "pass-7"}, nil).Once()

	var created *models.Recording
	f.recordings.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { created = args.Get(1).(*models.Recording) }).
		Return(nil)
	f.messages.On("SendRecordingDiscovered", mock.Anything, mock.Anything).Return(nil)

	f.recordings.On("ListAll", mock.Anything).Return([]*models.Recording{}, nil)

	err := f.svc.Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, "file-a", created.ZoomRecordingID)
	assert.Equal(t, "pass-7", created.Passcode)
	assert.True(t, created.Visible)
	f.recordings.AssertNumberOfCalls(t, "Create", 1)
	f.messages.AssertNumberOfCalls(t, "SendRecordingDiscovered", 1)
}

func TestRecordingSyncExpandsRecurringSchedule(t *testing.T) {
	f := newRecordingSyncFixture()
	f.onRecordingScopes(true)

	weekly := func(id int64, host string, day int) *models.Meeting {
		return &models.Meeting{
			ID: id, HostID: host, ExistsOnRemote: true,
			StartTime: f.now.AddDate(0, 0, -14).Unix(),
			Duration:  3600,
			Recurrence: &models.Recurrence{
				Type:           models.RecurrenceWeekly,
				RepeatInterval: 1,
				WeeklyDays:     []int{day},
			},
		}
	}

	// f.now is a Tuesday. The Tuesday schedule has an occurrence inside the
	// discovery window; the Friday schedule does not, so its host is never
	// queried.
	f.meetings.On("ListAll", mock.Anything).Return([]*models.Meeting{
		weekly(7, "host-tue", 3),
		weekly(8, "host-fri", 6),
	}, nil)

	f.client.On("ListUserRecordings", mock.Anything, "host-tue", mock.Anything, mock.Anything).
		Return([]api.MeetingRecordings{}, nil)
	f.recordings.On("ListAll", mock.Anything).Return([]*models.Recording{}, nil)

	err := f.svc.Run(context.Background())
	require.NoError(t, err)

	f.client.AssertCalled(t, "ListUserRecordings", mock.Anything, "host-tue", mock.Anything, mock.Anything)
	f.client.AssertNotCalled(t, "ListUserRecordings", mock.Anything, "host-fri", mock.Anything, mock.Anything)
}

func TestRecordingSyncCachesPasscodePerOccurrence(t *testing.T) {
	f := newRecordingSyncFixture()
	f.onRecordingScopes(true)

	f.meetings.On("ListAll", mock.Anything).Return([]*models.Meeting{
		{
			ID: 7, HostID: "host-1", ExistsOnRemote: true,
			StartTime: f.now.Add(-2 * time.Hour).Unix(), Duration: 3600,
		},
	}, nil)
	f.client.On("ListUserRecordings", mock.Anything, "host-1", mock.Anything, mock.Anything).
		Return([]api.MeetingRecordings{
			{
				UUID: "occ-7", ID: 7,
				RecordingFiles: []api.RecordingFile{{ID: "file-a"}, {ID: "file-b"}},
			},
		}, nil)
	f.recordings.On("ExistsByZoomRecordingID", mock.Anything, "occ-7", mock.Anything).Return(false, nil)
	f.client.On("GetRecordingSettings", mock.Anything, "occ-7").
		Return(&api.RecordingSettings{Password: "pass-7"}, nil)
	f.recordings.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.messages.On("SendRecordingDiscovered", mock.Anything, mock.Anything).Return(nil)
	f.recordings.On("ListAll", mock.Anything).Return([]*models.Recording{}, nil)

	err := f.svc.Run(context.Background())
	require.NoError(t, err)

	f.client.AssertNumberOfCalls(t, "GetRecordingSettings", 1)
}

func TestRecordingSyncToleratesMissingPasscode(t *testing.T) {
	f := newRecordingSyncFixture()
	f.onRecordingScopes(true)

	f.meetings.On("ListAll", mock.Anything).Return([]*models.Meeting{
		{
			ID: 7, HostID: "host-1", ExistsOnRemote: true,
			StartTime: f.now.Add(-2 * time.Hour).Unix(), Duration: 3600,
		},
	}, nil)
	f.client.On("ListUserRecordings", mock.Anything, "host-1", mock.Anything, mock.Anything).
		Return([]api.MeetingRecordings{
			{UUID: "occ-7", ID: 7, RecordingFiles: []api.RecordingFile{{ID: "file-a"}}},
		}, nil)
	f.recordings.On("ExistsByZoomRecordingID", mock.Anything, "occ-7", "file-a").Return(false, nil)
	f.client.On("GetRecordingSettings", mock.Anything, "occ-7").
		Return(nil, domain.NewRemoteNotFoundError("no settings", 3301, "not found"))

	var created *models.Recording
	f.recordings.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { created = args.Get(1).(*models.Recording) }).
		Return(nil)
	f.messages.On("SendRecordingDiscovered", mock.Anything, mock.Anything).Return(nil)
	f.recordings.On("ListAll", mock.Anything).Return([]*models.Recording{}, nil)

	err := f.svc.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Empty(t, created.Passcode)
}

func TestRecordingSyncPrunesRemotelyDeletedFiles(t *testing.T) {
	f := newRecordingSyncFixture()
	f.onRecordingScopes(true)

	f.meetings.On("ListAll", mock.Anything).Return([]*models.Meeting{
		{
			ID: 7, HostID: "host-1", ExistsOnRemote: true,
			StartTime: f.now.Add(-2 * time.Hour).Unix(), Duration: 3600,
		},
	}, nil)
	f.client.On("ListUserRecordings", mock.Anything, "host-1", mock.Anything, mock.Anything).
		Return([]api.MeetingRecordings{}, nil)

	f.recordings.On("ListAll", mock.Anything).Return([]*models.Recording{
		{UID: "rec-1", OccurrenceUUID: "occ-7", ZoomRecordingID: "file-a"},
		{UID: "rec-2", OccurrenceUUID: "occ-7", ZoomRecordingID: "file-gone"},
		{UID: "rec-3", OccurrenceUUID: "occ-missing", ZoomRecordingID: "file-c"},
	}, nil)

	f.client.On("GetMeetingRecordings", mock.Anything, "occ-7").Return(&api.MeetingRecordings{
		UUID:           "occ-7",
		RecordingFiles: []api.RecordingFile{{ID: "file-a"}},
	}, nil)
	// A vanished occurrence is tolerated, its local rows are kept.
	f.client.On("GetMeetingRecordings", mock.Anything, "occ-missing").
		Return(nil, domain.NewRemoteNotFoundError("meeting gone", 3001, "not found"))

	f.recordings.On("Delete", mock.Anything, "rec-2").Return(nil)

	err := f.svc.Run(context.Background())
	require.NoError(t, err)

	f.recordings.AssertCalled(t, "Delete", mock.Anything, "rec-2")
	f.recordings.AssertNotCalled(t, "Delete", mock.Anything, "rec-1")
	f.recordings.AssertNotCalled(t, "Delete", mock.Anything, "rec-3")
}
