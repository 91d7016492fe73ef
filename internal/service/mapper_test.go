// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/zoom-sync-service/internal/domain/models"
	"github.com/openlms/zoom-sync-service/internal/infrastructure/zoom/api"
	"github.com/openlms/zoom-sync-service/pkg/constants"
	"github.com/openlms/zoom-sync-service/pkg/utils"
)

func TestSecondsToMinutesRoundsUp(t *testing.T) {
	assert.Equal(t, 0, SecondsToMinutes(0))
	assert.Equal(t, 1, SecondsToMinutes(1))
	assert.Equal(t, 1, SecondsToMinutes(60))
	assert.Equal(t, 2, SecondsToMinutes(61))
	assert.Equal(t, 60, SecondsToMinutes(3600))
}

func TestEpochToZoomTime(t *testing.T) {
	// 2026-01-15 14:30:00 UTC
	assert.Equal(t, "2026-01-15T14:30:00Z", EpochToZoomTime(1768487400))

	epoch, err := ZoomTimeToEpoch("2026-01-15T14:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, int64(1768487400), epoch)

	_, err = ZoomTimeToEpoch("not a time")
	assert.Error(t, err)
}

func TestToZoomRequestScheduledMeeting(t *testing.T) {
	meeting := &models.Meeting{
		Topic:            "Weekly seminar",
		StartTime:        1768487400,
		Duration:         3660, // 61 minutes
		Timezone:         "Europe/Berlin",
		Password:         "secret",
		HostVideo:        true,
		WaitingRoom:      true,
		Encryption:       "enhanced_encryption",
		AlternativeHosts: "a@example.edu,b@example.edu",
	}

	request := ToZoomRequest(meeting, nil)
	assert.Equal(t, api.MeetingTypeScheduled, request.Type)
	assert.Equal(t, "2026-01-15T14:30:00Z", request.StartTime)
	assert.Equal(t, 61, request.Duration)
	assert.Nil(t, request.Recurrence)

	require.NotNil(t, request.Settings)
	assert.Equal(t, true, utils.BoolValue(request.Settings.HostVideo))
	assert.Equal(t, true, utils.BoolValue(request.Settings.WaitingRoom))
	assert.Equal(t, false, utils.BoolValue(request.Settings.ParticipantVideo))
	assert.Equal(t, "enhanced_encryption", request.Settings.EncryptionType)
	assert.Equal(t, "a@example.edu,b@example.edu", request.Settings.AlternativeHosts)
}

func TestToZoomRequestWebinarOmitsMeetingOnlyFields(t *testing.T) {
	meeting := &models.Meeting{
		Topic:       "Guest lecture",
		Webinar:     true,
		HostVideo:   true,
		WaitingRoom: true,
		Encryption:  "enhanced_encryption",
	}

	request := ToZoomRequest(meeting, nil)
	assert.Equal(t, api.WebinarTypeScheduled, request.Type)

	// Absent means "account default"; false would be an explicit override.
	require.NotNil(t, request.Settings)
	assert.Nil(t, request.Settings.HostVideo)
	assert.Nil(t, request.Settings.ParticipantVideo)
	assert.Nil(t, request.Settings.JoinBeforeHost)
	assert.Nil(t, request.Settings.WaitingRoom)
	assert.Nil(t, request.Settings.MuteUponEntry)
	assert.Empty(t, request.Settings.EncryptionType)
}

func TestToZoomRequestFixedTimeRecurrence(t *testing.T) {
	meeting := &models.Meeting{
		Topic:     "Standup",
		StartTime: 1768487400,
		Duration:  1800,
		Recurrence: &models.Recurrence{
			Type:           models.RecurrenceWeekly,
			RepeatInterval: 1,
			WeeklyDays:     []int{2, 4},
			EndTimes:       12,
		},
	}

	request := ToZoomRequest(meeting, nil)
	assert.Equal(t, api.MeetingTypeRecurringFixedTime, request.Type)
	require.NotNil(t, request.Recurrence)
	assert.Equal(t, api.RecurrenceTypeWeekly, request.Recurrence.Type)
	assert.Equal(t, "2,4", request.Recurrence.WeeklyDays)
	assert.Equal(t, 12, request.Recurrence.EndTimes)
}

func TestToZoomRequestNoFixedTimeOmitsRecurrenceAndStart(t *testing.T) {
	meeting := &models.Meeting{
		Topic:      "Drop-in room",
		StartTime:  1768487400,
		Recurrence: &models.Recurrence{Type: models.RecurrenceNoFixedTime},
	}

	request := ToZoomRequest(meeting, nil)
	assert.Equal(t, api.MeetingTypeRecurringNoFixedTime, request.Type)
	assert.Nil(t, request.Recurrence)
	assert.Empty(t, request.StartTime)
}

func TestToZoomRequestTrackingFieldIntersection(t *testing.T) {
	meeting := &models.Meeting{
		Topic: "Lecture",
		TrackingFields: map[string]string{
			"Department":   "Mathematics",
			"Unconfigured": "dropped",
		},
	}
	configured := []models.TrackingField{
		{Field: "Department"},
		{Field: "Cost Center"}, // configured but absent on the record
	}

	request := ToZoomRequest(meeting, configured)
	require.Len(t, request.TrackingFields, 1)
	assert.Equal(t, "Department", request.TrackingFields[0].Field)
	assert.Equal(t, "Mathematics", request.TrackingFields[0].Value)
}

func TestToZoomRequestClampsRemoteLimits(t *testing.T) {
	meeting := &models.Meeting{
		Topic:    strings.Repeat("x", constants.MaxTopicLength+50),
		Password: "much-too-long-passcode",
		Duration: int64(constants.MaxMeetingDurationMinutes+120) * 60,
	}

	request := ToZoomRequest(meeting, nil)
	assert.Len(t, request.Topic, constants.MaxTopicLength)
	assert.Len(t, request.Password, constants.MaxPasswordLength)
	assert.Equal(t, constants.MaxMeetingDurationMinutes, request.Duration)
}

func TestUpdateFromZoomDetectsDrift(t *testing.T) {
	meeting := &models.Meeting{
		Topic:          "Old topic",
		StartTime:      1768487400,
		Duration:       3600,
		ExistsOnRemote: true,
	}
	response := &api.MeetingResponse{
		Topic:     "New topic",
		StartTime: "2026-01-15T15:30:00Z",
		Duration:  90,
	}

	changed, err := UpdateFromZoom(meeting, response)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "New topic", meeting.Topic)
	assert.Equal(t, int64(1768491000), meeting.StartTime)
	assert.Equal(t, int64(5400), meeting.Duration)

	// Second apply of the same response is a no-op.
	changed, err = UpdateFromZoom(meeting, response)
	require.NoError(t, err)
	assert.False(t, changed)
}
