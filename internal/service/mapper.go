// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/openlms/zoom-sync-service/internal/domain/models"
	"github.com/openlms/zoom-sync-service/internal/infrastructure/zoom/api"
	"github.com/openlms/zoom-sync-service/pkg/constants"
	"github.com/openlms/zoom-sync-service/pkg/utils"
)

// zoomTimeLayout is the start_time format of the Zoom API: ISO-8601 with a
// trailing Z, always UTC.
const zoomTimeLayout = "2006-01-02T15:04:05Z"

// SecondsToMinutes converts a local duration to API minutes, rounding up so
// a 61-second activity books a 2-minute meeting rather than losing time.
func SecondsToMinutes(seconds int64) int {
	if seconds <= 0 {
		return 0
	}
	return int((seconds + 59) / 60)
}

// MinutesToSeconds converts an API duration to local seconds.
func MinutesToSeconds(minutes int) int64 {
	return int64(minutes) * 60
}

// EpochToZoomTime formats epoch seconds as the API's UTC timestamp string.
func EpochToZoomTime(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format(zoomTimeLayout)
}

// ZoomTimeToEpoch parses an API timestamp string into epoch seconds.
func ZoomTimeToEpoch(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return 0, fmt.Errorf("invalid zoom timestamp %q: %w", value, err)
	}
	return t.Unix(), nil
}

// meetingTypeCode selects the top-level type code the API expects. A "no
// fixed time" recurrence is expressed through the type code alone; only
// fixed-time recurrences carry a nested recurrence object.
func meetingTypeCode(meeting *models.Meeting) int {
	if meeting.Webinar {
		switch {
		case meeting.HasFixedTime():
			return api.WebinarTypeRecurringFixedTime
		case meeting.IsRecurring():
			return api.WebinarTypeRecurringNoFixedTime
		default:
			return api.WebinarTypeScheduled
		}
	}
	switch {
	case meeting.HasFixedTime():
		return api.MeetingTypeRecurringFixedTime
	case meeting.IsRecurring():
		return api.MeetingTypeRecurringNoFixedTime
	default:
		return api.MeetingTypeScheduled
	}
}

// toRecurrenceSettings builds the nested recurrence object for a fixed-time
// recurring meeting.
func toRecurrenceSettings(recurrence *models.Recurrence) *api.RecurrenceSettings {
	settings := &api.RecurrenceSettings{
		RepeatInterval: recurrence.RepeatInterval,
	}

	switch recurrence.Type {
	case models.RecurrenceDaily:
		settings.Type = api.RecurrenceTypeDaily
	case models.RecurrenceWeekly:
		settings.Type = api.RecurrenceTypeWeekly
		days := make([]string, 0, len(recurrence.WeeklyDays))
		for _, day := range recurrence.WeeklyDays {
			days = append(days, strconv.Itoa(day))
		}
		settings.WeeklyDays = strings.Join(days, ",")
	case models.RecurrenceMonthly:
		settings.Type = api.RecurrenceTypeMonthly
		settings.MonthlyDay = recurrence.MonthlyDay
	}

	if recurrence.EndTimes > 0 {
		settings.EndTimes = recurrence.EndTimes
	} else if recurrence.EndDateTime > 0 {
		settings.EndDateTime = EpochToZoomTime(recurrence.EndDateTime)
	}

	return settings
}

// toSettings builds the nested settings object. For webinars the fields Zoom
// does not understand are left nil so they are omitted from the payload;
// sending false would override the account default.
func toSettings(meeting *models.Meeting) *api.MeetingSettings {
	settings := &api.MeetingSettings{
		AlternativeHosts: meeting.AlternativeHosts,
	}
	settings.MeetingAuthentication = utils.BoolPtr(meeting.AuthenticatedUsers)

	if meeting.Webinar {
		return settings
	}

	settings.HostVideo = utils.BoolPtr(meeting.HostVideo)
	settings.ParticipantVideo = utils.BoolPtr(meeting.ParticipantVideo)
	settings.JoinBeforeHost = utils.BoolPtr(meeting.JoinBeforeHost)
	settings.WaitingRoom = utils.BoolPtr(meeting.WaitingRoom)
	settings.MuteUponEntry = utils.BoolPtr(meeting.MuteOnEntry)
	settings.EncryptionType = meeting.Encryption
	return settings
}

// toTrackingFields intersects the school-wide configured tracking fields
// with the values present on the record. Unconfigured keys never leave the
// system.
func toTrackingFields(meeting *models.Meeting, configured []models.TrackingField) []api.TrackingFieldRequest {
	if len(configured) == 0 || len(meeting.TrackingFields) == 0 {
		return nil
	}

	var fields []api.TrackingFieldRequest
	for _, cfg := range configured {
		if value, ok := meeting.TrackingFields[cfg.Field]; ok {
			fields = append(fields, api.TrackingFieldRequest{Field: cfg.Field, Value: value})
		}
	}
	return fields
}

// ToZoomRequest maps a local activity record into the outbound payload,
// clamping fields to the limits the remote API enforces.
func ToZoomRequest(meeting *models.Meeting, configured []models.TrackingField) *api.MeetingRequest {
	topic := meeting.Topic
	if len(topic) > constants.MaxTopicLength {
		topic = topic[:constants.MaxTopicLength]
	}
	password := meeting.Password
	if len(password) > constants.MaxPasswordLength {
		password = password[:constants.MaxPasswordLength]
	}
	duration := SecondsToMinutes(meeting.Duration)
	if duration > constants.MaxMeetingDurationMinutes {
		duration = constants.MaxMeetingDurationMinutes
	}

	request := &api.MeetingRequest{
		Topic:          topic,
		Type:           meetingTypeCode(meeting),
		Duration:       duration,
		Timezone:       meeting.Timezone,
		Password:       password,
		Settings:       toSettings(meeting),
		TrackingFields: toTrackingFields(meeting, configured),
	}

	// A "no fixed time" meeting has no schedule of its own.
	if !meeting.IsRecurring() || meeting.HasFixedTime() {
		request.StartTime = EpochToZoomTime(meeting.StartTime)
	}
	if meeting.HasFixedTime() {
		request.Recurrence = toRecurrenceSettings(meeting.Recurrence)
	}

	return request
}

// UpdateFromZoom folds the remote object back into the local record and
// reports whether anything drifted. Used by the metadata refresh job.
func UpdateFromZoom(meeting *models.Meeting, response *api.MeetingResponse) (bool, error) {
	changed := false

	if response.Topic != "" && response.Topic != meeting.Topic {
		meeting.Topic = response.Topic
		changed = true
	}
	if response.StartTime != "" {
		epoch, err := ZoomTimeToEpoch(response.StartTime)
		if err != nil {
			return changed, err
		}
		if epoch != meeting.StartTime {
			meeting.StartTime = epoch
			changed = true
		}
	}
	if response.Duration > 0 {
		seconds := MinutesToSeconds(response.Duration)
		if seconds != meeting.Duration {
			meeting.Duration = seconds
			changed = true
		}
	}
	if response.Timezone != "" && response.Timezone != meeting.Timezone {
		meeting.Timezone = response.Timezone
		changed = true
	}
	if response.Password != meeting.Password {
		meeting.Password = response.Password
		changed = true
	}
	if response.HostID != "" && response.HostID != meeting.HostID {
		meeting.HostID = response.HostID
		changed = true
	}
	if !meeting.ExistsOnRemote {
		meeting.ExistsOnRemote = true
		changed = true
	}

	return changed, nil
}
