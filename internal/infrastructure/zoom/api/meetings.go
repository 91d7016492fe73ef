// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Meeting type constants for the Zoom API
const (
	MeetingTypeInstant              = 1
	MeetingTypeScheduled            = 2
	MeetingTypeRecurringNoFixedTime = 3
	MeetingTypeRecurringFixedTime   = 8
	WebinarTypeScheduled            = 5
	WebinarTypeRecurringNoFixedTime = 6
	WebinarTypeRecurringFixedTime   = 9
)

// Recurrence type constants for the Zoom API
const (
	RecurrenceTypeDaily   = 1
	RecurrenceTypeWeekly  = 2
	RecurrenceTypeMonthly = 3
)

// MeetingRequest is the outbound payload for creating or updating a meeting
// or webinar. Durations are minutes and start_time is an ISO-8601 UTC
// string; the record mapper owns those conversions.
type MeetingRequest struct {
	Topic          string                 `json:"topic"`
	Type           int                    `json:"type"`
	StartTime      string                 `json:"start_time,omitempty"`
	Duration       int                    `json:"duration,omitempty"`
	Timezone       string                 `json:"timezone,omitempty"`
	Password       string                 `json:"password,omitempty"`
	Recurrence     *RecurrenceSettings    `json:"recurrence,omitempty"`
	Settings       *MeetingSettings       `json:"settings,omitempty"`
	TrackingFields []TrackingFieldRequest `json:"tracking_fields,omitempty"`
}

// RecurrenceSettings is the nested recurrence object. It is only attached
// for recurring meetings with a fixed-time recurrence type.
type RecurrenceSettings struct {
	Type           int    `json:"type"`
	RepeatInterval int    `json:"repeat_interval,omitempty"`
	WeeklyDays     string `json:"weekly_days,omitempty"`
	MonthlyDay     int    `json:"monthly_day,omitempty"`
	EndTimes       int    `json:"end_times,omitempty"`
	EndDateTime    string `json:"end_date_time,omitempty"`
}

// MeetingSettings is the nested settings object. Fields that are meaningless
// for webinars are pointers: the mapper leaves them nil so they are omitted
// entirely, because the Zoom API treats an absent field as "use the account
// default" while false is an explicit choice.
type MeetingSettings struct {
	HostVideo             *bool  `json:"host_video,omitempty"`
	ParticipantVideo      *bool  `json:"participant_video,omitempty"`
	JoinBeforeHost        *bool  `json:"join_before_host,omitempty"`
	WaitingRoom           *bool  `json:"waiting_room,omitempty"`
	MuteUponEntry         *bool  `json:"mute_upon_entry,omitempty"`
	MeetingAuthentication *bool  `json:"meeting_authentication,omitempty"`
	EncryptionType        string `json:"encryption_type,omitempty"`
	AlternativeHosts      string `json:"alternative_hosts,omitempty"`
	AutoRecording         string `json:"auto_recording,omitempty"`
}

// TrackingFieldRequest is one outbound custom tracking field pair.
type TrackingFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// OccurrenceInfo is one scheduled occurrence of a recurring meeting.
type OccurrenceInfo struct {
	OccurrenceID string `json:"occurrence_id"`
	StartTime    string `json:"start_time"`
	Duration     int    `json:"duration"`
	Status       string `json:"status"`
}

// MeetingResponse is the inbound shape of a meeting or webinar object.
type MeetingResponse struct {
	ID               int64                  `json:"id"`
	UUID             string                 `json:"uuid"`
	HostID           string                 `json:"host_id"`
	Topic            string                 `json:"topic"`
	Type             int                    `json:"type"`
	Status           string                 `json:"status"`
	StartTime        string                 `json:"start_time"`
	Duration         int                    `json:"duration"` // minutes
	Timezone         string                 `json:"timezone"`
	Password         string                 `json:"password"`
	JoinURL          string                 `json:"join_url"`
	StartURL         string                 `json:"start_url"`
	Occurrences      []OccurrenceInfo       `json:"occurrences,omitempty"`
	Recurrence       *RecurrenceSettings    `json:"recurrence,omitempty"`
	Settings         *MeetingSettings       `json:"settings,omitempty"`
	TrackingFields   []TrackingFieldRequest `json:"tracking_fields,omitempty"`
}

// Registrant is one meeting or webinar registration.
type Registrant struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Status    string `json:"status"`
	JoinURL   string `json:"join_url"`
}

// meetingsSegment selects the meeting or webinar API family.
func meetingsSegment(webinar bool) string {
	if webinar {
		return "webinars"
	}
	return "meetings"
}

// CreateMeeting creates a meeting or webinar for the given host.
func (c *Client) CreateMeeting(ctx context.Context, hostID string, webinar bool, request *MeetingRequest) (*MeetingResponse, error) {
	path := fmt.Sprintf("/users/%s/%s", hostID, meetingsSegment(webinar))
	body, err := c.call(ctx, http.MethodPost, path, request)
	if err != nil {
		return nil, err
	}

	var meeting MeetingResponse
	if err := json.Unmarshal(body, &meeting); err != nil {
		return nil, fmt.Errorf("failed to decode meeting response: %w", err)
	}
	return &meeting, nil
}

// GetMeeting fetches a meeting or webinar by its numeric id.
func (c *Client) GetMeeting(ctx context.Context, meetingID int64, webinar bool) (*MeetingResponse, error) {
	path := fmt.Sprintf("/%s/%d", meetingsSegment(webinar), meetingID)
	body, err := c.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var meeting MeetingResponse
	if err := json.Unmarshal(body, &meeting); err != nil {
		return nil, fmt.Errorf("failed to decode meeting response: %w", err)
	}
	return &meeting, nil
}

// UpdateMeeting patches an existing meeting or webinar.
func (c *Client) UpdateMeeting(ctx context.Context, meetingID int64, webinar bool, request *MeetingRequest) error {
	path := fmt.Sprintf("/%s/%d", meetingsSegment(webinar), meetingID)
	_, err := c.call(ctx, http.MethodPatch, path, request)
	return err
}

// DeleteMeeting deletes a meeting or webinar, suppressing the reminder
// email Zoom would otherwise send to registrants.
func (c *Client) DeleteMeeting(ctx context.Context, meetingID int64, webinar bool) error {
	path := fmt.Sprintf("/%s/%d?schedule_for_reminder=false", meetingsSegment(webinar), meetingID)
	_, err := c.call(ctx, http.MethodDelete, path, nil)
	return err
}

// GetMeetingInvitation fetches the invite text of a meeting or webinar.
func (c *Client) GetMeetingInvitation(ctx context.Context, meetingID int64, webinar bool) (string, error) {
	path := fmt.Sprintf("/%s/%d/invitation", meetingsSegment(webinar), meetingID)
	body, err := c.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}

	var invitation struct {
		Invitation string `json:"invitation"`
	}
	if err := json.Unmarshal(body, &invitation); err != nil {
		return "", fmt.Errorf("failed to decode invitation response: %w", err)
	}
	return invitation.Invitation, nil
}

// ListRegistrants pages through the registration list of a meeting or
// webinar.
func (c *Client) ListRegistrants(ctx context.Context, meetingID int64, webinar bool) ([]Registrant, error) {
	path := fmt.Sprintf("/%s/%d/registrants", meetingsSegment(webinar), meetingID)
	items, err := c.paginatedCall(ctx, path, url.Values{}, "registrants")
	if err != nil {
		return nil, err
	}
	return decodePaginated[Registrant](items)
}
