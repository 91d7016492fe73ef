// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// dateFormat is the day-granularity format the listing APIs take for their
// from/to window parameters.
const dateFormat = "2006-01-02"

// DashboardMeeting is one ended meeting as returned by the dashboard
// (metrics) family. Durations are colon-separated strings.
type DashboardMeeting struct {
	ID           int64     `json:"id"`
	UUID         string    `json:"uuid"`
	Topic        string    `json:"topic"`
	Host         string    `json:"host"`
	Email        string    `json:"email"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Duration     string    `json:"duration"` // "45", "10:01" or "01:21:18"
	Participants int       `json:"participants"`
}

// ReportMeeting is one ended meeting as returned by the report family.
// Durations are integer minutes.
type ReportMeeting struct {
	ID               int64     `json:"id"`
	UUID             string    `json:"uuid"`
	Topic            string    `json:"topic"`
	UserID           string    `json:"user_id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Duration         int       `json:"duration"` // minutes
	ParticipantCount int       `json:"participants_count"`
	TotalMinutes     int       `json:"total_minutes"`
}

// ReportUser is one account user from the report users listing.
type ReportUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ReportParticipant is one attendee from the participants APIs. The report
// and metrics families share this shape closely enough to use one struct.
type ReportParticipant struct {
	ID        string    `json:"id"`         // Zoom participant uuid; may be empty
	UserID    int64     `json:"user_id"`    // Zoom numeric in-meeting user id
	Name      string    `json:"name"`
	UserEmail string    `json:"user_email"`
	JoinTime  time.Time `json:"join_time"`
	LeaveTime time.Time `json:"leave_time"`
	Duration  int64     `json:"duration"` // seconds
}

// ListEndedMeetingsDashboard pages through the dashboard family's past
// meetings (or webinars) within [from, to]. One call pair covers all hosts.
func (c *Client) ListEndedMeetingsDashboard(ctx context.Context, from, to time.Time, webinar bool) ([]DashboardMeeting, error) {
	query := url.Values{}
	query.Set("type", "past")
	query.Set("from", from.UTC().Format(dateFormat))
	query.Set("to", to.UTC().Format(dateFormat))

	segment := meetingsSegment(webinar)
	items, err := c.paginatedCall(ctx, "/metrics/"+segment, query, segment)
	if err != nil {
		return nil, err
	}
	return decodePaginated[DashboardMeeting](items)
}

// ListReportUsers pages through the active account users of the report
// family, used to enumerate hosts when the dashboard family is unavailable.
func (c *Client) ListReportUsers(ctx context.Context, from, to time.Time) ([]ReportUser, error) {
	query := url.Values{}
	query.Set("type", "active")
	query.Set("from", from.UTC().Format(dateFormat))
	query.Set("to", to.UTC().Format(dateFormat))

	items, err := c.paginatedCall(ctx, "/report/users", query, "users")
	if err != nil {
		return nil, err
	}
	return decodePaginated[ReportUser](items)
}

// ListUserEndedMeetingsReport pages through one host's ended meetings via
// the report family.
func (c *Client) ListUserEndedMeetingsReport(ctx context.Context, userID string, from, to time.Time) ([]ReportMeeting, error) {
	query := url.Values{}
	query.Set("type", "past")
	query.Set("from", from.UTC().Format(dateFormat))
	query.Set("to", to.UTC().Format(dateFormat))

	path := fmt.Sprintf("/report/users/%s/meetings", userID)
	items, err := c.paginatedCall(ctx, path, query, "meetings")
	if err != nil {
		return nil, err
	}
	return decodePaginated[ReportMeeting](items)
}

// ListMeetingParticipantsReport pages through an occurrence's participants
// via the report family.
func (c *Client) ListMeetingParticipantsReport(ctx context.Context, occurrenceUUID string, webinar bool) ([]ReportParticipant, error) {
	path := fmt.Sprintf("/report/%s/%s/participants", meetingsSegment(webinar), EncodeMeetingUUID(occurrenceUUID))
	items, err := c.paginatedCall(ctx, path, url.Values{}, "participants")
	if err != nil {
		return nil, err
	}
	return decodePaginated[ReportParticipant](items)
}

// ListMeetingParticipantsMetrics pages through an occurrence's participants
// via the metrics family, the fallback when report scopes are not granted.
func (c *Client) ListMeetingParticipantsMetrics(ctx context.Context, occurrenceUUID string, webinar bool) ([]ReportParticipant, error) {
	query := url.Values{}
	query.Set("type", "past")

	path := fmt.Sprintf("/metrics/%s/%s/participants", meetingsSegment(webinar), EncodeMeetingUUID(occurrenceUUID))
	items, err := c.paginatedCall(ctx, path, query, "participants")
	if err != nil {
		return nil, err
	}
	return decodePaginated[ReportParticipant](items)
}
