// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package models

import "time"

// Occurrence is one concrete instance of a meeting, identified by the Zoom
// occurrence UUID. Recurring meetings and webinars produce many occurrences
// that share one meeting id.
type Occurrence struct {
	UUID             string     `json:"uuid"`
	MeetingID        int64      `json:"meeting_id"`
	Topic            string     `json:"topic"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          time.Time  `json:"end_time"`
	Duration         int64      `json:"duration"` // seconds
	ParticipantCount int        `json:"participant_count"`
	TotalMinutes     int        `json:"total_minutes"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}
