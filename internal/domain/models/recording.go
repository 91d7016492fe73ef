// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package models

import "time"

// Recording is one Zoom cloud recording file tracked locally.
type Recording struct {
	UID             string     `json:"uid"`
	MeetingID       int64      `json:"meeting_id"`
	OccurrenceUUID  string     `json:"occurrence_uuid"`
	ZoomRecordingID string     `json:"zoom_recording_id"` // unique within an occurrence
	Name            string     `json:"name"`
	PlayURL         string     `json:"play_url"`
	Passcode        string     `json:"passcode,omitempty"`
	RecordingType   string     `json:"recording_type"` // e.g. shared_screen_with_speaker_view, audio_only
	RecordingStart  time.Time  `json:"recording_start"`
	Visible         bool       `json:"visible"` // shown to students or hidden
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}
