// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package models

import "time"

// LocalUser is an account in the host LMS user directory.
type LocalUser struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// JoinEvent records that a user clicked the join link of a meeting activity.
// Written by the host LMS; read by the grading pipeline to flag enrolled
// users who tried to attend but never showed up in any participant report.
type JoinEvent struct {
	MeetingID int64     `json:"meeting_id"`
	UserID    int64     `json:"user_id"`
	ClickedAt time.Time `json:"clicked_at"`
}

// ActivityGrade is a stored grade for one user on one meeting activity.
type ActivityGrade struct {
	MeetingID int64      `json:"meeting_id"`
	UserID    int64      `json:"user_id"`
	Grade     float64    `json:"grade"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// TrackingField is one school-wide configured Zoom tracking field.
type TrackingField struct {
	Field      string `json:"field"`
	IsRequired bool   `json:"is_required"`
	IsVisible  bool   `json:"is_visible"`
}
