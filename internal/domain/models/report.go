// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Report source API families. The dashboard and report families return
// overlapping data with different field names and duration encodings, so
// every fetched meeting is normalized into MeetingReport before processing.
const (
	ReportSourceDashboard = "dashboard"
	ReportSourceReport    = "report"
)

// MeetingReport is the canonical shape of one ended meeting occurrence as
// fetched from any of the listing API families.
type MeetingReport struct {
	MeetingID        int64     `json:"meeting_id"`
	UUID             string    `json:"uuid"`
	Topic            string    `json:"topic"`
	HostID           string    `json:"host_id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Duration         int64     `json:"duration"` // seconds
	ParticipantCount int       `json:"participant_count"`
	TotalMinutes     int       `json:"total_minutes"`
	Source           string    `json:"source"`
}

// RawParticipant is one attendee entry as returned by the participants APIs,
// before matching against local accounts.
type RawParticipant struct {
	UUID      string    // Zoom participant uuid; empty for some licensing tiers
	UserID    int64     // Zoom numeric user id
	Name      string
	Email     string
	JoinTime  time.Time
	LeaveTime time.Time
	Duration  int64 // seconds
}

// ParseReportDuration converts a report duration value to seconds. The
// dashboard family encodes durations as colon-separated strings with one to
// three components ("45" minutes-only, "10:01" MM:SS, "01:21:18" HH:MM:SS)
// while the report family uses integer minutes; both must land on the same
// unit.
func ParseReportDuration(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	parts := strings.Split(value, ":")
	nums := make([]int64, len(parts))
	for i, part := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", value, err)
		}
		nums[i] = n
	}

	switch len(nums) {
	case 1:
		// minutes only
		return nums[0] * 60, nil
	case 2:
		// MM:SS (non-standard but observed)
		return nums[0]*60 + nums[1], nil
	case 3:
		return nums[0]*3600 + nums[1]*60 + nums[2], nil
	default:
		return 0, fmt.Errorf("invalid duration %q: too many components", value)
	}
}
