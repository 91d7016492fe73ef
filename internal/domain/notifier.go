// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package domain

import "context"

// AttendanceReport is the staff notification assembled after a grading run.
// The three buckets are disjoint by construction.
type AttendanceReport struct {
	MeetingID      int64
	Topic          string
	OccurrenceUUID string

	// Matched to a local account but not enrolled in the course: the grade
	// was computed but withheld.
	NotEnrolled []AttendanceReportEntry
	// Never matched to any local account: needs manual grading.
	Unmatched []AttendanceReportEntry
	// Enrolled users who clicked the join link but appear in no participant
	// report: needs manual follow-up.
	NeverJoined []AttendanceReportEntry
}

// AttendanceReportEntry is one line of the staff notification.
type AttendanceReportEntry struct {
	Name  string
	Email string
	Grade float64
}

// AttendanceNotifier delivers the post-grading report to course staff.
type AttendanceNotifier interface {
	SendAttendanceReport(ctx context.Context, recipients []string, report *AttendanceReport) error
}
