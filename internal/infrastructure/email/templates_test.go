// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/zoom-sync-service/internal/domain"
)

func TestRenderAttendanceReport(t *testing.T) {
	templates, err := loadTemplates()
	require.NoError(t, err)

	report := &domain.AttendanceReport{
		MeetingID:      123,
		Topic:          "Linear Algebra",
		OccurrenceUUID: "abc==",
		NotEnrolled: []domain.AttendanceReportEntry{
			{Name: "Jane Smith", Email: "jane@example.edu", Grade: 7.5},
		},
		Unmatched: []domain.AttendanceReportEntry{
			{Name: "iPad User", Email: ""},
		},
		NeverJoined: []domain.AttendanceReportEntry{
			{Name: "John Doe", Email: "john@example.edu"},
		},
	}

	html, err := renderTemplate(templates.AttendanceReport.HTML, report)
	require.NoError(t, err)
	assert.Contains(t, html, "Linear Algebra")
	assert.Contains(t, html, "jane@example.edu")
	assert.Contains(t, html, "7.5")
	assert.Contains(t, html, "iPad User")
	assert.Contains(t, html, "John Doe")

	text, err := renderTemplate(templates.AttendanceReport.Text, report)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Smith")
	assert.Contains(t, text, "grade 7.5")
}

func TestRenderAttendanceReportEmptyBuckets(t *testing.T) {
	templates, err := loadTemplates()
	require.NoError(t, err)

	report := &domain.AttendanceReport{MeetingID: 1, Topic: "Empty"}

	html, err := renderTemplate(templates.AttendanceReport.HTML, report)
	require.NoError(t, err)
	assert.NotContains(t, html, "Unmatched attendees")
	assert.NotContains(t, html, "not enrolled")
}

func TestFormatGrade(t *testing.T) {
	assert.Equal(t, "7.5", formatGrade(7.5))
	assert.Equal(t, "10", formatGrade(10.0))
	assert.Equal(t, "3.33333", formatGrade(10.0/3.0))
}

func TestBuildEmailMessage(t *testing.T) {
	config := SMTPConfig{From: "noreply@example.edu"}
	message := buildEmailMessage("staff@example.edu", "Attendance report: Test", "<p>html</p>", "text", config)

	assert.Contains(t, message, "From: noreply@example.edu\r\n")
	assert.Contains(t, message, "To: staff@example.edu\r\n")
	assert.Contains(t, message, "Subject: Attendance report: Test\r\n")
	assert.Contains(t, message, "multipart/alternative")
	assert.Contains(t, message, "<p>html</p>")
	assert.Contains(t, message, "text")
}
