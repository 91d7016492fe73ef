// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package constants

// NATS subjects for sync events published to downstream consumers.
const (
	// OccurrenceProcessedSubject carries one message per reconciled occurrence.
	OccurrenceProcessedSubject = "lms.zoom.occurrence.processed"

	// GradesAppliedSubject carries one message per grading run that wrote
	// at least one grade.
	GradesAppliedSubject = "lms.zoom.grades.applied"

	// RecordingDiscoveredSubject carries one message per newly discovered
	// cloud recording.
	RecordingDiscoveredSubject = "lms.zoom.recording.discovered"
)

// NATS request subjects the LMS uses to drive the meeting lifecycle when the
// runner is started in serve mode.
const (
	MeetingCreateSubject     = "lms.zoom.meeting.create"
	MeetingUpdateSubject     = "lms.zoom.meeting.update"
	MeetingDeleteSubject     = "lms.zoom.meeting.delete"
	MeetingInvitationSubject = "lms.zoom.meeting.invitation"

	// CommandQueue is the queue group name so multiple runners share the
	// command load without double-handling.
	CommandQueue = "zoom-sync-service"
)
