// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package constants

// Meeting constraints
const (
	// MaxMeetingDurationMinutes is the maximum duration of a meeting in minutes
	MaxMeetingDurationMinutes = 600

	// MaxTopicLength is the longest topic Zoom accepts when scheduling
	MaxTopicLength = 200

	// MaxPasswordLength is the longest meeting passcode Zoom accepts
	MaxPasswordLength = 10
)
