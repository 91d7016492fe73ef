// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package models

import "fmt"

// Participant is one matched-or-unmatched attendee row of one occurrence.
// Rows are never updated after insert; re-fetching the same report is
// idempotent because exact duplicates are skipped on the dedup key.
type Participant struct {
	UID            string `json:"uid"`
	OccurrenceUUID string `json:"occurrence_uuid"`
	ZoomUserUUID   string `json:"zoom_user_uuid,omitempty"` // not stable across fetches
	ZoomUserID     int64  `json:"zoom_user_id"`
	LocalUserID    *int64 `json:"local_user_id,omitempty"` // nil means unmatched
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	JoinTime       int64  `json:"join_time"`  // epoch seconds
	LeaveTime      int64  `json:"leave_time"` // epoch seconds
	Duration       int64  `json:"duration"`   // seconds
}

// DedupKey is the uniqueness key used on upsert. The Zoom report APIs offer
// no identifier that is stable across repeated fetches, so identical tuples
// are the only duplicate signal available.
func (p *Participant) DedupKey() string {
	localID := int64(-1)
	if p.LocalUserID != nil {
		localID = *p.LocalUserID
	}
	return fmt.Sprintf("%s|%d|%d|%d|%d", p.Name, localID, p.ZoomUserID, p.JoinTime, p.LeaveTime)
}
