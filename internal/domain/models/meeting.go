// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"time"

	"github.com/teambition/rrule-go"
)

// Grading method constants for a meeting activity.
const (
	GradingMethodEntry  = "entry"  // full credit for showing up at all
	GradingMethodPeriod = "period" // credit proportional to attended duration
)

// RecurrenceType mirrors the recurrence vocabulary of the activity record.
type RecurrenceType int

const (
	RecurrenceNone RecurrenceType = iota
	RecurrenceDaily
	RecurrenceWeekly
	RecurrenceMonthly
	RecurrenceNoFixedTime
)

// Meeting is the local activity record mirrored to a Zoom meeting or webinar.
// Times are epoch seconds and durations are seconds; the mapper owns all
// conversions to the Zoom payload units.
type Meeting struct {
	ID                 int64             `json:"id"` // Zoom numeric meeting id
	CourseID           string            `json:"course_id"`
	HostID             string            `json:"host_id"`
	Topic              string            `json:"topic"`
	StartTime          int64             `json:"start_time"`
	Duration           int64             `json:"duration"`
	Timezone           string            `json:"timezone,omitempty"`
	Recurrence         *Recurrence       `json:"recurrence,omitempty"`
	Password           string            `json:"password,omitempty"`
	AlternativeHosts   string            `json:"alternative_hosts,omitempty"` // comma-joined emails
	Webinar            bool              `json:"webinar"`
	ExistsOnRemote     bool              `json:"exists_on_remote"`
	HostVideo          bool              `json:"host_video"`
	ParticipantVideo   bool              `json:"participant_video"`
	JoinBeforeHost     bool              `json:"join_before_host"`
	WaitingRoom        bool              `json:"waiting_room"`
	MuteOnEntry        bool              `json:"mute_on_entry"`
	AuthenticatedUsers bool              `json:"authenticated_users"`
	Encryption         string            `json:"encryption,omitempty"`
	TrackingFields     map[string]string `json:"tracking_fields,omitempty"`
	GradingMethod      string            `json:"grading_method,omitempty"`
	MaxGrade           float64           `json:"max_grade,omitempty"`
	RecordingsVisible  bool              `json:"recordings_visible"`
	CreatedAt          *time.Time        `json:"created_at,omitempty"`
	UpdatedAt          *time.Time        `json:"updated_at,omitempty"`
}

// Recurrence describes how a recurring meeting repeats.
type Recurrence struct {
	Type           RecurrenceType `json:"type"`
	RepeatInterval int            `json:"repeat_interval,omitempty"`
	WeeklyDays     []int          `json:"weekly_days,omitempty"` // 1 = Sunday ... 7 = Saturday
	MonthlyDay     int            `json:"monthly_day,omitempty"`
	EndTimes       int            `json:"end_times,omitempty"`     // end after N occurrences
	EndDateTime    int64          `json:"end_date_time,omitempty"` // or end at epoch seconds
}

// IsRecurring reports whether the meeting repeats at all.
func (m *Meeting) IsRecurring() bool {
	return m.Recurrence != nil && m.Recurrence.Type != RecurrenceNone
}

// HasFixedTime reports whether a recurring meeting follows a fixed schedule.
// A "no fixed time" recurrence has no occurrence calendar of its own.
func (m *Meeting) HasFixedTime() bool {
	return m.IsRecurring() && m.Recurrence.Type != RecurrenceNoFixedTime
}

// ScheduledStart returns the scheduled start as a time.
func (m *Meeting) ScheduledStart() time.Time {
	return time.Unix(m.StartTime, 0).UTC()
}

// ScheduledEnd returns the scheduled end of the (first) occurrence.
func (m *Meeting) ScheduledEnd() time.Time {
	return time.Unix(m.StartTime+m.Duration, 0).UTC()
}

var zoomWeekdays = map[int]rrule.Weekday{
	1: rrule.SU,
	2: rrule.MO,
	3: rrule.TU,
	4: rrule.WE,
	5: rrule.TH,
	6: rrule.FR,
	7: rrule.SA,
}

// ExpectedOccurrences expands the fixed-time recurrence into occurrence start
// times within [from, until]. Non-recurring and no-fixed-time meetings yield
// only the scheduled start when it falls inside the window.
func (m *Meeting) ExpectedOccurrences(from, until time.Time) ([]time.Time, error) {
	if !m.HasFixedTime() {
		start := m.ScheduledStart()
		if start.Before(from) || start.After(until) {
			return nil, nil
		}
		return []time.Time{start}, nil
	}

	opt := rrule.ROption{
		Dtstart:  m.ScheduledStart(),
		Interval: m.Recurrence.RepeatInterval,
	}
	switch m.Recurrence.Type {
	case RecurrenceDaily:
		opt.Freq = rrule.DAILY
	case RecurrenceWeekly:
		opt.Freq = rrule.WEEKLY
		for _, day := range m.Recurrence.WeeklyDays {
			if wd, ok := zoomWeekdays[day]; ok {
				opt.Byweekday = append(opt.Byweekday, wd)
			}
		}
	case RecurrenceMonthly:
		opt.Freq = rrule.MONTHLY
		if m.Recurrence.MonthlyDay > 0 {
			opt.Bymonthday = []int{m.Recurrence.MonthlyDay}
		}
	}
	if m.Recurrence.EndTimes > 0 {
		opt.Count = m.Recurrence.EndTimes
	} else if m.Recurrence.EndDateTime > 0 {
		opt.Until = time.Unix(m.Recurrence.EndDateTime, 0).UTC()
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, err
	}

	return rule.Between(from, until, true), nil
}
