// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strconv"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
)

// Session is one contiguous attended interval of one identity, in epoch
// seconds. Duration is the remote-reported value, which is what counts for
// the fully-contained merge case.
type Session struct {
	Join     int64
	Leave    int64
	Duration int64
}

// SessionOverlap computes the double-counted seconds when two sessions of the
// same identity are merged. Symmetric in its arguments: the session with the
// earlier join time plays the "old" role regardless of argument order, and on
// equal join times the one with the later leave does, so the other session is
// the contained one.
func SessionOverlap(a, b Session) int64 {
	earlier, later := a, b
	if b.Join < a.Join || (b.Join == a.Join && b.Leave > a.Leave) {
		earlier, later = b, a
	}
	switch {
	case later.Join >= earlier.Leave:
		return 0
	case later.Leave > earlier.Leave:
		return earlier.Leave - later.Join
	default:
		return later.Duration
	}
}

// mergeSessions folds a new session into the running merged interval.
func mergeSessions(merged, next Session) Session {
	overlap := SessionOverlap(merged, next)
	out := Session{Duration: merged.Duration + next.Duration - overlap}
	out.Join = merged.Join
	if next.Join < out.Join {
		out.Join = next.Join
	}
	out.Leave = merged.Leave
	if next.Leave > out.Leave {
		out.Leave = next.Leave
	}
	return out
}

// identityKey folds participant rows of the same person together. Resolved
// rows key on the local user id; unresolved rows key on the display name,
// with numeric-looking names marked so they cannot collide with real ids.
func identityKey(userID *int64, name string) string {
	if userID != nil {
		return strconv.FormatInt(*userID, 10)
	}
	if _, err := strconv.ParseInt(name, 10, 64); err == nil {
		return "~" + name
	}
	return name
}

// round5 rounds to five decimal places. Grade comparisons go through this so
// float noise cannot flap a grade back and forth between runs.
func round5(x float64) float64 {
	return math.Round(x*1e5) / 1e5
}

// gradingDenominator returns the graded-window length in seconds. For a
// non-recurring meeting only the scheduled window counts, clipped to what
// actually happened; a recurring occurrence is graded over its full reported
// window because the schedule says nothing about individual occurrences.
func gradingDenominator(meeting *models.Meeting, occurrence *models.Occurrence) int64 {
	reportedStart := occurrence.StartTime.Unix()
	reportedEnd := occurrence.EndTime.Unix()

	if meeting.IsRecurring() {
		return reportedEnd - reportedStart
	}

	start := reportedStart
	if meeting.StartTime > start {
		start = meeting.StartTime
	}
	end := reportedEnd
	if scheduledEnd := meeting.StartTime + meeting.Duration; scheduledEnd < end {
		end = scheduledEnd
	}
	return end - start
}

// attendance is the per-identity accumulation across all participant rows of
// one occurrence.
type attendance struct {
	session Session
	userID  *int64
	name    string
	email   string
}

// GradingService computes attendance grades for one processed occurrence and
// assembles the staff follow-up report.
type GradingService struct {
	enrollments domain.EnrollmentRepository
	grades      domain.GradeRepository
	joinAudit   domain.JoinAuditRepository
	notifier    domain.AttendanceNotifier
	messages    domain.MessageBuilder
	logger      *slog.Logger
}

func NewGradingService(
	enrollments domain.EnrollmentRepository,
	grades domain.GradeRepository,
	joinAudit domain.JoinAuditRepository,
	notifier domain.AttendanceNotifier,
	messages domain.MessageBuilder,
	logger *slog.Logger,
) *GradingService {
	return &GradingService{
		enrollments: enrollments,
		grades:      grades,
		joinAudit:   joinAudit,
		notifier:    notifier,
		messages:    messages,
		logger:      logger,
	}
}

// GradeOccurrence grades all participants of one occurrence and, when any
// grade was newly applied, notifies the staff recipients and publishes a
// grades-applied event. Returns the number of grades applied.
func (s *GradingService) GradeOccurrence(
	ctx context.Context,
	meeting *models.Meeting,
	occurrence *models.Occurrence,
	participants []*models.Participant,
	recipients []string,
) (int, error) {
	if meeting.GradingMethod == "" || meeting.MaxGrade <= 0 {
		return 0, nil
	}

	sorted := make([]*models.Participant, len(participants))
	copy(sorted, participants)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].JoinTime < sorted[j].JoinTime
	})

	byIdentity := make(map[string]*attendance)
	var order []string
	for _, p := range sorted {
		key := identityKey(p.LocalUserID, p.Name)
		next := Session{Join: p.JoinTime, Leave: p.LeaveTime, Duration: p.Duration}

		acc, ok := byIdentity[key]
		if !ok {
			byIdentity[key] = &attendance{
				session: next,
				userID:  p.LocalUserID,
				name:    p.Name,
				email:   p.Email,
			}
			order = append(order, key)
			continue
		}
		acc.session = mergeSessions(acc.session, next)
	}

	denominator := gradingDenominator(meeting, occurrence)
	if denominator <= 0 {
		s.logger.WarnContext(ctx, "empty grading window, skipping occurrence",
			"meeting_id", meeting.ID,
			"occurrence_uuid", occurrence.UUID,
		)
		return 0, nil
	}

	roster, err := s.enrollments.ListEnrolled(ctx, meeting.CourseID)
	if err != nil {
		return 0, err
	}
	enrolled := make(map[int64]*models.LocalUser, len(roster))
	for _, user := range roster {
		enrolled[user.ID] = user
	}

	report := &domain.AttendanceReport{
		MeetingID:      meeting.ID,
		Topic:          meeting.Topic,
		OccurrenceUUID: occurrence.UUID,
	}

	var appliedUserIDs []int64
	attended := make(map[int64]bool)

	for _, key := range order {
		acc := byIdentity[key]
		grade := s.computeGrade(meeting, acc.session, denominator)

		if acc.userID == nil {
			report.Unmatched = append(report.Unmatched, domain.AttendanceReportEntry{
				Name:  acc.name,
				Email: acc.email,
				Grade: grade,
			})
			continue
		}

		userID := *acc.userID
		attended[userID] = true
		if _, ok := enrolled[userID]; !ok {
			report.NotEnrolled = append(report.NotEnrolled, domain.AttendanceReportEntry{
				Name:  acc.name,
				Email: acc.email,
				Grade: grade,
			})
			continue
		}

		applied, err := s.applyGrade(ctx, meeting.ID, userID, grade)
		if err != nil {
			return len(appliedUserIDs), err
		}
		if applied {
			appliedUserIDs = append(appliedUserIDs, userID)
		}
	}

	if err := s.collectNeverJoined(ctx, meeting, enrolled, attended, report); err != nil {
		return len(appliedUserIDs), err
	}

	if len(appliedUserIDs) == 0 {
		return 0, nil
	}

	if err := s.messages.SendGradesApplied(ctx, meeting.ID, appliedUserIDs); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish grades-applied event",
			"meeting_id", meeting.ID, "error", err)
	}
	if len(recipients) > 0 {
		if err := s.notifier.SendAttendanceReport(ctx, recipients, report); err != nil {
			s.logger.ErrorContext(ctx, "failed to send attendance report",
				"meeting_id", meeting.ID, "error", err)
		}
	}

	return len(appliedUserIDs), nil
}

// computeGrade turns an attended duration into a grade, capped at the
// meeting's maximum.
func (s *GradingService) computeGrade(meeting *models.Meeting, session Session, denominator int64) float64 {
	if meeting.GradingMethod == models.GradingMethodEntry {
		return meeting.MaxGrade
	}
	grade := float64(session.Duration) * meeting.MaxGrade / float64(denominator)
	if grade > meeting.MaxGrade {
		grade = meeting.MaxGrade
	}
	return grade
}

// applyGrade writes the grade only when it strictly improves on the stored
// one. Automated grading never lowers a grade.
func (s *GradingService) applyGrade(ctx context.Context, meetingID, userID int64, grade float64) (bool, error) {
	existing, err := s.grades.Get(ctx, meetingID, userID)
	if err != nil && domain.GetErrorKind(err) != domain.ErrorKindNotFound {
		return false, err
	}
	if existing != nil && round5(grade) <= round5(existing.Grade) {
		return false, nil
	}

	if err := s.grades.Put(ctx, &models.ActivityGrade{
		MeetingID: meetingID,
		UserID:    userID,
		Grade:     round5(grade),
	}); err != nil {
		return false, err
	}
	return true, nil
}

// collectNeverJoined adds enrolled users who clicked the join link but never
// appeared in any participant row.
func (s *GradingService) collectNeverJoined(
	ctx context.Context,
	meeting *models.Meeting,
	enrolled map[int64]*models.LocalUser,
	attended map[int64]bool,
	report *domain.AttendanceReport,
) error {
	clicks, err := s.joinAudit.ListJoinClicks(ctx, meeting.ID)
	if err != nil {
		return err
	}

	seen := make(map[int64]bool)
	for _, click := range clicks {
		if seen[click.UserID] || attended[click.UserID] {
			continue
		}
		seen[click.UserID] = true
		user, ok := enrolled[click.UserID]
		if !ok {
			continue
		}
		report.NeverJoined = append(report.NeverJoined, domain.AttendanceReportEntry{
			Name:  user.FullName,
			Email: user.Email,
		})
	}
	return nil
}
