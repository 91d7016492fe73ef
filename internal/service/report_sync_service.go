// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
	"github.com/openlms/zoom-sync-service/internal/infrastructure/zoom/api"
)

// defaultLookback bounds the first-ever run. The remote report APIs retain
// no data older than this.
const defaultLookback = 30 * 24 * time.Hour

// RunOptions parameterizes one reconciliation run. A run with any explicit
// field set is a manual run: it bypasses the persisted cursor on the way in
// and does not advance it on the way out.
type RunOptions struct {
	From  time.Time
	To    time.Time
	Hosts []string
}

// IsManual reports whether any explicit parameter was supplied.
func (o RunOptions) IsManual() bool {
	return !o.From.IsZero() || !o.To.IsZero() || len(o.Hosts) > 0
}

// ReportSyncService is the report reconciliation job: it pulls ended meeting
// occurrences from whichever remote API family the granted scopes allow,
// upserts occurrence and participant rows, and triggers grading.
type ReportSyncService struct {
	client       api.ClientAPI
	meetings     domain.MeetingRepository
	occurrences  domain.OccurrenceRepository
	participants domain.ParticipantRepository
	syncState    domain.SyncStateRepository
	matcher      *Matcher
	grading      *GradingService
	messages     domain.MessageBuilder
	recipients   []string
	logger       *slog.Logger
	now          func() time.Time
}

func NewReportSyncService(
	client api.ClientAPI,
	meetings domain.MeetingRepository,
	occurrences domain.OccurrenceRepository,
	participants domain.ParticipantRepository,
	syncState domain.SyncStateRepository,
	matcher *Matcher,
	grading *GradingService,
	messages domain.MessageBuilder,
	recipients []string,
	logger *slog.Logger,
) *ReportSyncService {
	return &ReportSyncService{
		client:       client,
		meetings:     meetings,
		occurrences:  occurrences,
		participants: participants,
		syncState:    syncState,
		matcher:      matcher,
		grading:      grading,
		messages:     messages,
		recipients:   recipients,
		logger:       logger,
		now:          time.Now,
	}
}

// Run executes one reconciliation pass. Scheduled runs resume from the
// persisted cursor; a fatal interruption persists the cursor just before the
// failed meeting so the next run retries it.
func (s *ReportSyncService) Run(ctx context.Context, opts RunOptions) error {
	manual := opts.IsManual()
	now := s.now()

	cursor, err := s.syncState.GetLastCallMadeAt(ctx)
	if err != nil {
		return err
	}

	from := opts.From
	if from.IsZero() {
		from = cursor
		if from.IsZero() {
			from = now.Add(-defaultLookback)
		}
	}
	to := opts.To
	if to.IsZero() {
		to = now
	}

	s.logger.InfoContext(ctx, "starting report reconciliation",
		"from", from, "to", to, "manual", manual)

	reports, err := s.fetchReports(ctx, from, to, opts.Hosts)
	if err != nil {
		return err
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].EndTime.Before(reports[j].EndTime)
	})

	processed := 0
	for _, report := range reports {
		if !manual && !report.EndTime.After(cursor) {
			continue
		}

		if err := s.processMeeting(ctx, report); err != nil {
			if !manual {
				resumePoint := report.EndTime.Add(-time.Second)
				if stateErr := s.syncState.SetLastCallMadeAt(ctx, resumePoint); stateErr != nil {
					s.logger.ErrorContext(ctx, "failed to persist resume cursor",
						"error", stateErr)
				}
			}
			return err
		}
		processed++
	}

	if !manual {
		if err := s.syncState.SetLastCallMadeAt(ctx, to); err != nil {
			return err
		}
	}

	s.logger.InfoContext(ctx, "report reconciliation finished",
		"fetched", len(reports), "processed", processed)
	return nil
}

// fetchReports pulls ended meetings from the best available API family and
// normalizes them into the canonical report shape.
func (s *ReportSyncService) fetchReports(ctx context.Context, from, to time.Time, hosts []string) ([]models.MeetingReport, error) {
	useDashboard, err := s.client.HasScope(ctx, api.ScopesDashboardMeetings...)
	if err != nil {
		return nil, err
	}
	if useDashboard {
		return s.fetchDashboard(ctx, from, to)
	}
	return s.fetchPerHost(ctx, from, to, hosts)
}

func (s *ReportSyncService) fetchDashboard(ctx context.Context, from, to time.Time) ([]models.MeetingReport, error) {
	var reports []models.MeetingReport

	meetings, err := s.client.ListEndedMeetingsDashboard(ctx, from, to, false)
	if err != nil {
		return nil, err
	}
	for _, m := range meetings {
		report, err := normalizeDashboard(m)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping unparseable dashboard meeting",
				"uuid", m.UUID, "error", err)
			continue
		}
		reports = append(reports, report)
	}

	withWebinars, err := s.client.HasScope(ctx, api.ScopesDashboardWebinars...)
	if err != nil {
		return nil, err
	}
	if withWebinars {
		webinars, err := s.client.ListEndedMeetingsDashboard(ctx, from, to, true)
		if err != nil {
			return nil, err
		}
		for _, w := range webinars {
			report, err := normalizeDashboard(w)
			if err != nil {
				s.logger.WarnContext(ctx, "skipping unparseable dashboard webinar",
					"uuid", w.UUID, "error", err)
				continue
			}
			reports = append(reports, report)
		}
	}

	return reports, nil
}

// fetchPerHost is the report-family fallback: enumerate hosts, then query
// each host's ended meetings. A deleted host or a host that exhausts the
// retry ceiling loses only its own contribution.
func (s *ReportSyncService) fetchPerHost(ctx context.Context, from, to time.Time, hosts []string) ([]models.MeetingReport, error) {
	if len(hosts) == 0 {
		users, err := s.client.ListReportUsers(ctx, from, to)
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			hosts = append(hosts, user.ID)
		}
	}

	var reports []models.MeetingReport
	for _, host := range hosts {
		meetings, err := s.client.ListUserEndedMeetingsReport(ctx, host, from, to)
		if err != nil {
			switch domain.GetErrorKind(err) {
			case domain.ErrorKindNotFound:
				s.logger.InfoContext(ctx, "skipping deleted host", "host_id", host)
				continue
			case domain.ErrorKindRetryFailed:
				s.logger.WarnContext(ctx, "retry ceiling hit, dropping host contribution",
					"host_id", host)
				continue
			default:
				return nil, err
			}
		}
		for _, m := range meetings {
			reports = append(reports, normalizeReport(m))
		}
	}
	return reports, nil
}

func normalizeDashboard(m api.DashboardMeeting) (models.MeetingReport, error) {
	seconds, err := models.ParseReportDuration(m.Duration)
	if err != nil {
		return models.MeetingReport{}, err
	}
	return models.MeetingReport{
		MeetingID:        m.ID,
		UUID:             m.UUID,
		Topic:            m.Topic,
		HostID:           m.Host,
		StartTime:        m.StartTime,
		EndTime:          m.EndTime,
		Duration:         seconds,
		ParticipantCount: m.Participants,
		Source:           models.ReportSourceDashboard,
	}, nil
}

func normalizeReport(m api.ReportMeeting) models.MeetingReport {
	return models.MeetingReport{
		MeetingID:        m.ID,
		UUID:             m.UUID,
		Topic:            m.Topic,
		HostID:           m.UserID,
		StartTime:        m.StartTime,
		EndTime:          m.EndTime,
		Duration:         int64(m.Duration) * 60,
		ParticipantCount: m.ParticipantCount,
		TotalMinutes:     m.TotalMinutes,
		Source:           models.ReportSourceReport,
	}
}

// processMeeting handles one normalized report: occurrence upsert,
// participant ingestion, grading and the processed event. A missing local
// activity is not an error, the meeting was deleted locally. Any returned
// error interrupts the run.
func (s *ReportSyncService) processMeeting(ctx context.Context, report models.MeetingReport) error {
	meeting, err := s.meetings.Get(ctx, report.MeetingID)
	if err != nil {
		if domain.GetErrorKind(err) == domain.ErrorKindNotFound {
			s.logger.DebugContext(ctx, "no local activity for remote meeting, skipping",
				"meeting_id", report.MeetingID)
			return nil
		}
		return err
	}

	occurrence, err := s.upsertOccurrence(ctx, report)
	if err != nil {
		return err
	}

	all, err := s.ingestParticipants(ctx, meeting, occurrence)
	if err != nil {
		return err
	}

	if meeting.GradingMethod != "" {
		if _, err := s.grading.GradeOccurrence(ctx, meeting, occurrence, all, s.recipients); err != nil {
			return err
		}
	}

	if err := s.messages.SendOccurrenceProcessed(ctx, occurrence); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish occurrence-processed event",
			"occurrence_uuid", occurrence.UUID, "error", err)
	}
	return nil
}

// upsertOccurrence inserts the occurrence row on first sight of the UUID and
// updates it in place on every later fetch.
func (s *ReportSyncService) upsertOccurrence(ctx context.Context, report models.MeetingReport) (*models.Occurrence, error) {
	occurrence := &models.Occurrence{
		UUID:             report.UUID,
		MeetingID:        report.MeetingID,
		Topic:            report.Topic,
		StartTime:        report.StartTime,
		EndTime:          report.EndTime,
		Duration:         report.Duration,
		ParticipantCount: report.ParticipantCount,
		TotalMinutes:     report.TotalMinutes,
	}

	existing, revision, err := s.occurrences.GetWithRevision(ctx, report.UUID)
	if err != nil {
		if domain.GetErrorKind(err) == domain.ErrorKindNotFound {
			return occurrence, s.occurrences.Create(ctx, occurrence)
		}
		return nil, err
	}

	occurrence.CreatedAt = existing.CreatedAt
	return occurrence, s.occurrences.Update(ctx, occurrence, revision)
}

// ingestParticipants fetches the occurrence's attendees from whichever
// participants API the scopes allow, matches them against local accounts and
// inserts the rows that are not already stored. Returns the full stored set
// for grading.
func (s *ReportSyncService) ingestParticipants(ctx context.Context, meeting *models.Meeting, occurrence *models.Occurrence) ([]*models.Participant, error) {
	raws, err := s.fetchParticipants(ctx, meeting.Webinar, occurrence.UUID)
	if err != nil {
		if domain.GetErrorKind(err) == domain.ErrorKindNotFound {
			s.logger.InfoContext(ctx, "no participant data for occurrence",
				"occurrence_uuid", occurrence.UUID)
			return s.participants.ListByOccurrence(ctx, occurrence.UUID)
		}
		return nil, err
	}

	existing, err := s.participants.ListByOccurrence(ctx, occurrence.UUID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p.DedupKey()] = true
	}

	all := existing
	for _, raw := range raws {
		result, err := s.matcher.Match(ctx, meeting.CourseID, &raw)
		if err != nil {
			return nil, err
		}

		participant := &models.Participant{
			UID:            uuid.NewString(),
			OccurrenceUUID: occurrence.UUID,
			ZoomUserUUID:   raw.UUID,
			ZoomUserID:     raw.UserID,
			LocalUserID:    result.UserID,
			Name:           result.Name,
			Email:          raw.Email,
			JoinTime:       raw.JoinTime.Unix(),
			LeaveTime:      raw.LeaveTime.Unix(),
			Duration:       raw.Duration,
		}
		if seen[participant.DedupKey()] {
			continue
		}
		if err := s.participants.Create(ctx, participant); err != nil {
			return nil, err
		}
		seen[participant.DedupKey()] = true
		all = append(all, participant)
	}

	return all, nil
}

func (s *ReportSyncService) fetchParticipants(ctx context.Context, webinar bool, occurrenceUUID string) ([]models.RawParticipant, error) {
	useReport, err := s.client.HasScope(ctx, api.ScopesReportParticipants...)
	if err != nil {
		return nil, err
	}

	var items []api.ReportParticipant
	if useReport {
		items, err = s.client.ListMeetingParticipantsReport(ctx, occurrenceUUID, webinar)
	} else {
		useMetrics, scopeErr := s.client.HasScope(ctx, api.ScopesMetricsParticipants...)
		if scopeErr != nil {
			return nil, scopeErr
		}
		if !useMetrics {
			s.logger.WarnContext(ctx, "no participants scope granted, skipping attendee ingestion",
				"occurrence_uuid", occurrenceUUID)
			return nil, nil
		}
		items, err = s.client.ListMeetingParticipantsMetrics(ctx, occurrenceUUID, webinar)
	}
	if err != nil {
		return nil, err
	}

	raws := make([]models.RawParticipant, 0, len(items))
	for _, item := range items {
		raws = append(raws, models.RawParticipant{
			UUID:      item.ID,
			UserID:    item.UserID,
			Name:      item.Name,
			Email:     item.UserEmail,
			JoinTime:  item.JoinTime,
			LeaveTime: item.LeaveTime,
			Duration:  item.Duration,
		})
	}
	return raws, nil
}
