// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
	"github.com/openlms/zoom-sync-service/internal/infrastructure/zoom/api"
)

// passcode cache lifetime. Passcodes change rarely; one fetch per occurrence
// per run is the goal, not long-lived caching.
const (
	passcodeCacheTTL     = 30 * time.Minute
	passcodeCacheCleanup = time.Hour
)

// recordingLookaround is how far around "now" the discovery window reaches,
// on both the fetch and the eligibility side. Wide enough to tolerate clock
// skew and recordings that finish processing late.
const recordingLookaround = 24 * time.Hour

// RecordingSyncService discovers new cloud recordings for eligible local
// meetings and prunes local rows whose remote file disappeared.
type RecordingSyncService struct {
	client     api.ClientAPI
	meetings   domain.MeetingRepository
	recordings domain.RecordingRepository
	messages   domain.MessageBuilder
	passcodes  *gocache.Cache
	logger     *slog.Logger
	now        func() time.Time
}

func NewRecordingSyncService(
	client api.ClientAPI,
	meetings domain.MeetingRepository,
	recordings domain.RecordingRepository,
	messages domain.MessageBuilder,
	logger *slog.Logger,
) *RecordingSyncService {
	return &RecordingSyncService{
		client:     client,
		meetings:   meetings,
		recordings: recordings,
		messages:   messages,
		passcodes:  gocache.New(passcodeCacheTTL, passcodeCacheCleanup),
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes the discovery pass followed by the deletion pass.
func (s *RecordingSyncService) Run(ctx context.Context) error {
	granted, err := s.client.HasScope(ctx, api.ScopesRecordings...)
	if err != nil {
		return err
	}
	if !granted {
		s.logger.InfoContext(ctx, "recording scopes not granted, skipping recording sync")
		return nil
	}

	eligible, err := s.eligibleMeetings(ctx)
	if err != nil {
		return err
	}
	if len(eligible) == 0 {
		return nil
	}

	if err := s.discover(ctx, eligible); err != nil {
		return err
	}
	return s.pruneDeleted(ctx)
}

// eligibleMeetings returns local meetings worth a recording lookup, keyed by
// meeting id: fixed-time recurring meetings with an expected occurrence near
// now, no-fixed-time recurring meetings, and non-recurring ones whose
// scheduled end has passed.
func (s *RecordingSyncService) eligibleMeetings(ctx context.Context) (map[int64]*models.Meeting, error) {
	all, err := s.meetings.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	eligible := make(map[int64]*models.Meeting)
	for _, meeting := range all {
		if !meeting.ExistsOnRemote {
			continue
		}
		if s.worthLookup(ctx, meeting, now) {
			eligible[meeting.ID] = meeting
		}
	}
	return eligible, nil
}

// worthLookup decides whether a meeting can plausibly have a new recording in
// the discovery window. A fixed-time recurrence is expanded to check for an
// occurrence near now; a no-fixed-time recurrence has no calendar to consult.
func (s *RecordingSyncService) worthLookup(ctx context.Context, meeting *models.Meeting, now time.Time) bool {
	switch {
	case meeting.HasFixedTime():
		expected, err := meeting.ExpectedOccurrences(
			now.Add(-recordingLookaround), now.Add(recordingLookaround))
		if err != nil {
			s.logger.WarnContext(ctx, "could not expand recurrence, keeping meeting eligible",
				"meeting_id", meeting.ID, "error", err)
			return true
		}
		return len(expected) > 0
	case meeting.IsRecurring():
		return true
	default:
		return meeting.ScheduledEnd().Before(now)
	}
}

// discover fetches each host's recordings in a deliberately wide window to
// tolerate clock skew, and inserts any file not yet stored locally.
func (s *RecordingSyncService) discover(ctx context.Context, eligible map[int64]*models.Meeting) error {
	hosts := make(map[string]bool)
	for _, meeting := range eligible {
		hosts[meeting.HostID] = true
	}

	now := s.now()
	from := now.Add(-recordingLookaround)
	to := now.Add(recordingLookaround)

	for host := range hosts {
		inventories, err := s.client.ListUserRecordings(ctx, host, from, to)
		if err != nil {
			if domain.GetErrorKind(err) == domain.ErrorKindNotFound {
				s.logger.InfoContext(ctx, "host has no recordings or was deleted, skipping",
					"host_id", host)
				continue
			}
			return err
		}

		for i := range inventories {
			if err := s.ingestOccurrence(ctx, eligible, &inventories[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *RecordingSyncService) ingestOccurrence(ctx context.Context, eligible map[int64]*models.Meeting, inventory *api.MeetingRecordings) error {
	parent, ok := eligible[inventory.ID]
	if !ok {
		return nil
	}

	for _, file := range inventory.RecordingFiles {
		exists, err := s.recordings.ExistsByZoomRecordingID(ctx, inventory.UUID, file.ID)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		passcode, err := s.occurrencePasscode(ctx, inventory.UUID)
		if err != nil {
			return err
		}

		recording := &models.Recording{
			UID:             uuid.NewString(),
			MeetingID:       inventory.ID,
			OccurrenceUUID:  inventory.UUID,
			ZoomRecordingID: file.ID,
			Name:            inventory.Topic,
			PlayURL:         file.PlayURL,
			Passcode:        passcode,
			RecordingType:   file.RecordingType,
			RecordingStart:  file.RecordingStart,
			Visible:         parent.RecordingsVisible,
		}
		if err := s.recordings.Create(ctx, recording); err != nil {
			return err
		}

		if err := s.messages.SendRecordingDiscovered(ctx, recording); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish recording-discovered event",
				"recording_uid", recording.UID, "error", err)
		}
	}
	return nil
}

// occurrencePasscode fetches the recording passcode at most once per
// occurrence per run.
func (s *RecordingSyncService) occurrencePasscode(ctx context.Context, occurrenceUUID string) (string, error) {
	if cached, ok := s.passcodes.Get(occurrenceUUID); ok {
		return cached.(string), nil
	}

	settings, err := s.client.GetRecordingSettings(ctx, occurrenceUUID)
	if err != nil {
		if domain.GetErrorKind(err) == domain.ErrorKindNotFound {
			s.passcodes.SetDefault(occurrenceUUID, "")
			return "", nil
		}
		return "", err
	}

	s.passcodes.SetDefault(occurrenceUUID, settings.Password)
	return settings.Password, nil
}

// pruneDeleted re-fetches the remote file list for every occurrence with
// locally stored recordings and deletes local rows whose remote file is gone.
func (s *RecordingSyncService) pruneDeleted(ctx context.Context) error {
	stored, err := s.recordings.ListAll(ctx)
	if err != nil {
		return err
	}

	byOccurrence := make(map[string][]*models.Recording)
	for _, recording := range stored {
		byOccurrence[recording.OccurrenceUUID] = append(byOccurrence[recording.OccurrenceUUID], recording)
	}

	for occurrenceUUID, locals := range byOccurrence {
		remote, err := s.client.GetMeetingRecordings(ctx, occurrenceUUID)
		if err != nil {
			if domain.GetErrorKind(err) == domain.ErrorKindNotFound {
				s.logger.InfoContext(ctx, "occurrence recordings not found remotely, skipping",
					"occurrence_uuid", occurrenceUUID)
				continue
			}
			return err
		}

		present := make(map[string]bool, len(remote.RecordingFiles))
		for _, file := range remote.RecordingFiles {
			present[file.ID] = true
		}

		for _, local := range locals {
			if present[local.ZoomRecordingID] {
				continue
			}
			s.logger.InfoContext(ctx, "deleting recording removed remotely",
				"recording_uid", local.UID, "occurrence_uuid", occurrenceUUID)
			if err := s.recordings.Delete(ctx, local.UID); err != nil {
				return err
			}
		}
	}
	return nil
}
