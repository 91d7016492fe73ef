// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
	"github.com/openlms/zoom-sync-service/internal/infrastructure/zoom/api"
)

// MaintenanceService bundles the housekeeping jobs: orphaned-recording
// cleanup, meeting metadata refresh and tracking-field refresh.
type MaintenanceService struct {
	client     api.ClientAPI
	meetings   domain.MeetingRepository
	recordings domain.RecordingRepository
	syncState  domain.SyncStateRepository
	logger     *slog.Logger
}

func NewMaintenanceService(
	client api.ClientAPI,
	meetings domain.MeetingRepository,
	recordings domain.RecordingRepository,
	syncState domain.SyncStateRepository,
	logger *slog.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		client:     client,
		meetings:   meetings,
		recordings: recordings,
		syncState:  syncState,
		logger:     logger,
	}
}

// RecordingCleanup deletes stored recordings whose parent activity no longer
// exists locally.
func (s *MaintenanceService) RecordingCleanup(ctx context.Context) error {
	stored, err := s.recordings.ListAll(ctx)
	if err != nil {
		return err
	}

	checked := make(map[int64]bool)
	removed := 0
	for _, recording := range stored {
		orphaned, seen := checked[recording.MeetingID]
		if !seen {
			exists, err := s.meetings.Exists(ctx, recording.MeetingID)
			if err != nil {
				return err
			}
			orphaned = !exists
			checked[recording.MeetingID] = orphaned
		}
		if !orphaned {
			continue
		}

		if err := s.recordings.Delete(ctx, recording.UID); err != nil {
			return err
		}
		removed++
	}

	s.logger.InfoContext(ctx, "recording cleanup finished",
		"scanned", len(stored), "removed", removed)
	return nil
}

// MetadataRefresh re-fetches every local meeting from the remote API, marks
// remotely deleted meetings as expired and folds back remote-side edits. A
// remotely deleted meeting is never deleted locally; its grades and reports
// must survive.
func (s *MaintenanceService) MetadataRefresh(ctx context.Context) error {
	all, err := s.meetings.ListAll(ctx)
	if err != nil {
		return err
	}

	for _, meeting := range all {
		if err := s.refreshMeeting(ctx, meeting.ID); err != nil {
			switch domain.GetErrorKind(err) {
			case domain.ErrorKindAPILimit, domain.ErrorKindRetryFailed:
				return err
			default:
				s.logger.ErrorContext(ctx, "failed to refresh meeting metadata",
					"meeting_id", meeting.ID, "error", err)
			}
		}
	}
	return nil
}

func (s *MaintenanceService) refreshMeeting(ctx context.Context, meetingID int64) error {
	meeting, revision, err := s.meetings.GetWithRevision(ctx, meetingID)
	if err != nil {
		return err
	}

	response, err := s.client.GetMeeting(ctx, meeting.ID, meeting.Webinar)
	if err != nil {
		if domain.GetErrorKind(err) == domain.ErrorKindNotFound {
			if !meeting.ExistsOnRemote {
				return nil
			}
			s.logger.InfoContext(ctx, "meeting no longer exists remotely, marking expired",
				"meeting_id", meeting.ID)
			meeting.ExistsOnRemote = false
			return s.meetings.Update(ctx, meeting, revision)
		}
		return err
	}

	changed, err := UpdateFromZoom(meeting, response)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.meetings.Update(ctx, meeting, revision)
}

// TrackingFieldRefresh replaces the cached tracking-field configuration with
// the account's current definitions.
func (s *MaintenanceService) TrackingFieldRefresh(ctx context.Context) error {
	remote, err := s.client.ListTrackingFields(ctx)
	if err != nil {
		return err
	}

	fields := make([]models.TrackingField, 0, len(remote))
	for _, field := range remote {
		fields = append(fields, models.TrackingField{
			Field:      field.Field,
			IsRequired: field.Required,
			IsVisible:  field.Visible,
		})
	}

	if err := s.syncState.SetTrackingFields(ctx, fields); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "tracking fields refreshed", "count", len(fields))
	return nil
}
