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

// MeetingService owns the interactive meeting lifecycle: creating, updating
// and deleting activities against the remote API and the local store.
type MeetingService struct {
	client    api.ClientAPI
	meetings  domain.MeetingRepository
	syncState domain.SyncStateRepository
	licenses  *LicenseService
	logger    *slog.Logger
}

func NewMeetingService(
	client api.ClientAPI,
	meetings domain.MeetingRepository,
	syncState domain.SyncStateRepository,
	licenses *LicenseService,
	logger *slog.Logger,
) *MeetingService {
	return &MeetingService{
		client:    client,
		meetings:  meetings,
		syncState: syncState,
		licenses:  licenses,
		logger:    logger,
	}
}

// Create creates the remote meeting and persists the local record. A fixed
// time recurring meeting that the remote accepts but expands to zero valid
// occurrences is compensated: the partial remote object is deleted and the
// whole creation fails.
func (s *MeetingService) Create(ctx context.Context, meeting *models.Meeting) error {
	if err := s.licenses.EnsureLicensed(ctx, meeting.HostID); err != nil {
		// A host without a licensed seat can still create basic meetings.
		s.logger.WarnContext(ctx, "could not ensure host license, continuing",
			"host_id", meeting.HostID, "error", err)
	}

	configured, err := s.syncState.GetTrackingFields(ctx)
	if err != nil {
		return err
	}

	response, err := s.client.CreateMeeting(ctx, meeting.HostID, meeting.Webinar, ToZoomRequest(meeting, configured))
	if err != nil {
		return err
	}

	if meeting.HasFixedTime() && len(response.Occurrences) == 0 {
		s.logger.ErrorContext(ctx, "recurring meeting created with zero occurrences, compensating",
			"meeting_id", response.ID)
		if delErr := s.client.DeleteMeeting(ctx, response.ID, meeting.Webinar); delErr != nil {
			s.logger.ErrorContext(ctx, "compensating delete failed",
				"meeting_id", response.ID, "error", delErr)
		}
		return domain.NewBadRequestError(
			"recurring meeting expanded to zero occurrences", 0,
			"the recurrence settings produce no valid occurrences")
	}

	meeting.ID = response.ID
	meeting.HostID = response.HostID
	meeting.ExistsOnRemote = true
	if response.Password != "" {
		meeting.Password = response.Password
	}

	return s.meetings.Create(ctx, meeting)
}

// Update pushes local edits to the remote meeting and stores the new state.
func (s *MeetingService) Update(ctx context.Context, meeting *models.Meeting) error {
	_, revision, err := s.meetings.GetWithRevision(ctx, meeting.ID)
	if err != nil {
		return err
	}

	configured, err := s.syncState.GetTrackingFields(ctx)
	if err != nil {
		return err
	}

	if err := s.client.UpdateMeeting(ctx, meeting.ID, meeting.Webinar, ToZoomRequest(meeting, configured)); err != nil {
		if domain.GetErrorKind(err) != domain.ErrorKindNotFound {
			return err
		}
		s.logger.InfoContext(ctx, "meeting no longer exists remotely, updating local record only",
			"meeting_id", meeting.ID)
		meeting.ExistsOnRemote = false
	}

	return s.meetings.Update(ctx, meeting, revision)
}

// Delete removes the meeting remotely and locally. A remote meeting that is
// already gone is not an error.
func (s *MeetingService) Delete(ctx context.Context, meetingID int64) error {
	meeting, revision, err := s.meetings.GetWithRevision(ctx, meetingID)
	if err != nil {
		return err
	}

	if meeting.ExistsOnRemote {
		if err := s.client.DeleteMeeting(ctx, meetingID, meeting.Webinar); err != nil {
			if domain.GetErrorKind(err) != domain.ErrorKindNotFound {
				return err
			}
			s.logger.InfoContext(ctx, "meeting already gone remotely",
				"meeting_id", meetingID)
		}
	}

	return s.meetings.Delete(ctx, meetingID, revision)
}

// GetInvitation fetches the remote invite text for an activity.
func (s *MeetingService) GetInvitation(ctx context.Context, meetingID int64) (string, error) {
	meeting, err := s.meetings.Get(ctx, meetingID)
	if err != nil {
		return "", err
	}
	if !meeting.ExistsOnRemote {
		return "", domain.NewNotFoundError("meeting no longer exists remotely")
	}
	return s.client.GetMeetingInvitation(ctx, meetingID, meeting.Webinar)
}
