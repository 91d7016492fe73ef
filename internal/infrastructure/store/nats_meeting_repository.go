// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"strconv"
	"time"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
)

// NatsMeetingRepository is the NATS KV store repository for meeting activity
// records, keyed by the Zoom meeting ID.
type NatsMeetingRepository struct {
	*NatsBaseRepository[models.Meeting]
	keyBuilder *KeyBuilder
}

// NewNatsMeetingRepository creates a new NATS KV store repository for meetings.
func NewNatsMeetingRepository(kvStore INatsKeyValue) *NatsMeetingRepository {
	return &NatsMeetingRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Meeting](kvStore, "meeting"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsMeetingRepository) key(meetingID int64) string {
	return r.keyBuilder.EntityKey(KeyPrefixMeeting, strconv.FormatInt(meetingID, 10))
}

func (r *NatsMeetingRepository) Get(ctx context.Context, meetingID int64) (*models.Meeting, error) {
	return r.NatsBaseRepository.Get(ctx, r.key(meetingID))
}

func (r *NatsMeetingRepository) GetWithRevision(ctx context.Context, meetingID int64) (*models.Meeting, uint64, error) {
	return r.NatsBaseRepository.GetWithRevision(ctx, r.key(meetingID))
}

func (r *NatsMeetingRepository) Exists(ctx context.Context, meetingID int64) (bool, error) {
	return r.NatsBaseRepository.Exists(ctx, r.key(meetingID))
}

func (r *NatsMeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	now := time.Now().UTC()
	meeting.CreatedAt = &now
	meeting.UpdatedAt = &now
	return r.NatsBaseRepository.Put(ctx, r.key(meeting.ID), meeting)
}

func (r *NatsMeetingRepository) Update(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	now := time.Now().UTC()
	meeting.UpdatedAt = &now
	return r.NatsBaseRepository.Update(ctx, r.key(meeting.ID), meeting, revision)
}

func (r *NatsMeetingRepository) Delete(ctx context.Context, meetingID int64, revision uint64) error {
	return r.NatsBaseRepository.Delete(ctx, r.key(meetingID), revision)
}

func (r *NatsMeetingRepository) ListAll(ctx context.Context) ([]*models.Meeting, error) {
	return r.ListEntities(ctx, KeyPrefixMeeting+"/")
}

var _ domain.MeetingRepository = (*NatsMeetingRepository)(nil)
