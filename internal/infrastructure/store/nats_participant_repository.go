// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
)

// NatsParticipantRepository is the NATS KV store repository for attendee
// rows. Rows are insert-only.
type NatsParticipantRepository struct {
	*NatsBaseRepository[models.Participant]
	keyBuilder *KeyBuilder
}

// NewNatsParticipantRepository creates a new NATS KV store repository for participants.
func NewNatsParticipantRepository(kvStore INatsKeyValue) *NatsParticipantRepository {
	return &NatsParticipantRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Participant](kvStore, "participant"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsParticipantRepository) key(occurrenceUUID, uid string) string {
	return r.keyBuilder.CompoundKeyEncoded(KeyPrefixParticipant, occurrenceUUID, uid)
}

func (r *NatsParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	if participant.UID == "" {
		participant.UID = uuid.NewString()
	}
	return r.NatsBaseRepository.Put(ctx, r.key(participant.OccurrenceUUID, participant.UID), participant)
}

func (r *NatsParticipantRepository) ListByOccurrence(ctx context.Context, occurrenceUUID string) ([]*models.Participant, error) {
	participants, err := r.ListEntitiesEncoded(ctx, "", r.keyBuilder)
	if err != nil {
		return nil, err
	}

	var matched []*models.Participant
	for _, participant := range participants {
		if participant.OccurrenceUUID == occurrenceUUID {
			matched = append(matched, participant)
		}
	}
	return matched, nil
}

// FindResolvedByZoomUUID returns a previously matched row carrying the same
// Zoom participant UUID, across all occurrences.
func (r *NatsParticipantRepository) FindResolvedByZoomUUID(ctx context.Context, zoomUserUUID string) (*models.Participant, error) {
	if zoomUserUUID == "" {
		return nil, domain.NewNotFoundError("participant with empty zoom uuid not found")
	}

	participants, err := r.ListEntitiesEncoded(ctx, "", r.keyBuilder)
	if err != nil {
		return nil, err
	}

	for _, participant := range participants {
		if participant.ZoomUserUUID == zoomUserUUID && participant.LocalUserID != nil {
			return participant, nil
		}
	}
	return nil, domain.NewNotFoundError("no resolved participant with zoom uuid '" + zoomUserUUID + "'")
}

var _ domain.ParticipantRepository = (*NatsParticipantRepository)(nil)
