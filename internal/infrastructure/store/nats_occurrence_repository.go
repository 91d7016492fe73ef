// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"time"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
)

// NatsOccurrenceRepository is the NATS KV store repository for ended meeting
// occurrences. Keys are encoded because Zoom occurrence UUIDs carry
// characters NATS KV keys do not allow.
type NatsOccurrenceRepository struct {
	*NatsBaseRepository[models.Occurrence]
	keyBuilder *KeyBuilder
}

// NewNatsOccurrenceRepository creates a new NATS KV store repository for occurrences.
func NewNatsOccurrenceRepository(kvStore INatsKeyValue) *NatsOccurrenceRepository {
	return &NatsOccurrenceRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Occurrence](kvStore, "occurrence"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsOccurrenceRepository) key(uuid string) string {
	return r.keyBuilder.EntityKeyEncoded(KeyPrefixOccurrence, uuid)
}

func (r *NatsOccurrenceRepository) Get(ctx context.Context, uuid string) (*models.Occurrence, error) {
	return r.NatsBaseRepository.Get(ctx, r.key(uuid))
}

func (r *NatsOccurrenceRepository) GetWithRevision(ctx context.Context, uuid string) (*models.Occurrence, uint64, error) {
	return r.NatsBaseRepository.GetWithRevision(ctx, r.key(uuid))
}

func (r *NatsOccurrenceRepository) Create(ctx context.Context, occurrence *models.Occurrence) error {
	now := time.Now().UTC()
	occurrence.CreatedAt = &now
	occurrence.UpdatedAt = &now
	return r.NatsBaseRepository.Put(ctx, r.key(occurrence.UUID), occurrence)
}

func (r *NatsOccurrenceRepository) Update(ctx context.Context, occurrence *models.Occurrence, revision uint64) error {
	now := time.Now().UTC()
	occurrence.UpdatedAt = &now
	return r.NatsBaseRepository.Update(ctx, r.key(occurrence.UUID), occurrence, revision)
}

func (r *NatsOccurrenceRepository) ListByMeeting(ctx context.Context, meetingID int64) ([]*models.Occurrence, error) {
	occurrences, err := r.ListEntitiesEncoded(ctx, "", r.keyBuilder)
	if err != nil {
		return nil, err
	}

	var matched []*models.Occurrence
	for _, occurrence := range occurrences {
		if occurrence.MeetingID == meetingID {
			matched = append(matched, occurrence)
		}
	}
	return matched, nil
}

var _ domain.OccurrenceRepository = (*NatsOccurrenceRepository)(nil)
