// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
)

// NatsRecordingRepository is the NATS KV store repository for the local
// cloud-recording inventory.
type NatsRecordingRepository struct {
	*NatsBaseRepository[models.Recording]
	keyBuilder *KeyBuilder
}

// NewNatsRecordingRepository creates a new NATS KV store repository for recordings.
func NewNatsRecordingRepository(kvStore INatsKeyValue) *NatsRecordingRepository {
	return &NatsRecordingRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Recording](kvStore, "recording"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsRecordingRepository) key(uid string) string {
	return r.keyBuilder.EntityKey(KeyPrefixRecording, uid)
}

func (r *NatsRecordingRepository) Create(ctx context.Context, recording *models.Recording) error {
	if recording.UID == "" {
		recording.UID = uuid.NewString()
	}
	now := time.Now().UTC()
	recording.CreatedAt = &now
	recording.UpdatedAt = &now
	return r.NatsBaseRepository.Put(ctx, r.key(recording.UID), recording)
}

func (r *NatsRecordingRepository) Delete(ctx context.Context, uid string) error {
	return r.DeleteWithoutRevision(ctx, r.key(uid))
}

func (r *NatsRecordingRepository) ListAll(ctx context.Context) ([]*models.Recording, error) {
	return r.ListEntities(ctx, KeyPrefixRecording+"/")
}

func (r *NatsRecordingRepository) ListByOccurrence(ctx context.Context, occurrenceUUID string) ([]*models.Recording, error) {
	recordings, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var matched []*models.Recording
	for _, recording := range recordings {
		if recording.OccurrenceUUID == occurrenceUUID {
			matched = append(matched, recording)
		}
	}
	return matched, nil
}

func (r *NatsRecordingRepository) ExistsByZoomRecordingID(ctx context.Context, occurrenceUUID, zoomRecordingID string) (bool, error) {
	recordings, err := r.ListByOccurrence(ctx, occurrenceUUID)
	if err != nil {
		return false, err
	}

	for _, recording := range recordings {
		if recording.ZoomRecordingID == zoomRecordingID {
			return true, nil
		}
	}
	return false, nil
}

var _ domain.RecordingRepository = (*NatsRecordingRepository)(nil)
