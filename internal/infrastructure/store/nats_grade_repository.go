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

// NatsGradeRepository is the NATS KV store repository for attendance grades,
// keyed by meeting and user.
type NatsGradeRepository struct {
	*NatsBaseRepository[models.ActivityGrade]
	keyBuilder *KeyBuilder
}

// NewNatsGradeRepository creates a new NATS KV store repository for grades.
func NewNatsGradeRepository(kvStore INatsKeyValue) *NatsGradeRepository {
	return &NatsGradeRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.ActivityGrade](kvStore, "grade"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsGradeRepository) key(meetingID, userID int64) string {
	return r.keyBuilder.CompoundKey(KeyPrefixGrade,
		strconv.FormatInt(meetingID, 10), strconv.FormatInt(userID, 10))
}

func (r *NatsGradeRepository) Get(ctx context.Context, meetingID, userID int64) (*models.ActivityGrade, error) {
	return r.NatsBaseRepository.Get(ctx, r.key(meetingID, userID))
}

func (r *NatsGradeRepository) Put(ctx context.Context, grade *models.ActivityGrade) error {
	now := time.Now().UTC()
	grade.UpdatedAt = &now
	return r.NatsBaseRepository.Put(ctx, r.key(grade.MeetingID, grade.UserID), grade)
}

var _ domain.GradeRepository = (*NatsGradeRepository)(nil)
