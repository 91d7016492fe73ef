// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"strconv"
	"strings"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
)

// NatsEnrollmentRepository reads the host LMS user directory mirrored into
// NATS KV: per-course rosters under "roster/<course>/<user-id>" and the
// global directory under "user/<email>" (encoded).
type NatsEnrollmentRepository struct {
	*NatsBaseRepository[models.LocalUser]
	keyBuilder *KeyBuilder
}

// NewNatsEnrollmentRepository creates a new NATS KV store repository for enrollments.
func NewNatsEnrollmentRepository(kvStore INatsKeyValue) *NatsEnrollmentRepository {
	return &NatsEnrollmentRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.LocalUser](kvStore, "enrollment"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsEnrollmentRepository) ListEnrolled(ctx context.Context, courseID string) ([]*models.LocalUser, error) {
	prefix := r.keyBuilder.CompoundKey(KeyPrefixRoster, courseID) + "/"
	return r.ListEntities(ctx, prefix)
}

func (r *NatsEnrollmentRepository) FindGlobalByEmail(ctx context.Context, email string) (*models.LocalUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.NewNotFoundError("user with empty email not found")
	}
	return r.NatsBaseRepository.Get(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixUser, email))
}

// PutEnrollment mirrors one roster row, used by the enrollment import feed.
func (r *NatsEnrollmentRepository) PutEnrollment(ctx context.Context, courseID string, user *models.LocalUser) error {
	key := r.keyBuilder.CompoundKey(KeyPrefixRoster, courseID, strconv.FormatInt(user.ID, 10))
	if err := r.NatsBaseRepository.Put(ctx, key, user); err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(user.Email))
	if email == "" {
		return nil
	}
	return r.NatsBaseRepository.Put(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixUser, email), user)
}

var _ domain.EnrollmentRepository = (*NatsEnrollmentRepository)(nil)
