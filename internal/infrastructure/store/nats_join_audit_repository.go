// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"strconv"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
)

// NatsJoinAuditRepository reads the join-link click trail the host LMS
// mirrors into NATS KV under "join/<meeting-id>/<user-id>".
type NatsJoinAuditRepository struct {
	*NatsBaseRepository[models.JoinEvent]
	keyBuilder *KeyBuilder
}

// NewNatsJoinAuditRepository creates a new NATS KV store repository for join events.
func NewNatsJoinAuditRepository(kvStore INatsKeyValue) *NatsJoinAuditRepository {
	return &NatsJoinAuditRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.JoinEvent](kvStore, "join event"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsJoinAuditRepository) ListJoinClicks(ctx context.Context, meetingID int64) ([]*models.JoinEvent, error) {
	prefix := r.keyBuilder.CompoundKey(KeyPrefixJoin, strconv.FormatInt(meetingID, 10)) + "/"
	return r.ListEntities(ctx, prefix)
}

var _ domain.JoinAuditRepository = (*NatsJoinAuditRepository)(nil)
