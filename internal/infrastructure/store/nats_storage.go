// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/openlms/zoom-sync-service/internal/logging"
)

// Storage aggregates every NATS KV repository the sync jobs use.
type Storage struct {
	Meetings     *NatsMeetingRepository
	Occurrences  *NatsOccurrenceRepository
	Participants *NatsParticipantRepository
	Recordings   *NatsRecordingRepository
	Enrollments  *NatsEnrollmentRepository
	Grades       *NatsGradeRepository
	JoinAudit    *NatsJoinAuditRepository
	SyncState    *NatsSyncStateRepository
}

// NewStorage opens (creating if needed) every KV bucket and wires the
// repositories.
func NewStorage(ctx context.Context, js jetstream.JetStream) (*Storage, error) {
	buckets := map[string]jetstream.KeyValue{}
	for _, name := range []string{
		KVStoreNameMeetings,
		KVStoreNameOccurrences,
		KVStoreNameParticipants,
		KVStoreNameRecordings,
		KVStoreNameEnrollments,
		KVStoreNameGrades,
		KVStoreNameJoinAudit,
		KVStoreNameSyncState,
	} {
		kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: name})
		if err != nil {
			slog.ErrorContext(ctx, "error opening NATS KV bucket", logging.ErrKey, err, "bucket", name)
			return nil, fmt.Errorf("failed to open KV bucket %q: %w", name, err)
		}
		buckets[name] = kv
	}

	return &Storage{
		Meetings:     NewNatsMeetingRepository(buckets[KVStoreNameMeetings]),
		Occurrences:  NewNatsOccurrenceRepository(buckets[KVStoreNameOccurrences]),
		Participants: NewNatsParticipantRepository(buckets[KVStoreNameParticipants]),
		Recordings:   NewNatsRecordingRepository(buckets[KVStoreNameRecordings]),
		Enrollments:  NewNatsEnrollmentRepository(buckets[KVStoreNameEnrollments]),
		Grades:       NewNatsGradeRepository(buckets[KVStoreNameGrades]),
		JoinAudit:    NewNatsJoinAuditRepository(buckets[KVStoreNameJoinAudit]),
		SyncState:    NewNatsSyncStateRepository(buckets[KVStoreNameSyncState]),
	}, nil
}
