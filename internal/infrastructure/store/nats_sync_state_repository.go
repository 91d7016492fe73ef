// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
	"github.com/openlms/zoom-sync-service/internal/logging"
)

// Sync-state slot keys. One shared slot each per deployment.
const (
	keyLastCallMadeAt   = "report/last-call-made-at"
	keyAPILimitResumeAt = "api-limit/resume-at"
	keyTrackingFields   = "config/tracking-fields"
)

// NatsSyncStateRepository holds the shared sync state: the report cursor,
// the daily API-limit resume timestamp and the tracking-field configuration.
type NatsSyncStateRepository struct {
	kvStore INatsKeyValue
}

// NewNatsSyncStateRepository creates a new NATS KV store repository for sync state.
func NewNatsSyncStateRepository(kvStore INatsKeyValue) *NatsSyncStateRepository {
	return &NatsSyncStateRepository{kvStore: kvStore}
}

// IsReady checks if the repository is ready for use
func (r *NatsSyncStateRepository) IsReady() bool {
	return r.kvStore != nil
}

// getTime reads one timestamp slot. A missing slot is not an error; it
// returns the zero time.
func (r *NatsSyncStateRepository) getTime(ctx context.Context, key string) (time.Time, error) {
	if !r.IsReady() {
		return time.Time{}, domain.NewUnavailableError("sync state repository is not available")
	}

	entry, err := r.kvStore.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return time.Time{}, nil
		}
		slog.ErrorContext(ctx, "error reading sync state from NATS KV", logging.ErrKey, err, "key", key)
		return time.Time{}, domain.NewInternalError("failed to read sync state", err)
	}

	t, err := time.Parse(time.RFC3339, string(entry.Value()))
	if err != nil {
		return time.Time{}, domain.NewInternalError("sync state slot holds an invalid timestamp", err)
	}
	return t, nil
}

func (r *NatsSyncStateRepository) setTime(ctx context.Context, key string, t time.Time) error {
	if !r.IsReady() {
		return domain.NewUnavailableError("sync state repository is not available")
	}

	if _, err := r.kvStore.Put(ctx, key, []byte(t.UTC().Format(time.RFC3339))); err != nil {
		slog.ErrorContext(ctx, "error writing sync state to NATS KV", logging.ErrKey, err, "key", key)
		return domain.NewInternalError("failed to write sync state", err)
	}
	return nil
}

func (r *NatsSyncStateRepository) GetLastCallMadeAt(ctx context.Context) (time.Time, error) {
	return r.getTime(ctx, keyLastCallMadeAt)
}

func (r *NatsSyncStateRepository) SetLastCallMadeAt(ctx context.Context, t time.Time) error {
	return r.setTime(ctx, keyLastCallMadeAt, t)
}

func (r *NatsSyncStateRepository) GetAPILimitResumeAt(ctx context.Context) (time.Time, error) {
	return r.getTime(ctx, keyAPILimitResumeAt)
}

func (r *NatsSyncStateRepository) SetAPILimitResumeAt(ctx context.Context, t time.Time) error {
	return r.setTime(ctx, keyAPILimitResumeAt, t)
}

func (r *NatsSyncStateRepository) GetTrackingFields(ctx context.Context) ([]models.TrackingField, error) {
	if !r.IsReady() {
		return nil, domain.NewUnavailableError("sync state repository is not available")
	}

	entry, err := r.kvStore.Get(ctx, keyTrackingFields)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, nil
		}
		slog.ErrorContext(ctx, "error reading tracking fields from NATS KV", logging.ErrKey, err)
		return nil, domain.NewInternalError("failed to read tracking fields", err)
	}

	var fields []models.TrackingField
	if err := json.Unmarshal(entry.Value(), &fields); err != nil {
		return nil, domain.NewInternalError("failed to unmarshal tracking fields", err)
	}
	return fields, nil
}

func (r *NatsSyncStateRepository) SetTrackingFields(ctx context.Context, fields []models.TrackingField) error {
	if !r.IsReady() {
		return domain.NewUnavailableError("sync state repository is not available")
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return domain.NewInternalError("failed to marshal tracking fields", err)
	}

	if _, err := r.kvStore.Put(ctx, keyTrackingFields, data); err != nil {
		slog.ErrorContext(ctx, "error writing tracking fields to NATS KV", logging.ErrKey, err)
		return domain.NewInternalError("failed to write tracking fields", err)
	}
	return nil
}

var _ domain.SyncStateRepository = (*NatsSyncStateRepository)(nil)
