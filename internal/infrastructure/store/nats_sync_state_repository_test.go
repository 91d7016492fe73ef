// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/zoom-sync-service/internal/domain/models"
)

func TestSyncStateCursor(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsSyncStateRepository(NewMockKeyValue())

	// Missing cursor reads as the zero time, not an error.
	got, err := repo.GetLastCallMadeAt(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	cursor := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	require.NoError(t, repo.SetLastCallMadeAt(ctx, cursor))

	got, err = repo.GetLastCallMadeAt(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(cursor))
}

func TestSyncStateAPILimit(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsSyncStateRepository(NewMockKeyValue())

	resumeAt := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetAPILimitResumeAt(ctx, resumeAt))

	got, err := repo.GetAPILimitResumeAt(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(resumeAt))
}

func TestSyncStateTrackingFields(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsSyncStateRepository(NewMockKeyValue())

	fields, err := repo.GetTrackingFields(ctx)
	require.NoError(t, err)
	assert.Nil(t, fields)

	want := []models.TrackingField{
		{Field: "Department", IsRequired: true, IsVisible: true},
		{Field: "Cost Center", IsRequired: false, IsVisible: false},
	}
	require.NoError(t, repo.SetTrackingFields(ctx, want))

	fields, err = repo.GetTrackingFields(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, fields)
}
