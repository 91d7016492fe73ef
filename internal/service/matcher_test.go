// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/mocks"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
	"github.com/openlms/zoom-sync-service/pkg/utils"
)

func newTestMatcher() (*Matcher, *mocks.MockParticipantRepository, *mocks.MockEnrollmentRepository) {
	participants := &mocks.MockParticipantRepository{}
	enrollments := &mocks.MockEnrollmentRepository{}
	return NewMatcher(participants, enrollments, slog.Default()), participants, enrollments
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Doe, Jane", CleanName("Doe# Jane"))
	assert.Equal(t, "Jane Doe", CleanName("  Jane Doe "))
}

func TestParseEmbeddedID(t *testing.T) {
	id, name, ok := ParseEmbeddedID("(4711)Jane Doe")
	require.True(t, ok)
	assert.Equal(t, int64(4711), id)
	assert.Equal(t, "Jane Doe", name)

	_, name, ok = ParseEmbeddedID("Jane Doe")
	assert.False(t, ok)
	assert.Equal(t, "Jane Doe", name)

	// Parenthesized text without digits is just a name.
	_, _, ok = ParseEmbeddedID("(Dr.)Jane Doe")
	assert.False(t, ok)
}

func TestMatchEmbeddedIDWinsWithoutLookups(t *testing.T) {
	matcher, _, _ := newTestMatcher()

	result, err := matcher.Match(context.Background(), "course-1", &models.RawParticipant{Name: "(42)Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), utils.Int64Value(result.UserID))
	assert.Equal(t, "Jane Doe", result.Name)
	assert.Equal(t, MatchMethodEmbeddedID, result.Method)
}

func TestMatchPriorUUIDReuse(t *testing.T) {
	matcher, participants, _ := newTestMatcher()
	participants.On("FindResolvedByZoomUUID", mock.Anything, "zoom-uuid-1").Return(
		&models.Participant{ZoomUserUUID: "zoom-uuid-1", LocalUserID: utils.Int64Ptr(7), Name: "Jane Doe"}, nil)

	result, err := matcher.Match(context.Background(), "course-1", &models.RawParticipant{
		UUID: "zoom-uuid-1",
		Name: "Renamed Beyond Recognition",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), utils.Int64Value(result.UserID))
	assert.Equal(t, MatchMethodPriorUUID, result.Method)
	// The previously resolved name wins over the renamed one, keeping the
	// identity stable across repeated fetches.
	assert.Equal(t, "Jane Doe", result.Name)
}

func TestMatchEnrolledEmailCaseInsensitive(t *testing.T) {
	matcher, participants, enrollments := newTestMatcher()
	participants.On("FindResolvedByZoomUUID", mock.Anything, mock.Anything).Return(
		nil, domain.NewNotFoundError("no prior match"))
	enrollments.On("ListEnrolled", mock.Anything, "course-1").Return([]*models.LocalUser{
		{ID: 1, FullName: "Jane Doe", Email: "jane@example.edu"},
		{ID: 2, FullName: "John Roe", Email: "john@example.edu"},
	}, nil)

	result, err := matcher.Match(context.Background(), "course-1", &models.RawParticipant{
		UUID:  "uuid-x",
		Name:  "J. D.",
		Email: "JANE@Example.edu",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), utils.Int64Value(result.UserID))
	assert.Equal(t, MatchMethodEmail, result.Method)
}

func TestMatchEnrolledNameExact(t *testing.T) {
	matcher, _, enrollments := newTestMatcher()
	enrollments.On("ListEnrolled", mock.Anything, "course-1").Return([]*models.LocalUser{
		{ID: 1, FullName: "Jane Doe", Email: "jane@example.edu"},
	}, nil)

	result, err := matcher.Match(context.Background(), "course-1", &models.RawParticipant{Name: "jane doe"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), utils.Int64Value(result.UserID))
	assert.Equal(t, MatchMethodName, result.Method)
}

func TestMatchGlobalEmailFallback(t *testing.T) {
	matcher, _, enrollments := newTestMatcher()
	enrollments.On("ListEnrolled", mock.Anything, "course-1").Return([]*models.LocalUser{
		{ID: 1, FullName: "Jane Doe", Email: "jane@example.edu"},
	}, nil)
	enrollments.On("FindGlobalByEmail", mock.Anything, "guest@example.edu").Return(
		&models.LocalUser{ID: 99, FullName: "Guest Lecturer", Email: "guest@example.edu"}, nil)

	result, err := matcher.Match(context.Background(), "course-1", &models.RawParticipant{
		Name:  "Guest",
		Email: "guest@example.edu",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(99), utils.Int64Value(result.UserID))
	assert.Equal(t, MatchMethodGlobal, result.Method)
}

func TestMatchFuzzyNeedsCorroboration(t *testing.T) {
	matcher, _, enrollments := newTestMatcher()
	enrollments.On("ListEnrolled", mock.Anything, "course-1").Return([]*models.LocalUser{
		{ID: 1, FullName: "Jane Doe", Email: "jane@example.edu"},
		{ID: 2, FullName: "Marcus Aurelius", Email: "marcus@example.edu"},
		{ID: 3, FullName: "Xiulan Zhang", Email: "xiulan@example.edu"},
	}, nil)

	result, err := matcher.Match(context.Background(), "course-1", &models.RawParticipant{Name: "Jane Do"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), utils.Int64Value(result.UserID))
	assert.Equal(t, MatchMethodFuzzy, result.Method)
}

func TestMatchFuzzySkippedForSmallRoster(t *testing.T) {
	matcher, _, enrollments := newTestMatcher()
	enrollments.On("ListEnrolled", mock.Anything, "course-1").Return([]*models.LocalUser{
		{ID: 1, FullName: "Jane Doe", Email: "jane@example.edu"},
		{ID: 2, FullName: "John Roe", Email: "john@example.edu"},
	}, nil)

	result, err := matcher.Match(context.Background(), "course-1", &models.RawParticipant{Name: "Jane Do"})
	require.NoError(t, err)
	assert.Nil(t, result.UserID)
	assert.Equal(t, MatchMethodNone, result.Method)
}

func TestMatchUnmatched(t *testing.T) {
	matcher, _, enrollments := newTestMatcher()
	enrollments.On("ListEnrolled", mock.Anything, "course-1").Return([]*models.LocalUser{
		{ID: 1, FullName: "Jane Doe", Email: "jane@example.edu"},
		{ID: 2, FullName: "John Roe", Email: "john@example.edu"},
		{ID: 3, FullName: "Xiulan Zhang", Email: "xiulan@example.edu"},
	}, nil)

	result, err := matcher.Match(context.Background(), "course-1", &models.RawParticipant{Name: "Completely Unknown"})
	require.NoError(t, err)
	assert.Nil(t, result.UserID)
	assert.Equal(t, "Completely Unknown", result.Name)
	assert.Equal(t, MatchMethodNone, result.Method)
}
