// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
	"github.com/openlms/zoom-sync-service/pkg/fuzzy"
)

// embeddedIDPattern recognizes display names of the form "(12345)Jane Doe"
// that the join launcher embeds when the account allows renaming.
var embeddedIDPattern = regexp.MustCompile(`^\((\d+)\)(.+)$`)

// CleanName undoes the display-name sanitization applied at join time, where
// characters the meeting client rejects are swapped for '#'.
func CleanName(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(name, "#", ","))
}

// ParseEmbeddedID extracts a local user id embedded in a display name.
// Returns (0, name, false) when no id is embedded.
func ParseEmbeddedID(name string) (int64, string, bool) {
	groups := embeddedIDPattern.FindStringSubmatch(name)
	if groups == nil {
		return 0, name, false
	}
	id, err := strconv.ParseInt(groups[1], 10, 64)
	if err != nil {
		return 0, name, false
	}
	return id, strings.TrimSpace(groups[2]), true
}

// Matcher resolves report participants to local user accounts. Each rung of
// the ladder is strictly weaker evidence than the one above it, so the first
// hit wins and the walk stops.
type Matcher struct {
	participants domain.ParticipantRepository
	enrollments  domain.EnrollmentRepository
	logger       *slog.Logger
}

func NewMatcher(participants domain.ParticipantRepository, enrollments domain.EnrollmentRepository, logger *slog.Logger) *Matcher {
	return &Matcher{
		participants: participants,
		enrollments:  enrollments,
		logger:       logger,
	}
}

// MatchResult carries the outcome of one resolution attempt. UserID is nil
// when no rung produced a confident match.
type MatchResult struct {
	UserID *int64
	Name   string
	Method string
}

// Match methods, recorded on the result for audit logging.
const (
	MatchMethodEmbeddedID = "embedded_id"
	MatchMethodPriorUUID  = "prior_uuid"
	MatchMethodEmail      = "enrolled_email"
	MatchMethodName       = "enrolled_name"
	MatchMethodGlobal     = "global_email"
	MatchMethodFuzzy      = "fuzzy_name"
	MatchMethodNone       = "unmatched"
)

// Match walks the resolution ladder for one raw participant of a meeting
// belonging to courseID. Repository errors other than not-found abort the
// walk; not-found simply moves to the next rung.
func (m *Matcher) Match(ctx context.Context, courseID string, raw *models.RawParticipant) (*MatchResult, error) {
	name := CleanName(raw.Name)

	if id, stripped, ok := ParseEmbeddedID(name); ok {
		return &MatchResult{UserID: &id, Name: stripped, Method: MatchMethodEmbeddedID}, nil
	}

	if raw.UUID != "" {
		prior, err := m.participants.FindResolvedByZoomUUID(ctx, raw.UUID)
		if err == nil && prior.LocalUserID != nil {
			// Reuse the previously resolved name too, so a rename between
			// sessions does not split the identity across rows.
			id := *prior.LocalUserID
			return &MatchResult{UserID: &id, Name: prior.Name, Method: MatchMethodPriorUUID}, nil
		}
		if err != nil && domain.GetErrorKind(err) != domain.ErrorKindNotFound {
			return nil, err
		}
	}

	roster, err := m.enrollments.ListEnrolled(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if raw.Email != "" {
		for _, user := range roster {
			if strings.EqualFold(user.Email, raw.Email) {
				id := user.ID
				return &MatchResult{UserID: &id, Name: name, Method: MatchMethodEmail}, nil
			}
		}
	}

	for _, user := range roster {
		if strings.EqualFold(user.FullName, name) {
			id := user.ID
			return &MatchResult{UserID: &id, Name: name, Method: MatchMethodName}, nil
		}
	}

	if raw.Email != "" {
		global, err := m.enrollments.FindGlobalByEmail(ctx, raw.Email)
		if err == nil {
			id := global.ID
			return &MatchResult{UserID: &id, Name: name, Method: MatchMethodGlobal}, nil
		}
		if domain.GetErrorKind(err) != domain.ErrorKindNotFound {
			return nil, err
		}
	}

	pool := make([]string, 0, len(roster))
	for _, user := range roster {
		pool = append(pool, user.FullName)
	}
	if best, ok := fuzzy.BestMatch(name, pool); ok {
		for _, user := range roster {
			if user.FullName == best {
				m.logger.DebugContext(ctx, "fuzzy-matched participant",
					"participant_name", name,
					"roster_name", best,
				)
				id := user.ID
				return &MatchResult{UserID: &id, Name: name, Method: MatchMethodFuzzy}, nil
			}
		}
	}

	return &MatchResult{Name: name, Method: MatchMethodNone}, nil
}
