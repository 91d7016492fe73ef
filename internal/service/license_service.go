// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/infrastructure/zoom/api"
)

// LicenseConfig controls license recycling. With Recycle off the service is
// a no-op and meeting creation proceeds with whatever license the host has.
type LicenseConfig struct {
	Recycle         bool
	LicenseCount    int
	ProtectedGroups []string
}

// LicenseService frees up and assigns Zoom licenses so meeting hosts can
// schedule. Accounts have a fixed licensed-seat count; when all seats are
// taken the least recently active licensed user is demoted to basic.
type LicenseService struct {
	client api.ClientAPI
	config LicenseConfig
	logger *slog.Logger
}

func NewLicenseService(client api.ClientAPI, config LicenseConfig, logger *slog.Logger) *LicenseService {
	return &LicenseService{
		client: client,
		config: config,
		logger: logger,
	}
}

// EnsureLicensed makes sure the host holds a licensed seat before a meeting
// is created on their account.
func (s *LicenseService) EnsureLicensed(ctx context.Context, hostID string) error {
	if !s.config.Recycle {
		return nil
	}

	host, err := s.client.GetUser(ctx, hostID)
	if err != nil {
		return err
	}
	if host.Type == api.UserTypeLicensed {
		return nil
	}

	users, err := s.client.ListUsers(ctx)
	if err != nil {
		return err
	}

	licensed := 0
	for _, user := range users {
		if user.Type == api.UserTypeLicensed {
			licensed++
		}
	}

	if licensed >= s.config.LicenseCount {
		victim := s.demotionCandidate(users)
		if victim == nil {
			return domain.NewConfigurationError(
				"all licensed seats are taken by protected users, cannot recycle a license")
		}
		s.logger.InfoContext(ctx, "recycling license",
			"from_user", victim.ID, "to_user", hostID, "last_login", victim.LastLoginTime)
		if err := s.client.UpdateUserType(ctx, victim.ID, api.UserTypeBasic); err != nil {
			return err
		}
	}

	return s.client.UpdateUserType(ctx, hostID, api.UserTypeLicensed)
}

// demotionCandidate picks the licensed user with the oldest last login,
// skipping protected accounts. Users who never logged in sort first.
func (s *LicenseService) demotionCandidate(users []api.ZoomUser) *api.ZoomUser {
	protected := make(map[string]bool, len(s.config.ProtectedGroups))
	for _, id := range s.config.ProtectedGroups {
		protected[id] = true
	}

	var candidate *api.ZoomUser
	var candidateLogin time.Time
	haveCandidate := false

	for i := range users {
		user := &users[i]
		if user.Type != api.UserTypeLicensed || protected[user.ID] || protected[user.Email] {
			continue
		}

		login, err := time.Parse(time.RFC3339, user.LastLoginTime)
		if err != nil {
			// No parseable login time means never seen: demote first.
			login = time.Time{}
		}

		if !haveCandidate || login.Before(candidateLogin) {
			candidate, candidateLogin, haveCandidate = user, login, true
		}
	}
	return candidate
}
