// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// User type constants for the Zoom API
const (
	UserTypeBasic    = 1
	UserTypeLicensed = 2
)

// User status constants for the Zoom API
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusPending  = "pending"
)

// ZoomUser represents a user in the Zoom account.
type ZoomUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Type          int    `json:"type"`
	Status        string `json:"status"`
	LastLoginTime string `json:"last_login_time,omitempty"`
}

// Scheduler is a user allowed to schedule meetings on another user's behalf.
type Scheduler struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// MeetingSecuritySettings is the meeting_security option block of a user's
// settings, used to discover account-enforced passcode and encryption
// policy.
type MeetingSecuritySettings struct {
	MeetingSecurity struct {
		EndToEndEncryptedMeetings bool `json:"end_to_end_encrypted_meetings"`
		MeetingPassword           bool `json:"meeting_password"`
		WaitingRoom               bool `json:"waiting_room"`
		MeetingPasswordRequirement struct {
			Length                 int  `json:"length"`
			HaveLetter             bool `json:"have_letter"`
			HaveNumber             bool `json:"have_number"`
			HaveSpecialCharacter   bool `json:"have_special_character"`
			OnlyAllowNumeric       bool `json:"only_allow_numeric"`
			ConsecutiveCharactersLength int `json:"consecutive_characters_length"`
		} `json:"meeting_password_requirement"`
	} `json:"meeting_security"`
}

// ListUsers pages through the active users of the Zoom account.
func (c *Client) ListUsers(ctx context.Context) ([]ZoomUser, error) {
	query := url.Values{}
	query.Set("status", UserStatusActive)
	items, err := c.paginatedCall(ctx, "/users", query, "users")
	if err != nil {
		return nil, err
	}
	return decodePaginated[ZoomUser](items)
}

// GetUser fetches one user by id or email. Callers use the NotFound error
// kind to detect hosts whose Zoom account was deleted.
func (c *Client) GetUser(ctx context.Context, userID string) (*ZoomUser, error) {
	body, err := c.call(ctx, http.MethodGet, "/users/"+userID, nil)
	if err != nil {
		return nil, err
	}

	var user ZoomUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	return &user, nil
}

// GetUserSecuritySettings fetches the meeting_security settings block of a
// user.
func (c *Client) GetUserSecuritySettings(ctx context.Context, userID string) (*MeetingSecuritySettings, error) {
	path := fmt.Sprintf("/users/%s/settings?option=meeting_security", userID)
	body, err := c.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var settings MeetingSecuritySettings
	if err := json.Unmarshal(body, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode user settings response: %w", err)
	}
	return &settings, nil
}

// ListSchedulers fetches the users permitted to schedule on behalf of the
// given user.
func (c *Client) ListSchedulers(ctx context.Context, userID string) ([]Scheduler, error) {
	body, err := c.call(ctx, http.MethodGet, fmt.Sprintf("/users/%s/schedulers", userID), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Schedulers []Scheduler `json:"schedulers"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode schedulers response: %w", err)
	}
	return resp.Schedulers, nil
}

// UpdateUserType changes a user's license type. Used by license recycling to
// demote the least recently active licensed user to basic.
func (c *Client) UpdateUserType(ctx context.Context, userID string, userType int) error {
	request := struct {
		Type int `json:"type"`
	}{Type: userType}
	_, err := c.call(ctx, http.MethodPatch, "/users/"+userID, request)
	return err
}
