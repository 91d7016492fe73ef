// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// RecordingFile is one cloud recording file of an occurrence.
type RecordingFile struct {
	ID             string    `json:"id"`
	MeetingID      string    `json:"meeting_id"`
	RecordingStart time.Time `json:"recording_start"`
	RecordingEnd   time.Time `json:"recording_end"`
	RecordingType  string    `json:"recording_type"`
	FileType       string    `json:"file_type"`
	PlayURL        string    `json:"play_url"`
	DownloadURL    string    `json:"download_url"`
	Status         string    `json:"status"`
}

// MeetingRecordings is the recording inventory of one occurrence.
type MeetingRecordings struct {
	UUID           string          `json:"uuid"`
	ID             int64           `json:"id"`
	Topic          string          `json:"topic"`
	StartTime      time.Time       `json:"start_time"`
	Password       string          `json:"password"`
	RecordingFiles []RecordingFile `json:"recording_files"`
}

// RecordingSettings is the settings object of an occurrence's recordings;
// the passcode lives here.
type RecordingSettings struct {
	Password       string `json:"password"`
	ShareRecording string `json:"share_recording"`
}

// GetMeetingRecordings fetches the recording file list of one occurrence.
func (c *Client) GetMeetingRecordings(ctx context.Context, occurrenceUUID string) (*MeetingRecordings, error) {
	path := fmt.Sprintf("/meetings/%s/recordings", EncodeMeetingUUID(occurrenceUUID))
	body, err := c.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var recordings MeetingRecordings
	if err := json.Unmarshal(body, &recordings); err != nil {
		return nil, fmt.Errorf("failed to decode recordings response: %w", err)
	}
	return &recordings, nil
}

// GetRecordingSettings fetches the recording settings (passcode) of one
// occurrence.
func (c *Client) GetRecordingSettings(ctx context.Context, occurrenceUUID string) (*RecordingSettings, error) {
	path := fmt.Sprintf("/meetings/%s/recordings/settings", EncodeMeetingUUID(occurrenceUUID))
	body, err := c.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var settings RecordingSettings
	if err := json.Unmarshal(body, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode recording settings response: %w", err)
	}
	return &settings, nil
}

// ListUserRecordings pages through a host's cloud recordings within
// [from, to].
func (c *Client) ListUserRecordings(ctx context.Context, userID string, from, to time.Time) ([]MeetingRecordings, error) {
	query := url.Values{}
	query.Set("from", from.UTC().Format(dateFormat))
	query.Set("to", to.UTC().Format(dateFormat))

	path := fmt.Sprintf("/users/%s/recordings", userID)
	items, err := c.paginatedCall(ctx, path, query, "meetings")
	if err != nil {
		return nil, err
	}
	return decodePaginated[MeetingRecordings](items)
}
