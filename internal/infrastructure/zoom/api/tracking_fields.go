// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TrackingFieldResponse is one account-wide tracking field definition.
type TrackingFieldResponse struct {
	ID       string `json:"id"`
	Field    string `json:"field"`
	Required bool   `json:"required"`
	Visible  bool   `json:"visible"`
}

// ListTrackingFields fetches the account's tracking field definitions. The
// endpoint is not paginated.
func (c *Client) ListTrackingFields(ctx context.Context) ([]TrackingFieldResponse, error) {
	body, err := c.call(ctx, http.MethodGet, "/tracking_fields", nil)
	if err != nil {
		return nil, err
	}

	var response struct {
		TotalRecords   int                     `json:"total_records"`
		TrackingFields []TrackingFieldResponse `json:"tracking_fields"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode tracking fields response: %w", err)
	}
	return response.TrackingFields, nil
}
