// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/openlms/zoom-sync-service/internal/domain/models"
)

// MessageBuilder publishes sync events for downstream consumers (the host
// LMS indexer, dashboards). Publishing is best-effort; failures are logged
// and never abort a sync run.
type MessageBuilder interface {
	SendOccurrenceProcessed(ctx context.Context, occurrence *models.Occurrence) error
	SendGradesApplied(ctx context.Context, meetingID int64, userIDs []int64) error
	SendRecordingDiscovered(ctx context.Context, recording *models.Recording) error
}

// Message represents an inbound command message.
type Message interface {
	Subject() string
	Data() []byte
	Respond(data []byte) error
	HasReply() bool
}

// MessageHandler defines how the service handles incoming messages.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
}
