// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
	"github.com/openlms/zoom-sync-service/internal/logging"
	"github.com/openlms/zoom-sync-service/pkg/constants"
)

// INatsConn is the NATS connection interface the message builder needs.
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder builds sync event messages and sends them to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// sendMessage sends the message to the NATS server.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// OccurrenceProcessedMessage is the payload published after an occurrence has
// been reconciled.
type OccurrenceProcessedMessage struct {
	OccurrenceUUID   string    `json:"occurrence_uuid"`
	MeetingID        int64     `json:"meeting_id"`
	Topic            string    `json:"topic"`
	EndTime          time.Time `json:"end_time"`
	ParticipantCount int       `json:"participant_count"`
}

// GradesAppliedMessage is the payload published after a grading run wrote at
// least one grade.
type GradesAppliedMessage struct {
	MeetingID int64   `json:"meeting_id"`
	UserIDs   []int64 `json:"user_ids"`
}

// RecordingDiscoveredMessage is the payload published when a new cloud
// recording entered the local inventory.
type RecordingDiscoveredMessage struct {
	RecordingUID   string `json:"recording_uid"`
	MeetingID      int64  `json:"meeting_id"`
	OccurrenceUUID string `json:"occurrence_uuid"`
	Name           string `json:"name"`
	PlayURL        string `json:"play_url"`
}

// SendOccurrenceProcessed publishes that an occurrence finished reconciliation.
func (m *MessageBuilder) SendOccurrenceProcessed(ctx context.Context, occurrence *models.Occurrence) error {
	message := OccurrenceProcessedMessage{
		OccurrenceUUID:   occurrence.UUID,
		MeetingID:        occurrence.MeetingID,
		Topic:            occurrence.Topic,
		EndTime:          occurrence.EndTime,
		ParticipantCount: occurrence.ParticipantCount,
	}

	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, constants.OccurrenceProcessedSubject, data)
}

// SendGradesApplied publishes which users received a grade for a meeting.
func (m *MessageBuilder) SendGradesApplied(ctx context.Context, meetingID int64, userIDs []int64) error {
	data, err := json.Marshal(GradesAppliedMessage{MeetingID: meetingID, UserIDs: userIDs})
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, constants.GradesAppliedSubject, data)
}

// SendRecordingDiscovered publishes a newly discovered cloud recording.
func (m *MessageBuilder) SendRecordingDiscovered(ctx context.Context, recording *models.Recording) error {
	message := RecordingDiscoveredMessage{
		RecordingUID:   recording.UID,
		MeetingID:      recording.MeetingID,
		OccurrenceUUID: recording.OccurrenceUUID,
		Name:           recording.Name,
		PlayURL:        recording.PlayURL,
	}

	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, constants.RecordingDiscoveredSubject, data)
}

var _ domain.MessageBuilder = (*MessageBuilder)(nil)
