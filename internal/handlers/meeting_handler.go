// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

// Package handlers dispatches inbound NATS command messages from the host
// LMS to the meeting lifecycle service.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
	"github.com/openlms/zoom-sync-service/internal/logging"
	"github.com/openlms/zoom-sync-service/internal/service"
	"github.com/openlms/zoom-sync-service/pkg/constants"
)

// MeetingHandler handles meeting lifecycle command messages.
type MeetingHandler struct {
	meetingService *service.MeetingService
}

func NewMeetingHandler(meetingService *service.MeetingService) *MeetingHandler {
	return &MeetingHandler{
		meetingService: meetingService,
	}
}

// Subjects lists the command subjects this handler serves.
func (h *MeetingHandler) Subjects() []string {
	return []string{
		constants.MeetingCreateSubject,
		constants.MeetingUpdateSubject,
		constants.MeetingDeleteSubject,
		constants.MeetingInvitationSubject,
	}
}

// HandleMessage implements domain.MessageHandler.
func (h *MeetingHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling NATS message")

	handlers := map[string]func(ctx context.Context, msg domain.Message) ([]byte, error){
		constants.MeetingCreateSubject:     h.HandleMeetingCreate,
		constants.MeetingUpdateSubject:     h.HandleMeetingUpdate,
		constants.MeetingDeleteSubject:     h.HandleMeetingDelete,
		constants.MeetingInvitationSubject: h.HandleMeetingInvitation,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		h.respond(ctx, msg, nil)
		return
	}

	response, err := handler(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error handling message", logging.ErrKey, err)
		h.respond(ctx, msg, nil)
		return
	}

	h.respond(ctx, msg, response)
}

func (h *MeetingHandler) respond(ctx context.Context, msg domain.Message, response []byte) {
	if !msg.HasReply() {
		slog.DebugContext(ctx, "handled NATS message (no reply expected)")
		return
	}
	if err := msg.Respond(response); err != nil {
		slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
	}
}

// HandleMeetingCreate is the message handler for the meeting-create subject.
// The payload is the local activity record; the reply is the record with the
// assigned remote identity.
func (h *MeetingHandler) HandleMeetingCreate(ctx context.Context, msg domain.Message) ([]byte, error) {
	var meeting models.Meeting
	if err := json.Unmarshal(msg.Data(), &meeting); err != nil {
		slog.ErrorContext(ctx, "error unmarshaling meeting create message", logging.ErrKey, err)
		return nil, err
	}
	if meeting.HostID == "" || meeting.Topic == "" {
		return nil, fmt.Errorf("host id and topic are required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("host_id", meeting.HostID))

	if err := h.meetingService.Create(ctx, &meeting); err != nil {
		return nil, err
	}

	return json.Marshal(&meeting)
}

// HandleMeetingUpdate is the message handler for the meeting-update subject.
func (h *MeetingHandler) HandleMeetingUpdate(ctx context.Context, msg domain.Message) ([]byte, error) {
	var meeting models.Meeting
	if err := json.Unmarshal(msg.Data(), &meeting); err != nil {
		slog.ErrorContext(ctx, "error unmarshaling meeting update message", logging.ErrKey, err)
		return nil, err
	}
	if meeting.ID == 0 {
		return nil, fmt.Errorf("meeting id is required")
	}

	ctx = logging.AppendCtx(ctx, slog.Int64("meeting_id", meeting.ID))

	if err := h.meetingService.Update(ctx, &meeting); err != nil {
		return nil, err
	}

	return json.Marshal(&meeting)
}

// HandleMeetingDelete is the message handler for the meeting-delete subject.
// The payload is the decimal meeting id.
func (h *MeetingHandler) HandleMeetingDelete(ctx context.Context, msg domain.Message) ([]byte, error) {
	meetingID, err := h.parseMeetingID(ctx, msg)
	if err != nil {
		return nil, err
	}

	if err := h.meetingService.Delete(ctx, meetingID); err != nil {
		return nil, err
	}

	return []byte("success"), nil
}

// HandleMeetingInvitation is the message handler for the meeting-invitation
// subject. The payload is the decimal meeting id; the reply is the invite
// text.
func (h *MeetingHandler) HandleMeetingInvitation(ctx context.Context, msg domain.Message) ([]byte, error) {
	meetingID, err := h.parseMeetingID(ctx, msg)
	if err != nil {
		return nil, err
	}

	invitation, err := h.meetingService.GetInvitation(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	return []byte(invitation), nil
}

func (h *MeetingHandler) parseMeetingID(ctx context.Context, msg domain.Message) (int64, error) {
	raw := string(msg.Data())
	meetingID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.ErrorContext(ctx, "error parsing meeting id", logging.ErrKey, err, "value", raw)
		return 0, err
	}
	return meetingID, nil
}
