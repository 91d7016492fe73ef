// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/pkg/constants"
)

// INatsSubscribeConn is the NATS connection interface the subscriber needs.
type INatsSubscribeConn interface {
	QueueSubscribe(subj string, queue string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// natsMessage adapts a raw NATS message to domain.Message.
type natsMessage struct {
	msg *nats.Msg
}

func (m natsMessage) Subject() string {
	return m.msg.Subject
}

func (m natsMessage) Data() []byte {
	return m.msg.Data
}

func (m natsMessage) Respond(data []byte) error {
	return m.msg.Respond(data)
}

func (m natsMessage) HasReply() bool {
	return m.msg.Reply != ""
}

// Subscriber attaches command handlers to NATS subjects.
type Subscriber struct {
	NatsConn INatsSubscribeConn
}

// NewSubscriber creates a new Subscriber.
func NewSubscriber(natsConn INatsSubscribeConn) *Subscriber {
	return &Subscriber{
		NatsConn: natsConn,
	}
}

// Subscribe binds the handler to every subject on the shared command queue
// group. Messages arrive on NATS goroutines; the passed context carries the
// process lifetime.
func (s *Subscriber) Subscribe(ctx context.Context, handler domain.MessageHandler, subjects ...string) error {
	for _, subject := range subjects {
		_, err := s.NatsConn.QueueSubscribe(subject, constants.CommandQueue, func(msg *nats.Msg) {
			handler.HandleMessage(ctx, natsMessage{msg: msg})
		})
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "subscribed to NATS subject", "subject", subject)
	}
	return nil
}
