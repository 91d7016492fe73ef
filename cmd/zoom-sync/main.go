// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

// Package main is the sync runner: it wires the Zoom client, the NATS KV
// store and the sync services together and executes the scheduled job named
// on the command line.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/infrastructure/email"
	"github.com/openlms/zoom-sync-service/internal/infrastructure/messaging"
	"github.com/openlms/zoom-sync-service/internal/infrastructure/store"
	"github.com/openlms/zoom-sync-service/internal/infrastructure/zoom/api"
	"github.com/openlms/zoom-sync-service/internal/logging"
)

func main() {
	env := parseEnv()
	f := parseFlags()

	logging.InitStructureLogConfig()

	if env.Zoom.AccountID == "" || env.Zoom.ClientID == "" || env.Zoom.ClientSecret == "" {
		slog.Error("ZOOM_ACCOUNT_ID, ZOOM_CLIENT_ID and ZOOM_CLIENT_SECRET are required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	natsConn, err := nats.Connect(env.NatsURL)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error connecting to NATS")
		os.Exit(1)
	}
	defer natsConn.Drain() //nolint:errcheck

	js, err := jetstream.New(natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating JetStream context")
		os.Exit(1)
	}

	storage, err := store.NewStorage(ctx, js)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error opening key-value stores")
		os.Exit(1)
	}

	client := api.NewClient(api.Config{
		AccountID:    env.Zoom.AccountID,
		ClientID:     env.Zoom.ClientID,
		ClientSecret: env.Zoom.ClientSecret,
		BaseURL:      env.Zoom.BaseURL,
		AuthURL:      env.Zoom.AuthURL,
	}, storage.SyncState)

	notifier, err := setupNotifier(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up email service")
		os.Exit(1)
	}

	runner := newJobRunner(client, storage, messaging.NewMessageBuilder(natsConn), notifier, env)

	opts, err := runOptions(f)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("invalid manual run parameters")
		os.Exit(1)
	}

	if f.Job == jobServe {
		subscriber := messaging.NewSubscriber(natsConn)
		err = subscriber.Subscribe(ctx, runner.commands, runner.commands.Subjects()...)
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
			os.Exit(1)
		}
		slog.Info("serving meeting commands")
		// Blocks until SIGINT or SIGTERM is received.
		<-ctx.Done()
		return
	}

	if !runner.Run(ctx, f.Job, opts) {
		os.Exit(1)
	}
}

// setupNotifier picks the SMTP notifier when a mail host is configured and
// the no-op notifier otherwise.
func setupNotifier(env environment) (domain.AttendanceNotifier, error) {
	if env.SMTP.Host == "" {
		slog.Info("SMTP_HOST not set, attendance reports will not be emailed")
		return email.NewNoOpService(), nil
	}
	return email.NewSMTPService(env.SMTP)
}
