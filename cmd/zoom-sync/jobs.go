// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/handlers"
	"github.com/openlms/zoom-sync-service/internal/infrastructure/store"
	"github.com/openlms/zoom-sync-service/internal/infrastructure/zoom/api"
	"github.com/openlms/zoom-sync-service/internal/logging"
	"github.com/openlms/zoom-sync-service/internal/service"
	"github.com/openlms/zoom-sync-service/pkg/concurrent"
)

// Job names accepted by the -job flag.
const (
	jobReports        = "reports"
	jobRecordings     = "recordings"
	jobCleanup        = "cleanup"
	jobRefresh        = "refresh"
	jobTrackingFields = "trackingfields"
	jobAll            = "all"
	jobServe          = "serve"
)

// jobRunner holds the wired sync services and dispatches jobs by name.
type jobRunner struct {
	reports     *service.ReportSyncService
	recordings  *service.RecordingSyncService
	maintenance *service.MaintenanceService
	commands    *handlers.MeetingHandler
}

func newJobRunner(
	client api.ClientAPI,
	storage *store.Storage,
	messages domain.MessageBuilder,
	notifier domain.AttendanceNotifier,
	env environment,
) *jobRunner {
	logger := slog.Default()

	matcher := service.NewMatcher(storage.Participants, storage.Enrollments, logger)
	grading := service.NewGradingService(
		storage.Enrollments, storage.Grades, storage.JoinAudit, notifier, messages, logger)
	licenses := service.NewLicenseService(client, env.License, logger)
	meetings := service.NewMeetingService(client, storage.Meetings, storage.SyncState, licenses, logger)

	return &jobRunner{
		reports: service.NewReportSyncService(
			client, storage.Meetings, storage.Occurrences, storage.Participants,
			storage.SyncState, matcher, grading, messages, env.Recipients, logger),
		recordings: service.NewRecordingSyncService(
			client, storage.Meetings, storage.Recordings, messages, logger),
		maintenance: service.NewMaintenanceService(
			client, storage.Meetings, storage.Recordings, storage.SyncState, logger),
		commands: handlers.NewMeetingHandler(meetings),
	}
}

// Run executes the named job and reports success. "all" runs every job, each
// failure logged individually, none aborting its siblings.
func (r *jobRunner) Run(ctx context.Context, job string, opts service.RunOptions) bool {
	switch job {
	case jobReports:
		return r.logOutcome(ctx, job, r.reports.Run(ctx, opts))
	case jobRecordings:
		return r.logOutcome(ctx, job, r.recordings.Run(ctx))
	case jobCleanup:
		return r.logOutcome(ctx, job, r.maintenance.RecordingCleanup(ctx))
	case jobRefresh:
		return r.logOutcome(ctx, job, r.maintenance.MetadataRefresh(ctx))
	case jobTrackingFields:
		return r.logOutcome(ctx, job, r.maintenance.TrackingFieldRefresh(ctx))
	case jobAll:
		return r.runAll(ctx, opts)
	default:
		slog.Error("unknown job", "job", job)
		return false
	}
}

// runAll runs every job sequentially through a single-worker pool. The jobs
// share the daily API quota, so parallelism buys nothing and the report job
// assumes nothing else is advancing the cursor underneath it.
func (r *jobRunner) runAll(ctx context.Context, opts service.RunOptions) bool {
	pool := concurrent.NewWorkerPool(1)
	errs := pool.RunAll(ctx,
		func() error { return wrapOutcome(ctx, jobReports, r.reports.Run(ctx, opts)) },
		func() error { return wrapOutcome(ctx, jobRecordings, r.recordings.Run(ctx)) },
		func() error { return wrapOutcome(ctx, jobCleanup, r.maintenance.RecordingCleanup(ctx)) },
		func() error { return wrapOutcome(ctx, jobRefresh, r.maintenance.MetadataRefresh(ctx)) },
		func() error { return wrapOutcome(ctx, jobTrackingFields, r.maintenance.TrackingFieldRefresh(ctx)) },
	)
	return len(errs) == 0
}

func (r *jobRunner) logOutcome(ctx context.Context, job string, err error) bool {
	return wrapOutcome(ctx, job, err) == nil
}

func wrapOutcome(ctx context.Context, job string, err error) error {
	if err != nil {
		slog.ErrorContext(ctx, "job failed", "job", job, logging.ErrKey, err)
		return err
	}
	slog.InfoContext(ctx, "job succeeded", "job", job)
	return nil
}
