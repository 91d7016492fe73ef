// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openlms/zoom-sync-service/internal/infrastructure/email"
	"github.com/openlms/zoom-sync-service/internal/logging"
	"github.com/openlms/zoom-sync-service/internal/service"
)

// flags are the command line flags for the sync runner.
type flags struct {
	Debug bool
	Job   string
	From  string
	To    string
	Hosts string
}

// environment are the environment variables for the sync runner.
type environment struct {
	NatsURL    string
	Zoom       zoomConfig
	SMTP       email.SMTPConfig
	License    service.LicenseConfig
	Recipients []string
}

// zoomConfig holds the Zoom server-to-server OAuth credentials.
type zoomConfig struct {
	AccountID    string
	ClientID     string
	ClientSecret string
	BaseURL      string
	AuthURL      string
}

// parseFlags parses command line flags for the sync runner.
func parseFlags() flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var job = flag.String("job", "reports", "job to run: reports|recordings|cleanup|refresh|trackingfields|all, or serve to handle LMS commands")
	var from = flag.String("from", "", "manual run: report window start (YYYY-MM-DD)")
	var to = flag.String("to", "", "manual run: report window end (YYYY-MM-DD)")
	var hosts = flag.String("hosts", "", "manual run: comma-separated host ids to reconcile")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Job:   *job,
		From:  *from,
		To:    *to,
		Hosts: *hosts,
	}
}

// parseEnv parses environment variables for the sync runner.
func parseEnv() environment {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	smtpPort := 587
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			slog.With(logging.ErrKey, err, "value", raw).Error("invalid SMTP_PORT, using default")
		} else {
			smtpPort = port
		}
	}

	licenseCount := 0
	if raw := os.Getenv("ZOOM_LICENSE_COUNT"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil {
			slog.With(logging.ErrKey, err, "value", raw).Error("invalid ZOOM_LICENSE_COUNT, disabling recycling")
		} else {
			licenseCount = count
		}
	}

	return environment{
		NatsURL: natsURL,
		Zoom: zoomConfig{
			AccountID:    os.Getenv("ZOOM_ACCOUNT_ID"),
			ClientID:     os.Getenv("ZOOM_CLIENT_ID"),
			ClientSecret: os.Getenv("ZOOM_CLIENT_SECRET"),
			BaseURL:      os.Getenv("ZOOM_BASE_URL"),
			AuthURL:      os.Getenv("ZOOM_AUTH_URL"),
		},
		SMTP: email.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			From:     os.Getenv("SMTP_FROM"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
		License: service.LicenseConfig{
			Recycle:         os.Getenv("ZOOM_RECYCLE_LICENSES") == "true" && licenseCount > 0,
			LicenseCount:    licenseCount,
			ProtectedGroups: splitList(os.Getenv("ZOOM_PROTECTED_USERS")),
		},
		Recipients: splitList(os.Getenv("REPORT_RECIPIENTS")),
	}
}

// runOptions builds the manual-run parameters from the flags. Any parse
// failure is fatal; a silently ignored date would quietly turn a manual run
// into a scheduled one.
func runOptions(f flags) (service.RunOptions, error) {
	var opts service.RunOptions

	if f.From != "" {
		from, err := time.Parse("2006-01-02", f.From)
		if err != nil {
			return opts, err
		}
		opts.From = from
	}
	if f.To != "" {
		to, err := time.Parse("2006-01-02", f.To)
		if err != nil {
			return opts, err
		}
		// Inclusive end of day.
		opts.To = to.Add(24*time.Hour - time.Second)
	}
	opts.Hosts = splitList(f.Hosts)
	return opts, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
