// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/domain/models"
)

// MockAttendanceNotifier implements domain.AttendanceNotifier for testing
type MockAttendanceNotifier struct {
	mock.Mock
}

func (m *MockAttendanceNotifier) SendAttendanceReport(ctx context.Context, recipients []string, report *domain.AttendanceReport) error {
	args := m.Called(ctx, recipients, report)
	return args.Error(0)
}

// MockMessageBuilder implements domain.MessageBuilder for testing
type MockMessageBuilder struct {
	mock.Mock
}

func (m *MockMessageBuilder) SendOccurrenceProcessed(ctx context.Context, occurrence *models.Occurrence) error {
	args := m.Called(ctx, occurrence)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendGradesApplied(ctx context.Context, meetingID int64, userIDs []int64) error {
	args := m.Called(ctx, meetingID, userIDs)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendRecordingDiscovered(ctx context.Context, recording *models.Recording) error {
	args := m.Called(ctx, recording)
	return args.Error(0)
}

var (
	_ domain.AttendanceNotifier = (*MockAttendanceNotifier)(nil)
	_ domain.MessageBuilder     = (*MockMessageBuilder)(nil)
)
