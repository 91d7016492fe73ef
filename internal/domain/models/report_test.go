// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int64
	}{
		{
			name:     "three components HH:MM:SS",
			value:    "01:21:18",
			expected: 4878,
		},
		{
			name:     "two components MM:SS",
			value:    "10:01",
			expected: 601,
		},
		{
			name:     "single component is minutes",
			value:    "45",
			expected: 2700,
		},
		{
			name:     "zero",
			value:    "0",
			expected: 0,
		},
		{
			name:     "empty string",
			value:    "",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReportDuration(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseReportDurationInvalid(t *testing.T) {
	_, err := ParseReportDuration("1:2:3:4")
	assert.Error(t, err)

	_, err = ParseReportDuration("abc")
	assert.Error(t, err)
}
