// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyBuilderEntityKey(t *testing.T) {
	kb := NewKeyBuilder("")
	assert.Equal(t, "meeting/123", kb.EntityKey(KeyPrefixMeeting, "123"))

	prefixed := NewKeyBuilder("tenant-a")
	assert.Equal(t, "tenant-a/meeting/123", prefixed.EntityKey(KeyPrefixMeeting, "123"))
}

func TestKeyBuilderCompoundKey(t *testing.T) {
	kb := NewKeyBuilder("")
	assert.Equal(t, "grade/9/77", kb.CompoundKey(KeyPrefixGrade, "9", "77"))
}

func TestKeyBuilderEncodeDecodeRoundTrip(t *testing.T) {
	kb := NewKeyBuilder("")

	original := "occurrence//u2F0gUNSqqC7DT+08xKrw=="
	encoded, err := kb.EncodeKey(original)
	require.NoError(t, err)
	assert.NotContains(t, encoded, " ")

	decoded, err := kb.DecodeKey(encoded)
	require.NoError(t, err)
	assert.Equal(t, "/"+original, decoded)
}
