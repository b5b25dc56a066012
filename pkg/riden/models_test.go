// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package riden

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSupported(t *testing.T) {
	t.Parallel()
	for _, code := range []uint16{60062, 60065, 60066, 60121, 60125, 60181, 60241} {
		assert.True(t, IsSupported(code), "model %d", code)
	}
	for _, code := range []uint16{0, 12345, 60061, 60180, 60182, 60240, 65535} {
		assert.False(t, IsSupported(code), "model %d", code)
	}
}

func TestSupportedModels_Sorted(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		[]uint16{60062, 60065, 60066, 60121, 60125, 60181, 60241},
		SupportedModels())
}

func TestModelName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "RD6018", ModelName(60181))
	assert.Equal(t, "RD6006", ModelName(60065))
	assert.Equal(t, "RD6024", ModelName(60241))
}
