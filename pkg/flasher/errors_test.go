// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package flasher

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "timeout",
			err:  &Error{Kind: KindTimeout, Phase: StateLegacyDetected, Msg: "no response from device", Chunk: -1},
			want: "LegacyDetected: no response from device",
		},
		{
			name: "protocol violation with reply",
			err:  &Error{Kind: KindProtocolViolation, Phase: StateTransferring, Msg: "flash failed", Chunk: 3, Got: []byte("E!")},
			want: `Transferring: flash failed at chunk 3: got "E!"`,
		},
		{
			name: "protocol violation binary reply",
			err:  &Error{Kind: KindProtocolViolation, Phase: StateRebootRequested, Msg: "failed to reboot device", Chunk: -1, Got: []byte{0x00}},
			want: "RebootRequested: failed to reboot device: got 00",
		},
		{
			name: "unsupported model",
			err:  &Error{Kind: KindUnsupportedModel, Phase: StateIdentityKnown, Msg: "unsupported device model", Chunk: -1, Model: 12345},
			want: "IdentityKnown: unsupported device model 12345",
		},
		{
			name: "kind name without message",
			err:  &Error{Kind: KindTimeout, Phase: StateIdle, Chunk: -1},
			want: "Idle: timeout",
		},
		{
			name: "wrapped cause",
			err:  &Error{Kind: KindTransportFailure, Phase: StateTransferring, Msg: "write failed", Chunk: 0, Err: errors.New("broken pipe")},
			want: "Transferring: write failed at chunk 0: broken pipe",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_IsMatchesKindOnly(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("flashing: %w", &Error{Kind: KindProtocolViolation, Chunk: -1})

	assert.ErrorIs(t, err, ErrProtocolViolation)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrTransportFailure)
	assert.Equal(t, KindProtocolViolation, KindOf(err))
}

func TestKindOf_ForeignError(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Kind(0), KindOf(errors.New("other")))
	assert.Equal(t, Kind(0), KindOf(nil))
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestNewImageSourceError(t *testing.T) {
	t.Parallel()
	err := NewImageSourceError(fs.ErrNotExist)

	assert.ErrorIs(t, err, ErrImageSourceFailure)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, KindImageSourceFailure, err.Kind)
	assert.Equal(t, "Idle: failed to load firmware: file does not exist", err.Error())
}

func TestState_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "BootloaderConfirmed", StateBootloaderConfirmed.String())
	assert.Equal(t, "Failed", StateFailed.String())
	assert.Equal(t, "Unknown", State(99).String())
	assert.Equal(t, "Unknown", State(-1).String())
}

func TestState_IsTerminal(t *testing.T) {
	t.Parallel()
	for s := StateIdle; s <= StateFailed; s++ {
		want := s == StateComplete || s == StateFailed
		assert.Equal(t, want, s.IsTerminal(), s.String())
	}
}
