// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/rdtools/rdflash/pkg/riden"
	"github.com/rdtools/rdflash/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeDevice(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		reply []byte
		want  probeResult
	}{
		{"bootloader", riden.ReplyBoot, probeBootloader},
		{"silent", nil, probeSilent},
		{"garbage", []byte{0x01, 0x83}, probeUnexpected},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			link := transport.NewMock(tt.reply)

			got, _, err := probeDevice(link, 500*time.Millisecond)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, [][]byte{riden.CmdQuery}, link.Writes())
			assert.Equal(t, []time.Duration{500 * time.Millisecond}, link.Deadlines())
		})
	}
}

func TestProbeDevice_LinkError(t *testing.T) {
	t.Parallel()
	link := transport.NewMock()
	link.SetWriteError(errors.New("port gone"))

	_, _, err := probeDevice(link, time.Second)
	assert.EqualError(t, err, "port gone")
}

func TestProbeDeadline(t *testing.T) {
	t.Parallel()

	d, err := probeDeadline(3)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, d)

	for _, seconds := range []int{0, -1} {
		_, err := probeDeadline(seconds)
		assert.Error(t, err, "timeout %d", seconds)
	}
}
