// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/rdtools/rdflash/pkg/flasher"
	"github.com/rdtools/rdflash/pkg/riden"
	"github.com/rdtools/rdflash/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bootloaderInfo builds the getinf reply of a device already in its bootloader
func bootloaderInfo(model uint16, serial uint32, fw byte) []byte {
	return []byte{
		'i', 'n', 'f',
		byte(serial), byte(serial >> 8), byte(serial >> 16), byte(serial >> 24),
		byte(model), byte(model >> 8),
		0x00, 0x00,
		fw,
		0x00,
	}
}

func TestReportFlash_Success(t *testing.T) {
	t.Parallel()
	link := transport.NewMock(riden.ReplyBoot, bootloaderInfo(60181, 7, 141), riden.ReplyReady, riden.ReplyOK)
	s := flasher.New(link, flasher.WithSettleInterval(0))
	_, runErr := s.Run(make([]byte, 64))
	require.NoError(t, runErr)

	var buf bytes.Buffer
	require.NoError(t, reportFlash(&buf, s, runErr))

	out := buf.String()
	assert.Contains(t, out, "Device information from bootloader:")
	assert.Contains(t, out, "RD6018 (60181)")
	assert.Contains(t, out, "00000007")
	assert.Contains(t, out, "Firmware update complete.")
}

func TestReportFlash_Failure(t *testing.T) {
	t.Parallel()
	link := transport.NewMock(riden.ReplyBoot, bootloaderInfo(12345, 99, 100))
	s := flasher.New(link, flasher.WithSettleInterval(0), flasher.WithDiscoveryTimeout(time.Second))
	_, runErr := s.Run(make([]byte, 64))
	require.Error(t, runErr)

	var buf bytes.Buffer
	err := reportFlash(&buf, s, runErr)
	assert.ErrorIs(t, err, flasher.ErrUnsupportedModel)
	assert.Contains(t, err.Error(), "firmware update failed")
	assert.Contains(t, buf.String(), "00000099")
	assert.NotContains(t, buf.String(), "Firmware update complete.")
}

func TestTextProgress_Dots(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	tp := newTextProgress(&buf, 200, false)

	tp.Update(flasher.Progress{State: flasher.StateIdentityKnown})
	assert.Empty(t, buf.String(), "nothing before the transfer starts")

	tp.Update(flasher.Progress{State: flasher.StateTransferring, TotalChunks: 4})
	tp.Update(flasher.Progress{State: flasher.StateTransferring, Chunk: 1, TotalChunks: 4})
	tp.Update(flasher.Progress{State: flasher.StateTransferring, Chunk: 3, TotalChunks: 4})
	tp.Update(flasher.Progress{State: flasher.StateTransferring, Chunk: 4, TotalChunks: 4})
	tp.Update(flasher.Progress{State: flasher.StateComplete, Chunk: 4, TotalChunks: 4})
	tp.Close()

	assert.Equal(t, "Updating firmware.......\n", buf.String())
}

func TestTextProgress_CloseWithoutTransfer(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	tp := newTextProgress(&buf, 64, false)
	tp.Close()
	assert.Empty(t, buf.String())
}

func TestNewLogger_Level(t *testing.T) {
	t.Parallel()

	var quiet bytes.Buffer
	logger := newLogger(&quiet, false)
	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")
	assert.NotContains(t, quiet.String(), "hidden")
	assert.Contains(t, quiet.String(), "shown")

	var loud bytes.Buffer
	logger = newLogger(&loud, true)
	logger.Debug().Msg("trace")
	assert.Contains(t, loud.String(), "trace")
}
