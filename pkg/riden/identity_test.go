// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package riden

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLegacyIdentity(t *testing.T) {
	t.Parallel()
	resp := identityResponse(0xEB15, 0x14)
	require.Equal(t, byte(0xEB), resp[3])
	require.Equal(t, byte(0x15), resp[4])
	require.Equal(t, byte(0x14), resp[10])

	id, err := DecodeLegacyIdentity(resp)
	require.NoError(t, err)
	assert.Equal(t, uint16(60181), id.Model)
	assert.Equal(t, uint16(20), id.Firmware)
	assert.Equal(t, "0.20", id.Version())
	assert.Equal(t, uint32(0), id.Serial)
}

func TestDecodeLegacyIdentity_RejectsBadFrames(t *testing.T) {
	t.Parallel()
	_, err := DecodeLegacyIdentity([]byte{0x01, 0x03, 0x08})
	assert.ErrorIs(t, err, ErrLength)

	resp := identityResponse(60181, 0x14)
	resp[0] = 0x02
	_, err = DecodeLegacyIdentity(resp)
	assert.ErrorIs(t, err, ErrHeader)
}

func TestDecodeBootloaderIdentity(t *testing.T) {
	t.Parallel()
	resp := []byte{
		'i', 'n', 'f',
		0x07, 0x00, 0x00, 0x00, // serial, offset 6 most significant
		0x15, 0xEB, // model, offset 8 most significant
		0x00, 0x00,
		0x7B, // firmware 1.23
		0x00,
	}

	id, err := DecodeBootloaderIdentity(resp)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), id.Serial)
	assert.Equal(t, uint16(60181), id.Model)
	assert.Equal(t, uint16(123), id.Firmware)
	assert.Equal(t, "RD6018 (60181) v1.23", id.String())
}

func TestDecodeBootloaderIdentity_SerialByteOrder(t *testing.T) {
	t.Parallel()
	resp := make([]byte, InfoResponseSize)
	copy(resp, ReplyInfo)
	resp[3], resp[4], resp[5], resp[6] = 0x04, 0x03, 0x02, 0x01

	id, err := DecodeBootloaderIdentity(resp)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), id.Serial)
}

func TestDecodeBootloaderIdentity_RejectsBadFrames(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		resp    []byte
		wantErr error
	}{
		{name: "empty", resp: nil, wantErr: ErrLength},
		{name: "short", resp: []byte("inf1234"), wantErr: ErrLength},
		{name: "wrong prefix", resp: []byte("boot123456789"), wantErr: ErrHeader},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeBootloaderIdentity(tt.resp)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
