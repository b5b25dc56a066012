// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package riden

import (
	"bytes"
	"fmt"
)

// Identity describes a connected power supply
type Identity struct {
	Model    uint16 // e.g. 60181 for RD6018
	Firmware uint16 // hundredths, 123 = v1.23
	Serial   uint32 // only known from the bootloader
}

// Name returns the marketing name of the model, e.g. "RD6018".
func (id Identity) Name() string {
	return ModelName(id.Model)
}

// Version returns the firmware version as "major.minor".
func (id Identity) Version() string {
	return FormatVersion(id.Firmware)
}

func (id Identity) String() string {
	return fmt.Sprintf("%s (%d) v%s", id.Name(), id.Model, id.Version())
}

// DecodeLegacyIdentity decodes the reply to ReadIdentityRequest sent to a
// device running its normal firmware. The model is big-endian at offset 3 and
// the firmware version is the byte at offset 10.
func DecodeLegacyIdentity(resp []byte) (Identity, error) {
	if err := ValidateResponse(resp, IdentityResponseSize, IdentityResponseHeader); err != nil {
		return Identity{}, err
	}
	return Identity{
		Model:    uint16(resp[3])<<8 | uint16(resp[4]),
		Firmware: uint16(resp[10]),
	}, nil
}

// DecodeBootloaderIdentity decodes the 13 byte reply to CmdGetInfo.
//
// The bootloader stores its fields little-endian: the serial number spans
// offsets 3..6 with offset 6 most significant, and the model spans 7..8 with
// offset 8 most significant. This is the reverse of the Modbus register
// order used by DecodeLegacyIdentity and must stay that way.
func DecodeBootloaderIdentity(resp []byte) (Identity, error) {
	if len(resp) != InfoResponseSize {
		return Identity{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrLength, InfoResponseSize, len(resp))
	}
	if !bytes.HasPrefix(resp, ReplyInfo) {
		return Identity{}, fmt.Errorf("%w: expected %q prefix, got %s", ErrHeader, ReplyInfo, FormatBytes(resp[:len(ReplyInfo)]))
	}
	return Identity{
		Serial:   uint32(resp[6])<<24 | uint32(resp[5])<<16 | uint32(resp[4])<<8 | uint32(resp[3]),
		Model:    uint16(resp[8])<<8 | uint16(resp[7]),
		Firmware: uint16(resp[11]),
	}, nil
}
