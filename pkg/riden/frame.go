// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package riden

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Frame validation errors
var (
	ErrLength = errors.New("unexpected frame length")
	ErrHeader = errors.New("unexpected frame header")
	ErrCRC    = errors.New("CRC mismatch")
)

// NewReadHoldingRegisters builds a Modbus "read holding registers" request.
func NewReadHoldingRegisters(address byte, start, count uint16) []byte {
	frame := make([]byte, 6)
	frame[0] = address
	frame[1] = FuncReadHoldingRegisters
	binary.BigEndian.PutUint16(frame[2:4], start)
	binary.BigEndian.PutUint16(frame[4:6], count)
	return AppendCRC(frame)
}

// NewWriteSingleRegister builds a Modbus "write single register" request.
func NewWriteSingleRegister(address byte, register, value uint16) []byte {
	frame := make([]byte, 6)
	frame[0] = address
	frame[1] = FuncWriteSingleRegister
	binary.BigEndian.PutUint16(frame[2:4], register)
	binary.BigEndian.PutUint16(frame[4:6], value)
	return AppendCRC(frame)
}

// ValidateResponse checks a binary reply against its expected shape: exact
// length, leading header bytes and trailing CRC. No field may be read from a
// frame that has not passed this check.
func ValidateResponse(resp []byte, wantLen int, header []byte) error {
	if len(resp) != wantLen {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrLength, wantLen, len(resp))
	}
	if !bytes.HasPrefix(resp, header) {
		return fmt.Errorf("%w: expected % X, got % X", ErrHeader, header, resp[:len(header)])
	}
	return ValidateCRC(resp)
}

// ValidateToken checks an ASCII reply against the literal it must equal.
func ValidateToken(resp, want []byte) error {
	if len(resp) != len(want) {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrLength, len(want), len(resp))
	}
	if !bytes.Equal(resp, want) {
		return fmt.Errorf("%w: expected %q, got %s", ErrHeader, want, FormatBytes(resp))
	}
	return nil
}
