// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package riden

import "fmt"

// CalculateCRC computes the CRC-16/MODBUS checksum for the given data
func CalculateCRC(data []byte) uint16 {
	crc := uint16(crcInitial)
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&0x0001 != 0 {
				crc = (crc >> 1) ^ crcPolynomial
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

// AppendCRC returns frame followed by its checksum, low byte first.
func AppendCRC(frame []byte) []byte {
	crc := CalculateCRC(frame)
	out := make([]byte, 0, len(frame)+CRCSize)
	out = append(out, frame...)
	return append(out, byte(crc&0xFF), byte(crc>>8))
}

// ValidateCRC checks that the trailing two bytes of frame match the checksum
// of everything before them.
func ValidateCRC(frame []byte) error {
	if len(frame) < CRCSize+1 {
		return fmt.Errorf("%w: frame of %d bytes has no room for a checksum", ErrLength, len(frame))
	}
	body := frame[:len(frame)-CRCSize]
	got := uint16(frame[len(frame)-2]) | uint16(frame[len(frame)-1])<<8
	want := CalculateCRC(body)
	if got != want {
		return fmt.Errorf("%w: expected 0x%04X, got 0x%04X", ErrCRC, want, got)
	}
	return nil
}
