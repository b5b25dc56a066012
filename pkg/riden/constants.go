// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package riden implements the wire format spoken by Riden RD60xx power
// supplies and their bootloader.
//
// Two dialects share the same serial line. The bootloader answers fixed ASCII
// tokens (queryd, getinf, upfirm). The normal firmware answers Modbus RTU
// frames: {address, function, payload, CRC-16 little-endian}. This package
// holds the literal tokens and frames, the CRC, frame validation and the
// identity decoders. It performs no I/O.
package riden

// Bootloader commands (host → device). Sent verbatim, not null-terminated.
var (
	CmdQuery       = []byte("queryd\r\n")
	CmdGetInfo     = []byte("getinf\r\n")
	CmdStartUpdate = []byte("upfirm\r\n")
)

// Bootloader replies (device → host).
var (
	ReplyBoot  = []byte("boot")
	ReplyInfo  = []byte("inf") // prefix of the 13 byte info reply
	ReplyReady = []byte("upredy")
	ReplyOK    = []byte("OK")
)

// Modbus framing
const (
	DeviceAddress = 0x01

	FuncReadHoldingRegisters = 0x03
	FuncWriteSingleRegister  = 0x06

	CRCSize = 2
)

// CRC-16/MODBUS configuration
const (
	crcPolynomial = 0xA001 // 0x8005 reflected
	crcInitial    = 0xFFFF
)

// Registers used to identify the device and request a reboot.
const (
	RegModel        = 0x0000
	RegIdentityLen  = 4
	RegSystem       = 0x0100
	ValueBootloader = 0x1601
)

// Fixed request frames. These never vary, so the checksum is embedded rather
// than computed per call.
var (
	// ReadIdentityRequest reads 4 holding registers from register 0.
	ReadIdentityRequest = []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x04, 0x44, 0x09}

	// RebootRequest writes 0x1601 to register 0x0100, which restarts the
	// device into its bootloader.
	RebootRequest = []byte{0x01, 0x06, 0x01, 0x00, 0x16, 0x01, 0x47, 0x96}
)

// Reply shapes
const (
	IdentityResponseSize = 13 // addr + func + count + 8 data bytes + CRC
	InfoResponseSize     = 13
	RebootAckSize        = 1
	RebootAck            = 0xFC
)

// IdentityResponseHeader is the expected start of the reply to ReadIdentityRequest.
var IdentityResponseHeader = []byte{DeviceAddress, FuncReadHoldingRegisters, 2 * RegIdentityLen}

// ChunkSize is the number of firmware bytes sent per acknowledged write.
const ChunkSize = 64
