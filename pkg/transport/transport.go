// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package transport provides the byte-stream links a flashing session runs
// over: a local serial port, a serial-over-WebSocket bridge, and a scripted
// mock for tests. Transports know nothing about framing and never retry.
package transport

import (
	"errors"
	"io"
	"time"
)

// Transport is a bounded-time byte stream to a device.
type Transport interface {
	// ReadUpTo blocks until max bytes arrive or the read deadline passes
	// without new data, and returns what it got. An empty result is not an
	// error; callers decide what silence means.
	ReadUpTo(max int) ([]byte, error)

	// WriteAll blocks until every byte is accepted by the link.
	WriteAll(p []byte) error

	// SetDeadline changes the timeout applied to subsequent reads.
	SetDeadline(d time.Duration) error

	// Close releases the link.
	Close() error

	// Type returns the transport type
	Type() Type
}

// Type represents the kind of link behind a Transport
type Type string

const (
	// TypeSerial represents a local UART / USB serial adapter.
	TypeSerial Type = "serial"
	// TypeWebSocket represents a serial port exposed through a WebSocket bridge.
	TypeWebSocket Type = "websocket"
	// TypeMock represents a scripted in-memory transport for testing
	TypeMock Type = "mock"
)

// Link defaults
const (
	DefaultBaudRate = 115200
	DefaultTimeout  = 2 * time.Second
)

// ErrClosed is returned by operations on a closed transport.
var ErrClosed = errors.New("transport closed")

// readUpTo fills up to max bytes from r. It stops early when a read returns
// no data, which is how timeouts surface on serial ports.
func readUpTo(r io.Reader, max int) ([]byte, error) {
	buf := make([]byte, max)
	n := 0
	for n < max {
		k, err := r.Read(buf[n:])
		n += k
		if err != nil {
			return buf[:n], err
		}
		if k == 0 {
			break
		}
	}
	return buf[:n], nil
}

// writeAll writes p to w, looping over short writes.
func writeAll(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}
