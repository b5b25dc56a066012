// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package transport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// SerialConfig holds the parameters used to open a serial port
type SerialConfig struct {
	Port     string
	BaudRate int
	Timeout  time.Duration
}

// DefaultSerialConfig returns 115200 baud with the discovery timeout.
func DefaultSerialConfig(port string) SerialConfig {
	return SerialConfig{
		Port:     port,
		BaudRate: DefaultBaudRate,
		Timeout:  DefaultTimeout,
	}
}

// Serial wraps a serial port
type Serial struct {
	port serial.Port
	name string
}

// OpenSerial opens a serial port at 8N1 with the configured read timeout.
func OpenSerial(cfg SerialConfig) (*Serial, error) {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Port, err)
	}

	s := &Serial{port: port, name: cfg.Port}
	if err := s.SetDeadline(cfg.Timeout); err != nil {
		_ = port.Close()
		return nil, err
	}
	return s, nil
}

// ReadUpTo reads until max bytes arrive or the port times out.
func (s *Serial) ReadUpTo(max int) ([]byte, error) {
	data, err := readUpTo(s.port, max)
	if err != nil {
		return data, fmt.Errorf("read %s: %w", s.name, err)
	}
	return data, nil
}

// WriteAll writes p completely.
func (s *Serial) WriteAll(p []byte) error {
	if err := writeAll(s.port, p); err != nil {
		return fmt.Errorf("write %s: %w", s.name, err)
	}
	return nil
}

// SetDeadline sets the per-read timeout of the port.
func (s *Serial) SetDeadline(d time.Duration) error {
	if err := s.port.SetReadTimeout(d); err != nil {
		return fmt.Errorf("set read timeout on %s: %w", s.name, err)
	}
	return nil
}

// Close closes the port.
func (s *Serial) Close() error {
	return s.port.Close()
}

// Type returns TypeSerial
func (*Serial) Type() Type {
	return TypeSerial
}

// String returns the port name
func (s *Serial) String() string {
	return s.name
}
