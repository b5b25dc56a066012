// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package transport

import (
	"sync"
	"time"
)

// Mock is a scripted transport for tests. Each ReadUpTo call consumes the
// next queued reply, truncated to the requested size. Once the script runs
// out every read is empty, which looks like a silent device.
type Mock struct {
	mu        sync.Mutex
	replies   [][]byte
	writes    [][]byte
	deadlines []time.Duration
	readErr   error
	writeErr  error
	closed    bool
	reads     int

	// OnWrite, when set, is called with every accepted write and may queue
	// replies. It lets a test act as a device that answers what it receives.
	OnWrite func(m *Mock, p []byte)
}

// NewMock creates a mock transport that replays replies in order.
func NewMock(replies ...[]byte) *Mock {
	m := &Mock{}
	m.Queue(replies...)
	return m
}

// Queue appends replies to the script.
func (m *Mock) Queue(replies ...[]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueLocked(replies...)
}

func (m *Mock) queueLocked(replies ...[]byte) {
	for _, r := range replies {
		m.replies = append(m.replies, append([]byte(nil), r...))
	}
}

// ReadUpTo returns the next scripted reply.
func (m *Mock) ReadUpTo(max int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads++
	if m.closed {
		return nil, ErrClosed
	}
	if m.readErr != nil {
		return nil, m.readErr
	}
	if len(m.replies) == 0 {
		return []byte{}, nil
	}

	reply := m.replies[0]
	m.replies = m.replies[1:]
	if len(reply) > max {
		reply = reply[:max]
	}
	return reply, nil
}

// WriteAll records p.
func (m *Mock) WriteAll(p []byte) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.writeErr != nil {
		m.mu.Unlock()
		return m.writeErr
	}
	m.writes = append(m.writes, append([]byte(nil), p...))
	hook := m.OnWrite
	m.mu.Unlock()

	if hook != nil {
		hook(m, p)
	}
	return nil
}

// SetDeadline records the requested deadline.
func (m *Mock) SetDeadline(d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deadlines = append(m.deadlines, d)
	return nil
}

// Close marks the mock closed.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Type returns TypeMock
func (*Mock) Type() Type {
	return TypeMock
}

// SetReadError makes every following read fail with err.
func (m *Mock) SetReadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// SetWriteError makes every following write fail with err.
func (m *Mock) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Writes returns copies of everything written so far.
func (m *Mock) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	for i, w := range m.writes {
		out[i] = append([]byte(nil), w...)
	}
	return out
}

// Deadlines returns every deadline passed to SetDeadline.
func (m *Mock) Deadlines() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.deadlines...)
}

// Reads returns the number of ReadUpTo calls.
func (m *Mock) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Remaining returns the number of unread scripted replies.
func (m *Mock) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.replies)
}

// IsClosed reports whether Close was called.
func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
