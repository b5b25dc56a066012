// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package flasher

import (
	"fmt"
	"time"
)

// Statistics tracks link traffic for a session
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	Writes       uint64
	BytesWritten uint64
	Reads        uint64
	BytesRead    uint64
	EmptyReads   uint64
	ChunksAcked  uint64
	ImageBytes   uint64

	// Rates (calculated)
	ByteRate  float64 // image bytes/sec
	ChunkRate float64 // chunks/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// RecordWrite counts one write of n bytes
func (s *Statistics) RecordWrite(n int) {
	s.Writes++
	s.BytesWritten += uint64(n)
	s.LastUpdateTime = time.Now()
}

// RecordRead counts one read that returned n bytes
func (s *Statistics) RecordRead(n int) {
	s.Reads++
	s.BytesRead += uint64(n)
	if n == 0 {
		s.EmptyReads++
	}
	s.LastUpdateTime = time.Now()
}

// RecordChunk counts one acknowledged chunk of n image bytes
func (s *Statistics) RecordChunk(n int) {
	s.ChunksAcked++
	s.ImageBytes += uint64(n)
	s.LastUpdateTime = time.Now()
}

// CalculateRates calculates transfer rates
func (s *Statistics) CalculateRates() {
	elapsed := s.LastUpdateTime.Sub(s.StartTime).Seconds()
	if elapsed > 0 {
		s.ByteRate = float64(s.ImageBytes) / elapsed
		s.ChunkRate = float64(s.ChunksAcked) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	elapsed := s.LastUpdateTime.Sub(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.1f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Writes:          %8d (%d bytes)\n", s.Writes, s.BytesWritten)
	result += fmt.Sprintf("Reads:           %8d (%d bytes)\n", s.Reads, s.BytesRead)
	if s.EmptyReads > 0 {
		result += fmt.Sprintf("  Timed out:        %5d\n", s.EmptyReads)
	}
	result += fmt.Sprintf("Chunks Acked:    %8d\n", s.ChunksAcked)
	result += fmt.Sprintf("Image Bytes:     %8d\n", s.ImageBytes)
	result += fmt.Sprintf("Transfer Rate:   %8.1f bytes/sec\n", s.ByteRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	*s = *NewStatistics()
}
