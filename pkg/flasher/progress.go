// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package flasher

import "time"

// Progress contains information about the session progress.
// Passed to ProgressCallback on state changes and after every acknowledged chunk.
type Progress struct {
	// State is the state the session just entered
	State State

	// Chunk is the number of chunks acknowledged so far
	Chunk int

	// TotalChunks is the number of chunks in the image (0 before transfer)
	TotalChunks int

	// BytesWritten is the number of image bytes acknowledged so far
	BytesWritten int

	// TotalBytes is the image size (0 before transfer)
	TotalBytes int

	// Percentage is the transfer completion (0.0 to 100.0)
	Percentage float64

	// ElapsedTime is the time since the session started
	ElapsedTime time.Duration
}

// ProgressCallback is called synchronously from the session. Implementations
// should return quickly; the device is waiting.
type ProgressCallback func(Progress)
