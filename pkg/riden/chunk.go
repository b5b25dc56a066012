// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package riden

// Chunks splits a firmware image into ChunkSize slices. The last slice may be
// shorter. The slices alias image.
func Chunks(image []byte) [][]byte {
	chunks := make([][]byte, 0, ChunkCount(len(image)))
	for off := 0; off < len(image); off += ChunkSize {
		end := off + ChunkSize
		if end > len(image) {
			end = len(image)
		}
		chunks = append(chunks, image[off:end:end])
	}
	return chunks
}

// ChunkCount returns how many chunks an image of n bytes is sent in.
func ChunkCount(n int) int {
	return (n + ChunkSize - 1) / ChunkSize
}
