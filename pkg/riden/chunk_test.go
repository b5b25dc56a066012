// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package riden

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunks(t *testing.T) {
	t.Parallel()
	for _, n := range []int{0, 1, 63, 64, 65, 127, 128, 129, 1000, 4096} {
		image := bytes.Repeat([]byte{0xA5}, n)
		chunks := Chunks(image)

		wantCount := (n + 63) / 64
		require.Len(t, chunks, wantCount, "n=%d", n)
		assert.Equal(t, wantCount, ChunkCount(n))

		total := 0
		for i, c := range chunks {
			if i < len(chunks)-1 {
				assert.Len(t, c, ChunkSize, "n=%d chunk=%d", n, i)
			}
			total += len(c)
		}
		assert.Equal(t, n, total)

		if n > 0 {
			wantLast := n % 64
			if wantLast == 0 {
				wantLast = 64
			}
			assert.Len(t, chunks[len(chunks)-1], wantLast, "n=%d", n)
		}
	}
}

func TestChunks_PreservesOrder(t *testing.T) {
	t.Parallel()
	image := make([]byte, 200)
	for i := range image {
		image[i] = byte(i)
	}
	assert.Equal(t, image, bytes.Join(Chunks(image), nil))
}
