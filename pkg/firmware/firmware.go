// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package firmware loads firmware images from disk.
//
// Raw binaries are sent as-is. Intel HEX files are flattened into one
// contiguous image starting at their lowest address, with holes filled with
// 0xFF (erased flash). No other validation is done; the bootloader decides
// what it accepts.
package firmware

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/marcinbor85/gohex"
)

// Fill is the byte used for gaps between Intel HEX segments
const Fill = 0xFF

// MaxImageSize bounds the span of a flattened Intel HEX image. RD60xx
// controllers carry at most 256 KiB of flash.
const MaxImageSize = 256 * 1024

var (
	// ErrNoData is returned for an Intel HEX file without data records
	ErrNoData = errors.New("no data records")

	// ErrTooLarge is returned when the segments span more than MaxImageSize
	ErrTooLarge = errors.New("image too large")
)

// Format identifies the on-disk image encoding
type Format int

// Image formats
const (
	FormatBinary Format = iota
	FormatIntelHex
)

func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary"
	case FormatIntelHex:
		return "intel-hex"
	default:
		return "unknown"
	}
}

// Image is a firmware image ready to be sent to the device.
type Image struct {
	Path        string
	Format      Format
	BaseAddress uint32 // lowest address of an Intel HEX image, 0 for binaries
	Data        []byte
}

// Size returns the image length in bytes
func (img *Image) Size() int {
	return len(img.Data)
}

func (img *Image) String() string {
	return fmt.Sprintf("%s (%s, %d bytes)", filepath.Base(img.Path), img.Format, len(img.Data))
}

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".ihex", ".ihx":
		return FormatIntelHex
	default:
		return FormatBinary
	}
}

// Load reads the image at path.
func Load(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	format := DetectFormat(path)

	var img *Image
	switch format {
	case FormatIntelHex:
		img, err = ParseIntelHex(file)
	default:
		img, err = ParseBinary(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	img.Path = path
	return img, nil
}

// ParseBinary reads a raw image
func ParseBinary(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &Image{Format: FormatBinary, Data: data}, nil
}

// ParseIntelHex reads an Intel HEX image and flattens its segments.
func ParseIntelHex(r io.Reader) (*Image, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, err
	}

	segments := mem.GetDataSegments()
	if len(segments) == 0 {
		return nil, ErrNoData
	}
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Address < segments[j].Address
	})

	base := segments[0].Address
	last := segments[len(segments)-1]
	end := last.Address + uint32(len(last.Data))
	if span := uint64(end) - uint64(base); span > MaxImageSize {
		return nil, fmt.Errorf("%w: segments span 0x%08X..0x%08X (%d bytes, max %d)",
			ErrTooLarge, base, end, span, MaxImageSize)
	}

	data := bytes.Repeat([]byte{Fill}, int(end-base))
	for _, seg := range segments {
		copy(data[seg.Address-base:], seg.Data)
	}

	return &Image{Format: FormatIntelHex, BaseAddress: base, Data: data}, nil
}
