// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package riden

import (
	"fmt"
	"strings"
)

// FormatBytes renders raw protocol bytes for humans. ASCII tokens are quoted,
// anything else is shown as a hex dump.
func FormatBytes(data []byte) string {
	if len(data) == 0 {
		return "<empty>"
	}
	if isPrintable(data) {
		return fmt.Sprintf("%q", data)
	}

	var sb strings.Builder
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

// FormatVersion renders a firmware version stored in hundredths (123 → "1.23").
func FormatVersion(hundredths uint16) string {
	return fmt.Sprintf("%d.%02d", hundredths/100, hundredths%100)
}

func isPrintable(data []byte) bool {
	for _, b := range data {
		switch {
		case b == '\r' || b == '\n':
		case b < 0x20 || b > 0x7E:
			return false
		}
	}
	return true
}
