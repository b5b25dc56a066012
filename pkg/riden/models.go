// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package riden

import (
	"fmt"
	"sort"
)

// Model codes accepted by the bootloader update procedure
const (
	ModelRD6006  uint16 = 60062
	ModelRD6006P uint16 = 60065
	ModelRD6006W uint16 = 60066
	ModelRD6012  uint16 = 60121
	ModelRD6012P uint16 = 60125
	ModelRD6018  uint16 = 60181
	ModelRD6024  uint16 = 60241
)

var supportedModels = map[uint16]struct{}{
	ModelRD6006:  {},
	ModelRD6006P: {},
	ModelRD6006W: {},
	ModelRD6012:  {},
	ModelRD6012P: {},
	ModelRD6018:  {},
	ModelRD6024:  {},
}

// IsSupported reports whether code is a model this tool may flash. Exact
// match only.
func IsSupported(code uint16) bool {
	_, ok := supportedModels[code]
	return ok
}

// SupportedModels returns the supported model codes in ascending order.
func SupportedModels() []uint16 {
	codes := make([]uint16, 0, len(supportedModels))
	for code := range supportedModels {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// ModelName returns the display name for a model code (60181 → "RD6018").
func ModelName(code uint16) string {
	return fmt.Sprintf("RD%d", code/10)
}
