// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// rdflash - Riden RD60xx Firmware Flash Tool
//
// A CLI tool for identifying Riden bench power supplies and uploading new
// firmware through their bootloader.

package main

import (
	"os"

	"github.com/rdtools/rdflash/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
