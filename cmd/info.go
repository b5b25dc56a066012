// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"

	"github.com/rdtools/rdflash/pkg/flasher"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Identify the connected power supply",
	Long: `Put the power supply into its bootloader and read the model, firmware
version and serial number without flashing anything.

A device running its normal firmware is rebooted into the bootloader and is
left there; power cycle it to return to normal operation.`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr, verbose)

	link, connInfo, err := OpenTransport()
	if err != nil {
		return err
	}
	defer link.Close()

	fmt.Printf("Connection: %s\n", connInfo)

	s := flasher.New(link,
		flasher.WithLogger(logger),
		flasher.WithVerbose(verbose),
	)

	_, err = s.Run(nil)
	printSession(os.Stdout, s)
	return err
}
