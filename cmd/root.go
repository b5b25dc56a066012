// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/rdtools/rdflash/pkg/transport"
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Output flags
	verbose bool

	listPorts bool
)

var rootCmd = &cobra.Command{
	Use:   "rdflash",
	Short: "Riden RD60xx Firmware Flash Tool",
	Long: `rdflash - Firmware updater for Riden RD60xx power supplies.

Detects whether the power supply is already in its bootloader, reboots it
into the bootloader over Modbus if not, reads the model, firmware version and
serial number, and uploads a new firmware image in 64 byte chunks.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the RDFLASH_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version:      "1.0.0",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listPorts {
			return runList(cmd, args)
		}
		return cmd.Help()
	},
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device (e.g. /dev/ttyUSB0 or COM3)")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", transport.DefaultBaudRate, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Trace every byte sent and received")

	rootCmd.Flags().BoolVarP(&listPorts, "list", "l", false, "List available serial ports and exit")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
