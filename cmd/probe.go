// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/rdtools/rdflash/pkg/riden"
	"github.com/rdtools/rdflash/pkg/transport"
	"github.com/spf13/cobra"
)

var probeTimeout int

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Test the connection by asking for the bootloader",
	Long: `Send a single bootloader query and report what answers.

Unlike info, probe never reboots the device. It tells apart a device waiting
in its bootloader, a device running normal firmware (which ignores the query),
and a dead link.

Exit codes:
  0 - Bootloader answered
  1 - No answer (normal firmware, or nothing connected)
  2 - Connection error`,
	Args: cobra.NoArgs,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().IntVar(&probeTimeout, "timeout", 2, "Seconds to wait for an answer")
}

type probeResult int

const (
	probeSilent probeResult = iota
	probeBootloader
	probeUnexpected
)

// probeDevice writes the bootloader query once and classifies the reply.
func probeDevice(link transport.Transport, timeout time.Duration) (probeResult, []byte, error) {
	if err := link.SetDeadline(timeout); err != nil {
		return probeSilent, nil, err
	}
	if err := link.WriteAll(riden.CmdQuery); err != nil {
		return probeSilent, nil, err
	}
	reply, err := link.ReadUpTo(len(riden.ReplyBoot))
	if err != nil {
		return probeSilent, nil, err
	}

	switch {
	case len(reply) == 0:
		return probeSilent, reply, nil
	case bytes.Equal(reply, riden.ReplyBoot):
		return probeBootloader, reply, nil
	default:
		return probeUnexpected, reply, nil
	}
}

// probeDeadline converts the --timeout flag. A zero read timeout makes the
// serial port non-blocking, so only positive values are accepted.
func probeDeadline(seconds int) (time.Duration, error) {
	if seconds <= 0 {
		return 0, fmt.Errorf("invalid --timeout %d: must be at least 1 second", seconds)
	}
	return time.Duration(seconds) * time.Second, nil
}

func runProbe(cmd *cobra.Command, args []string) error {
	deadline, err := probeDeadline(probeTimeout)
	if err != nil {
		return err
	}

	link, connInfo, err := OpenTransport()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer link.Close()

	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds\n\n", probeTimeout)

	result, reply, err := probeDevice(link, deadline)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Link error: %v\n", err)
		link.Close()
		os.Exit(2)
	}

	switch result {
	case probeBootloader:
		fmt.Printf("SUCCESS: Device is in bootloader mode\n")
		return nil
	case probeUnexpected:
		fmt.Fprintf(os.Stderr, "Unexpected reply: %s\n", riden.FormatBytes(reply))
	default:
		fmt.Fprintf(os.Stderr, "TIMEOUT: No bootloader reply within %d seconds\n", probeTimeout)
		fmt.Fprintf(os.Stderr, "A device running normal firmware stays silent; use 'info' to reboot it.\n")
	}
	link.Close()
	os.Exit(1)
	return nil
}
