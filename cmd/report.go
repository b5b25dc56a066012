// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rdtools/rdflash/pkg/flasher"
	"github.com/rdtools/rdflash/pkg/riden"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// formatIdentity renders the bootloader identity the way the device reports it
func formatIdentity(id riden.Identity) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("   Model:"), valueStyle.Render(fmt.Sprintf("%s (%d)", id.Name(), id.Model)))
	fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("Firmware:"), valueStyle.Render("v"+id.Version()))
	fmt.Fprintf(&sb, "%s %s", labelStyle.Render("     S/N:"), valueStyle.Render(fmt.Sprintf("%08d", id.Serial)))
	if !riden.IsSupported(id.Model) {
		sb.WriteString("\n")
		sb.WriteString(failStyle.Render("Unsupported model"))
	}
	return sb.String()
}

// printSession prints what the session learned about the device
func printSession(w io.Writer, s *flasher.Session) {
	if legacy, ok := s.LegacyIdentity(); ok {
		fmt.Fprintf(w, "Found device via Modbus: %s\n", legacy)
	}
	if id, ok := s.Identity(); ok {
		fmt.Fprintln(w, "Device information from bootloader:")
		fmt.Fprintln(w, boxStyle.Render(formatIdentity(id)))
	}
}
