// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List the serial ports a power supply may be attached to.

On Linux and macOS only USB and ACM style devices are shown, which hides the
built-in ports nobody connects a Riden to.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return fmt.Errorf("error listing ports: %w", err)
	}

	fmt.Println("Available serial ports:")

	ports = filterPorts(ports, runtime.GOOS)
	if len(ports) == 0 {
		fmt.Println("  No ports found")
		return nil
	}

	fmt.Println(portTable(ports))
	return nil
}

// filterPorts drops ports that cannot be a USB serial adapter on goos
func filterPorts(ports []*enumerator.PortDetails, goos string) []*enumerator.PortDetails {
	if goos == "windows" {
		return ports
	}

	filtered := make([]*enumerator.PortDetails, 0, len(ports))
	for _, port := range ports {
		if strings.Contains(port.Name, "/tty.") ||
			strings.Contains(port.Name, "/ttyUSB") ||
			strings.Contains(port.Name, "/ttyACM") {
			filtered = append(filtered, port)
		}
	}
	return filtered
}

// portRow returns the Port, Type and Info cells for one port
func portRow(port *enumerator.PortDetails) []string {
	if !port.IsUSB {
		return []string{port.Name, "Unknown", ""}
	}

	product := port.Product
	if product == "" {
		product = "Unknown"
	}
	info := fmt.Sprintf("%s (%s:%s)", product, strings.ToLower(port.VID), strings.ToLower(port.PID))
	return []string{port.Name, "USB", info}
}

func portTable(ports []*enumerator.PortDetails) *table.Table {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("Port", "Type", "Info").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, port := range ports {
		t.Row(portRow(port)...)
	}
	return t
}
