// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/rdtools/rdflash/pkg/transport"
	"golang.org/x/term"
)

// passwordEnv holds the WebSocket password
const passwordEnv = "RDFLASH_PASSWORD"

// ErrNoConnection is returned when neither --port nor --url is given
var ErrNoConnection = errors.New("either --port or --url must be specified")

// GetPassword retrieves password from environment or prompts user
func GetPassword() (string, error) {
	// First check environment variable
	if pw := os.Getenv(passwordEnv); pw != "" {
		return pw, nil
	}

	// Prompt user for password (hide input)
	fmt.Fprint(os.Stderr, "Password: ")

	// Read password without echo
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(os.Stderr) // newline after password
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr) // newline after password
	return string(passwordBytes), nil
}

// OpenTransport opens either a serial or WebSocket transport based on flags.
// The returned string describes the connection for the user.
func OpenTransport() (transport.Transport, string, error) {
	if wsURL != "" {
		// WebSocket mode
		password := ""
		if wsUsername != "" {
			var err error
			password, err = GetPassword()
			if err != nil {
				return nil, "", err
			}
		}

		link, err := transport.DialWebSocket(transport.WebSocketConfig{
			URL:           wsURL,
			Username:      wsUsername,
			Password:      password,
			SkipSSLVerify: wsNoSSLVerify,
			Timeout:       transport.DefaultTimeout,
		})
		if err != nil {
			return nil, "", err
		}

		return link, fmt.Sprintf("WebSocket: %s", wsURL), nil
	}

	if portName != "" {
		// Serial mode
		cfg := transport.DefaultSerialConfig(portName)
		cfg.BaudRate = baudRate

		link, err := transport.OpenSerial(cfg)
		if err != nil {
			return nil, "", err
		}

		return link, fmt.Sprintf("Serial: %s (%d bps)", portName, baudRate), nil
	}

	return nil, "", ErrNoConnection
}
