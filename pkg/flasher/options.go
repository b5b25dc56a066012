// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package flasher

import (
	"time"

	"github.com/rs/zerolog"
)

// Process-level defaults
const (
	DefaultDiscoveryTimeout = 2 * time.Second
	DefaultFlashTimeout     = 5 * time.Second
	DefaultSettleInterval   = 3 * time.Second
)

// Config holds the session configuration.
type Config struct {
	// Logger receives phase transitions at info level and, when Verbose is
	// set, byte-level traces at debug level.
	Logger zerolog.Logger

	// Verbose enables byte-level trace events
	Verbose bool

	// ProgressCallback is called on every state change and acknowledged chunk (optional)
	ProgressCallback ProgressCallback

	// DiscoveryTimeout applies while probing for the bootloader
	DiscoveryTimeout time.Duration

	// FlashTimeout applies to the Modbus exchange and the firmware transfer
	FlashTimeout time.Duration

	// SettleInterval is the unconditional pause after requesting a reboot
	SettleInterval time.Duration
}

func defaultConfig() Config {
	return Config{
		Logger:           zerolog.Nop(),
		DiscoveryTimeout: DefaultDiscoveryTimeout,
		FlashTimeout:     DefaultFlashTimeout,
		SettleInterval:   DefaultSettleInterval,
	}
}

// Option is a functional option for configuring a Session.
type Option func(*Config)

// WithLogger sets the logger for session events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithVerbose enables byte-level tracing of every read and write.
func WithVerbose(verbose bool) Option {
	return func(c *Config) {
		c.Verbose = verbose
	}
}

// WithProgressCallback sets a callback to track session progress.
//
// Example:
//
//	s := flasher.New(link,
//	    flasher.WithProgressCallback(func(p flasher.Progress) {
//	        fmt.Printf("%s %.1f%%\n", p.State, p.Percentage)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithDiscoveryTimeout sets the read deadline used while probing.
func WithDiscoveryTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.DiscoveryTimeout = d
		}
	}
}

// WithFlashTimeout sets the read deadline used once the device is known.
func WithFlashTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.FlashTimeout = d
		}
	}
}

// WithSettleInterval sets the pause after the reboot request. Zero disables
// the pause, which is only useful against simulated devices.
func WithSettleInterval(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.SettleInterval = d
		}
	}
}
