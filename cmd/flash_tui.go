// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rdtools/rdflash/pkg/firmware"
	"github.com/rdtools/rdflash/pkg/flasher"
	"github.com/rdtools/rdflash/pkg/riden"
	"github.com/rdtools/rdflash/pkg/transport"
	"github.com/rs/zerolog"
)

// errFlashAborted is returned when the user leaves the TUI mid-update
var errFlashAborted = errors.New("firmware update aborted")

// Messages
type flashProgressMsg struct {
	progress flasher.Progress
	identity *riden.Identity
	legacy   *riden.Identity
}
type flashDoneMsg struct {
	err error
}
type flashLogMsg string

// flashModel is the TUI model for a firmware update
type flashModel struct {
	connInfo      string
	image         *firmware.Image
	bar           progress.Model
	last          flasher.Progress
	identity      *riden.Identity
	legacy        *riden.Identity
	events        []string
	maxLogEntries int
	done          bool
	err           error
	quitting      bool
	width         int
	height        int
}

func initialFlashModel(connInfo string, img *firmware.Image) flashModel {
	return flashModel{
		connInfo:      connInfo,
		image:         img,
		bar:           progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

func (m flashModel) Init() tea.Cmd {
	return nil
}

func (m flashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = msg.Width - 8
		if m.bar.Width > 60 {
			m.bar.Width = 60
		}

	case flashProgressMsg:
		m.last = msg.progress
		if msg.identity != nil {
			m.identity = msg.identity
		}
		if msg.legacy != nil {
			m.legacy = msg.legacy
		}

	case flashLogMsg:
		m.events = append(m.events, string(msg))
		if len(m.events) > m.maxLogEntries {
			m.events = m.events[len(m.events)-m.maxLogEntries:]
		}

	case flashDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

func (m flashModel) View() string {
	if m.quitting && !m.done {
		return "Aborting...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("RDFLASH - FIRMWARE UPDATE"))
	s.WriteString("\n")
	s.WriteString(dimStyle.Render(fmt.Sprintf("%s | Image: %s | Press 'q' to quit", m.connInfo, m.image)))
	s.WriteString("\n\n")

	if m.legacy != nil {
		s.WriteString(fmt.Sprintf("%s %s\n\n", labelStyle.Render("Found via Modbus:"), valueStyle.Render(m.legacy.String())))
	}
	if m.identity != nil {
		s.WriteString(boxStyle.Render(formatIdentity(*m.identity)))
		s.WriteString("\n\n")
	}

	s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("State:"), valueStyle.Render(m.last.State.String())))
	s.WriteString(m.bar.ViewAs(m.last.Percentage / 100))
	s.WriteString("\n")
	if m.last.TotalChunks > 0 {
		s.WriteString(dimStyle.Render(fmt.Sprintf("chunk %d/%d, %d/%d bytes, %s",
			m.last.Chunk, m.last.TotalChunks,
			m.last.BytesWritten, m.last.TotalBytes,
			m.last.ElapsedTime.Truncate(100*time.Millisecond))))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	switch {
	case m.done && m.err != nil:
		s.WriteString(failStyle.Render("✗ " + m.err.Error()))
		s.WriteString("\n\n")
	case m.done:
		s.WriteString(valueStyle.Render("✓ Firmware update complete."))
		s.WriteString("\n\n")
	}

	// Event log
	s.WriteString(labelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	logHeight := m.height - 16
	if logHeight < 5 {
		logHeight = 5
	}
	startIdx := len(m.events) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	logContent := strings.Builder{}
	if len(m.events) == 0 {
		logContent.WriteString(dimStyle.Render("  (no events yet)"))
	} else {
		for _, line := range m.events[startIdx:] {
			logContent.WriteString(line)
			logContent.WriteString("\n")
		}
	}

	width := m.width - 4
	if width < 20 {
		width = 20
	}
	s.WriteString(boxStyle.Width(width).Render(strings.TrimRight(logContent.String(), "\n")))

	return s.String()
}

// teaLogWriter forwards formatted log lines to the TUI event log
type teaLogWriter struct {
	p *tea.Program
}

func (w teaLogWriter) Write(b []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(b), "\n"), "\n") {
		w.p.Send(flashLogMsg(line))
	}
	return len(b), nil
}

// runFlashTUI runs the firmware update behind a bubbletea screen. The session
// runs in its own goroutine and reports through p.Send.
func runFlashTUI(link transport.Transport, connInfo string, img *firmware.Image) error {
	m := initialFlashModel(connInfo, img)
	p := tea.NewProgram(m, tea.WithAltScreen())

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        teaLogWriter{p: p},
		TimeFormat: "15:04:05.000",
		NoColor:    true,
	}).Level(level).With().Timestamp().Logger()

	var s *flasher.Session
	s = flasher.New(link,
		flasher.WithLogger(logger),
		flasher.WithVerbose(verbose),
		flasher.WithProgressCallback(func(pr flasher.Progress) {
			msg := flashProgressMsg{progress: pr}
			switch pr.State {
			case flasher.StateRebootRequested:
				if id, ok := s.LegacyIdentity(); ok {
					msg.legacy = &id
				}
			case flasher.StateIdentityKnown:
				if id, ok := s.Identity(); ok {
					msg.identity = &id
				}
			}
			p.Send(msg)
		}),
	)

	result := make(chan error, 1)
	go func() {
		_, err := s.Run(img.Data)
		result <- err
		p.Send(flashDoneMsg{err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}

	if fm, ok := final.(flashModel); ok && !fm.done {
		// Closing the link unblocks the session; whatever it was doing fails.
		link.Close()
		<-result
		printSession(os.Stdout, s)
		return errFlashAborted
	}

	// The alt screen is gone by now, so repeat the outcome on stdout.
	return reportFlash(os.Stdout, s, <-result)
}
