// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rdtools/rdflash/pkg/firmware"
	"github.com/rdtools/rdflash/pkg/flasher"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var useFlashTUI bool

var flashCmd = &cobra.Command{
	Use:   "flash <firmware>",
	Short: "Flash a firmware image",
	Long: `Upload a firmware image to the power supply.

The image is either a raw binary or an Intel HEX file (.hex, .ihex, .ihx).
The device is rebooted into its bootloader if needed, identified, and only
flashed if its model is supported.

An interrupted update is not resumed: rerun the command, the device stays in
its bootloader until a complete image has been written.`,
	Args: cobra.ExactArgs(1),
	RunE: runFlash,
}

func init() {
	rootCmd.AddCommand(flashCmd)
	flashCmd.Flags().BoolVar(&useFlashTUI, "tui", false, "Use terminal UI")
}

func runFlash(cmd *cobra.Command, args []string) error {
	img, err := firmware.Load(args[0])
	if err != nil {
		return flasher.NewImageSourceError(err)
	}

	link, connInfo, err := OpenTransport()
	if err != nil {
		return err
	}
	defer link.Close()

	if useFlashTUI {
		return runFlashTUI(link, connInfo, img)
	}

	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Firmware image size: %d bytes\n", img.Size())

	progress := newTextProgress(os.Stdout, img.Size(), isTerminal(os.Stdout))
	s := flasher.New(link,
		flasher.WithLogger(newLogger(os.Stderr, verbose)),
		flasher.WithVerbose(verbose),
		flasher.WithProgressCallback(progress.Update),
	)

	_, err = s.Run(img.Data)
	progress.Close()
	return reportFlash(os.Stdout, s, err)
}

// reportFlash prints what the session learned and how the update ended. It
// must only be called once the session has stopped.
func reportFlash(w io.Writer, s *flasher.Session, err error) error {
	printSession(w, s)
	if err != nil {
		return fmt.Errorf("firmware update failed: %w", err)
	}

	fmt.Fprintln(w, "Firmware update complete.")
	if verbose {
		fmt.Fprint(w, s.Stats())
	}
	return nil
}

// textProgress shows transfer progress as a bar on a terminal, or as one dot
// per acknowledged chunk otherwise.
type textProgress struct {
	w      io.Writer
	bar    *progressbar.ProgressBar
	chunks int
	active bool
}

func newTextProgress(w io.Writer, total int, fancy bool) *textProgress {
	tp := &textProgress{w: w}
	if fancy {
		tp.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Updating firmware"),
			progressbar.OptionShowBytes(true),
		)
	}
	return tp
}

// Update is the session progress callback
func (tp *textProgress) Update(p flasher.Progress) {
	if p.State != flasher.StateTransferring {
		return
	}

	if !tp.active {
		tp.active = true
		if tp.bar == nil {
			fmt.Fprint(tp.w, "Updating firmware...")
		}
	}

	if tp.bar != nil {
		_ = tp.bar.Set(p.BytesWritten)
		return
	}
	for ; tp.chunks < p.Chunk; tp.chunks++ {
		fmt.Fprint(tp.w, ".")
	}
}

// Close ends the progress line if one was started
func (tp *textProgress) Close() {
	if !tp.active {
		return
	}
	if tp.bar != nil {
		_ = tp.bar.Exit()
	}
	fmt.Fprintln(tp.w)
}
