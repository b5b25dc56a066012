// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package flasher drives the firmware update of a Riden power supply.
//
// A Session owns one transport and walks the device through bootloader
// detection, identification, model validation and the chunked firmware
// transfer. Every phase is a blocking call that either advances the state
// machine or moves it to StateFailed with a tagged *Error. Nothing is
// retried: an interrupted transfer leaves the device to its bootloader.
package flasher

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/rdtools/rdflash/pkg/riden"
	"github.com/rdtools/rdflash/pkg/transport"
	"github.com/rs/zerolog"
)

// Session runs the update protocol against a single device.
//
// A Session is not safe for concurrent use and must be the only user of its
// transport. It never closes the transport.
type Session struct {
	link   transport.Transport
	config Config
	log    zerolog.Logger
	stats  *Statistics
	start  time.Time

	state       State
	identity    riden.Identity
	hasIdentity bool
	legacy      riden.Identity
	hasLegacy   bool

	totalChunks int
	totalBytes  int
	acked       int
	ackedBytes  int
}

// New creates a Session over an already-open transport.
//
// Example:
//
//	link, _ := transport.OpenSerial(transport.DefaultSerialConfig("/dev/ttyUSB0"))
//	defer link.Close()
//	s := flasher.New(link, flasher.WithLogger(logger), flasher.WithVerbose(true))
//	id, err := s.Run(image)
func New(link transport.Transport, opts ...Option) *Session {
	if link == nil {
		panic("transport cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Session{
		link:   link,
		config: cfg,
		log:    cfg.Logger.With().Str("component", "flasher").Logger(),
		stats:  NewStatistics(),
		start:  time.Now(),
		state:  StateIdle,
	}
}

// State returns the current state
func (s *Session) State() State {
	return s.state
}

// Identity returns the identity read from the bootloader, if known yet.
func (s *Session) Identity() (riden.Identity, bool) {
	return s.identity, s.hasIdentity
}

// LegacyIdentity returns the identity read over Modbus before the reboot.
// It is informational only and absent when the device was already in its
// bootloader.
func (s *Session) LegacyIdentity() (riden.Identity, bool) {
	return s.legacy, s.hasLegacy
}

// Stats returns the traffic statistics of the session
func (s *Session) Stats() *Statistics {
	return s.stats
}

// Run performs the whole update: detect the bootloader, identify the device,
// check the model and transfer image. A nil image stops after the model
// check, which is enough to identify a device.
func (s *Session) Run(image []byte) (riden.Identity, error) {
	if err := s.DetectBootloader(); err != nil {
		return riden.Identity{}, err
	}

	id, err := s.QueryIdentity()
	if err != nil {
		return riden.Identity{}, err
	}

	if err := s.ValidateModel(); err != nil {
		return id, err
	}

	if image == nil {
		return id, nil
	}

	return id, s.Transfer(image)
}

// DetectBootloader asks the device whether it is in bootloader mode. A
// device running its normal firmware is identified over Modbus and told to
// reboot into the bootloader, followed by the settle pause.
func (s *Session) DetectBootloader() error {
	if s.state != StateIdle {
		return s.invalid("detect bootloader")
	}

	if err := s.setDeadline(s.config.DiscoveryTimeout); err != nil {
		return s.fail(err)
	}

	s.log.Info().Msg("checking if device is in bootloader mode")
	s.transition(StateBootloaderUnconfirmed)

	if err := s.write(riden.CmdQuery); err != nil {
		return s.fail(err)
	}
	reply, err := s.read(len(riden.ReplyBoot))
	if err != nil {
		return s.fail(err)
	}

	if bytes.Equal(reply, riden.ReplyBoot) {
		s.log.Info().Msg("device is in bootloader mode")
		s.transition(StateBootloaderConfirmed)
		return nil
	}

	s.log.Info().Msg("device is running normal firmware")
	s.transition(StateLegacyDetected)
	return s.enterBootloader()
}

// enterBootloader identifies a device running normal firmware and reboots it
// into the bootloader.
func (s *Session) enterBootloader() error {
	if err := s.setDeadline(s.config.FlashTimeout); err != nil {
		return s.fail(err)
	}

	if err := s.write(riden.ReadIdentityRequest); err != nil {
		return s.fail(err)
	}
	resp, err := s.read(riden.IdentityResponseSize)
	if err != nil {
		return s.fail(err)
	}
	if len(resp) == 0 {
		return s.fail(&Error{Kind: KindTimeout, Msg: "no response from device", Chunk: -1})
	}

	id, err := riden.DecodeLegacyIdentity(resp)
	if err != nil {
		return s.fail(&Error{
			Kind:  KindProtocolViolation,
			Msg:   "invalid response",
			Chunk: -1,
			Got:   resp,
			Err:   err,
		})
	}
	s.legacy, s.hasLegacy = id, true

	s.log.Info().
		Str("model", id.Name()).
		Uint16("code", id.Model).
		Str("firmware", id.Version()).
		Msg("found device via Modbus")

	s.log.Info().Msg("rebooting into bootloader mode")
	s.transition(StateRebootRequested)

	if err := s.write(riden.RebootRequest); err != nil {
		return s.fail(err)
	}
	ack, err := s.read(riden.RebootAckSize)
	if err != nil {
		return s.fail(err)
	}
	if !bytes.Equal(ack, []byte{riden.RebootAck}) {
		return s.fail(&Error{
			Kind:  KindProtocolViolation,
			Msg:   "failed to reboot device",
			Chunk: -1,
			Got:   ack,
		})
	}

	if s.config.SettleInterval > 0 {
		s.log.Debug().Dur("interval", s.config.SettleInterval).Msg("waiting for device to restart")
		time.Sleep(s.config.SettleInterval)
	}

	s.transition(StateBootloaderConfirmed)
	return nil
}

// QueryIdentity reads model, firmware version and serial number from the
// bootloader.
func (s *Session) QueryIdentity() (riden.Identity, error) {
	if s.state != StateBootloaderConfirmed {
		return riden.Identity{}, s.invalid("query identity")
	}

	if err := s.write(riden.CmdGetInfo); err != nil {
		return riden.Identity{}, s.fail(err)
	}
	resp, err := s.read(riden.InfoResponseSize)
	if err != nil {
		return riden.Identity{}, s.fail(err)
	}
	if len(resp) == 0 {
		return riden.Identity{}, s.fail(&Error{Kind: KindTimeout, Msg: "no response from bootloader", Chunk: -1})
	}

	id, err := riden.DecodeBootloaderIdentity(resp)
	if err != nil {
		return riden.Identity{}, s.fail(&Error{
			Kind:  KindProtocolViolation,
			Msg:   "invalid bootloader response",
			Chunk: -1,
			Got:   resp,
			Err:   err,
		})
	}
	s.identity, s.hasIdentity = id, true

	s.log.Info().
		Str("model", id.Name()).
		Uint16("code", id.Model).
		Str("firmware", id.Version()).
		Uint32("serial", id.Serial).
		Msg("device information from bootloader")

	s.transition(StateIdentityKnown)
	return id, nil
}

// ValidateModel refuses to continue with a model outside the registry.
func (s *Session) ValidateModel() error {
	if s.state != StateIdentityKnown {
		return s.invalid("validate model")
	}

	if !riden.IsSupported(s.identity.Model) {
		return s.fail(&Error{
			Kind:  KindUnsupportedModel,
			Msg:   "unsupported device model",
			Chunk: -1,
			Model: s.identity.Model,
		})
	}

	s.transition(StateModelValidated)
	return nil
}

// Transfer sends image in 64 byte chunks, each acknowledged by the device.
// The first bad acknowledgment aborts the transfer; nothing is rolled back.
func (s *Session) Transfer(image []byte) error {
	if s.state != StateModelValidated {
		return s.invalid("transfer firmware")
	}

	chunks := riden.Chunks(image)
	s.totalChunks = len(chunks)
	s.totalBytes = len(image)

	if err := s.setDeadline(s.config.FlashTimeout); err != nil {
		return s.fail(err)
	}

	s.log.Info().Int("bytes", len(image)).Int("chunks", len(chunks)).Msg("updating firmware")
	s.transition(StateTransferring)

	if err := s.write(riden.CmdStartUpdate); err != nil {
		return s.fail(err)
	}
	resp, err := s.read(len(riden.ReplyReady))
	if err != nil {
		return s.fail(err)
	}
	if err := riden.ValidateToken(resp, riden.ReplyReady); err != nil {
		return s.fail(&Error{
			Kind:  KindProtocolViolation,
			Msg:   "failed to initiate flashing",
			Chunk: -1,
			Got:   resp,
		})
	}

	for i, chunk := range chunks {
		if err := s.write(chunk); err != nil {
			return s.fail(atChunk(err, i))
		}
		ack, err := s.read(len(riden.ReplyOK))
		if err != nil {
			return s.fail(atChunk(err, i))
		}
		if !bytes.Equal(ack, riden.ReplyOK) {
			return s.fail(&Error{
				Kind:  KindProtocolViolation,
				Msg:   "flash failed",
				Chunk: i,
				Got:   ack,
			})
		}

		s.acked++
		s.ackedBytes += len(chunk)
		s.stats.RecordChunk(len(chunk))
		s.report(s.state)
	}

	s.log.Info().
		Int("chunks", s.acked).
		Dur("elapsed", time.Since(s.start)).
		Msg("firmware update complete")
	s.transition(StateComplete)
	return nil
}

// transition moves to next and reports it.
func (s *Session) transition(next State) {
	s.log.Debug().Stringer("from", s.state).Stringer("to", next).Msg("state change")
	s.state = next
	s.report(next)
}

// fail moves the session to StateFailed, stamping err with the phase it
// happened in.
func (s *Session) fail(err error) error {
	var e *Error
	if errors.As(err, &e) {
		e.Phase = s.state
	}
	s.log.Error().Err(err).Stringer("state", s.state).Msg("session failed")
	s.state = StateFailed
	s.report(StateFailed)
	return err
}

// invalid rejects a phase called out of order.
func (s *Session) invalid(op string) error {
	err := fmt.Errorf("%s in state %s: %w", op, s.state, ErrInvalidState)
	if !s.state.IsTerminal() {
		s.state = StateFailed
		s.report(StateFailed)
	}
	return err
}

func (s *Session) report(state State) {
	if s.config.ProgressCallback == nil {
		return
	}
	p := Progress{
		State:        state,
		Chunk:        s.acked,
		TotalChunks:  s.totalChunks,
		BytesWritten: s.ackedBytes,
		TotalBytes:   s.totalBytes,
		ElapsedTime:  time.Since(s.start),
	}
	switch {
	case state == StateComplete:
		p.Percentage = 100
	case s.totalBytes > 0:
		p.Percentage = float64(s.ackedBytes) * 100 / float64(s.totalBytes)
	}
	s.config.ProgressCallback(p)
}

func (s *Session) setDeadline(d time.Duration) error {
	if err := s.link.SetDeadline(d); err != nil {
		return &Error{Kind: KindTransportFailure, Msg: "set deadline", Chunk: -1, Err: err}
	}
	return nil
}

func (s *Session) write(p []byte) error {
	if s.config.Verbose {
		s.log.Debug().Int("len", len(p)).Hex("data", p).Msg("write")
	}
	if err := s.link.WriteAll(p); err != nil {
		return &Error{Kind: KindTransportFailure, Msg: "write failed", Chunk: -1, Err: err}
	}
	s.stats.RecordWrite(len(p))
	return nil
}

func (s *Session) read(n int) ([]byte, error) {
	if s.config.Verbose {
		s.log.Debug().Int("want", n).Msg("waiting for data")
	}
	data, err := s.link.ReadUpTo(n)
	if err != nil {
		return nil, &Error{Kind: KindTransportFailure, Msg: "read failed", Chunk: -1, Err: err}
	}
	s.stats.RecordRead(len(data))
	if s.config.Verbose {
		s.log.Debug().Int("len", len(data)).Hex("data", data).Msg("read")
	}
	return data, nil
}

// atChunk tags a transfer-phase error with the chunk index.
func atChunk(err error, i int) error {
	var e *Error
	if errors.As(err, &e) {
		e.Chunk = i
	}
	return err
}
