// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package flasher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rdtools/rdflash/pkg/riden"
)

// Kind classifies a session failure
type Kind int

// Failure kinds
const (
	KindTimeout Kind = iota + 1
	KindProtocolViolation
	KindUnsupportedModel
	KindTransportFailure
	KindImageSourceFailure
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrTimeout            = errors.New("timeout")
	ErrProtocolViolation  = errors.New("protocol violation")
	ErrUnsupportedModel   = errors.New("unsupported model")
	ErrTransportFailure   = errors.New("transport failure")
	ErrImageSourceFailure = errors.New("image source failure")

	// ErrInvalidState is returned when a phase is called out of order or
	// after the session has finished.
	ErrInvalidState = errors.New("invalid session state")
)

func (k Kind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return "unknown"
}

func (k Kind) sentinel() error {
	switch k {
	case KindTimeout:
		return ErrTimeout
	case KindProtocolViolation:
		return ErrProtocolViolation
	case KindUnsupportedModel:
		return ErrUnsupportedModel
	case KindTransportFailure:
		return ErrTransportFailure
	case KindImageSourceFailure:
		return ErrImageSourceFailure
	default:
		return nil
	}
}

// Error is a tagged session failure. Got holds the offending reply for
// protocol violations; Chunk is the zero-based chunk index during transfer
// and -1 elsewhere.
type Error struct {
	Kind  Kind
	Phase State
	Msg   string
	Chunk int
	Got   []byte
	Model uint16
	Err   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Phase.String())
	sb.WriteString(": ")
	if e.Msg != "" {
		sb.WriteString(e.Msg)
	} else {
		sb.WriteString(e.Kind.String())
	}
	if e.Chunk >= 0 {
		fmt.Fprintf(&sb, " at chunk %d", e.Chunk)
	}
	if e.Kind == KindUnsupportedModel {
		fmt.Fprintf(&sb, " %d", e.Model)
	}
	if e.Kind == KindProtocolViolation {
		fmt.Fprintf(&sb, ": got %s", riden.FormatBytes(e.Got))
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// NewImageSourceError tags a failure to obtain the firmware bytes.
func NewImageSourceError(err error) *Error {
	return &Error{
		Kind:  KindImageSourceFailure,
		Phase: StateIdle,
		Msg:   "failed to load firmware",
		Chunk: -1,
		Err:   err,
	}
}

// KindOf returns the kind of a session error, or 0 if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
