// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package flasher

// State is a position in the flashing state machine
type State int

// Session states. Complete and Failed are terminal.
const (
	StateIdle State = iota
	StateBootloaderUnconfirmed
	StateLegacyDetected
	StateRebootRequested
	StateBootloaderConfirmed
	StateIdentityKnown
	StateModelValidated
	StateTransferring
	StateComplete
	StateFailed
)

var stateNames = [...]string{
	StateIdle:                  "Idle",
	StateBootloaderUnconfirmed: "BootloaderUnconfirmed",
	StateLegacyDetected:        "LegacyDetected",
	StateRebootRequested:       "RebootRequested",
	StateBootloaderConfirmed:   "BootloaderConfirmed",
	StateIdentityKnown:         "IdentityKnown",
	StateModelValidated:        "ModelValidated",
	StateTransferring:          "Transferring",
	StateComplete:              "Complete",
	StateFailed:                "Failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool {
	return s == StateComplete || s == StateFailed
}
