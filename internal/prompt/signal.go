// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// package prompt implements the interactive selection engine. A prompter
// drives a selection widget (the "quick pick") and converts its
// event-driven accept/hide/button activity into a single awaitable
// Result. Item payloads may be immediate values, deferred producers that
// are only invoked once selected, or flow-control signals from the
// surrounding wizard layer.
package prompt

// Signal is a flow-control value a prompt can resolve to instead of user
// data, e.g. when the user presses a back button in a multi-step flow.
type Signal int

const (
	// SignalBack asks the wizard layer to return to the previous step.
	SignalBack Signal = iota + 1
	// SignalExit asks the wizard layer to abandon the whole flow.
	SignalExit
	// SignalRetry asks the wizard layer to re-run the current step.
	SignalRetry
)

// String returns the signal name used in logs.
func (s Signal) String() string {
	switch s {
	case SignalBack:
		return "back"
	case SignalExit:
		return "exit"
	case SignalRetry:
		return "retry"
	default:
		return "unknown"
	}
}
