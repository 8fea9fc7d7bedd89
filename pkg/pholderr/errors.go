// Package pholderr defines the fatal/non-fatal error taxonomy shared across
// the scheduler, collectives, and configuration validation. Callers wrap
// these sentinels with fmt.Errorf("...: %w", ...) rather than defining
// per-site custom error types.
package pholderr

import "errors"

var (
	// ErrConfigInvalid signals a configuration parameter out of range,
	// surfaced before any scheduling begins.
	ErrConfigInvalid = errors.New("configuration invalid")

	// ErrCausalityViolation signals an event observed with arrival < LVT.
	// Fatal: a programming bug under the conservative protocol, not a
	// recoverable condition.
	ErrCausalityViolation = errors.New("causality violation")

	// ErrCollectiveProtocolViolation signals an unexpected early/late/other
	// message during the init broadcast or complete reduce.
	ErrCollectiveProtocolViolation = errors.New("collective protocol violation")

	// ErrStopReachedWithoutLiveEvent signals that setup exhausted its retry
	// budget without scheduling any event with arrival < stop.
	ErrStopReachedWithoutLiveEvent = errors.New("stop reached without live event")
)

// ExitCode maps a fatal error to a process exit code. Returns 1 for
// anything not specifically recognized (treated as a configuration problem,
// the earliest possible failure point).
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrCausalityViolation):
		return 2
	case errors.Is(err, ErrCollectiveProtocolViolation):
		return 3
	default:
		return 1
	}
}
