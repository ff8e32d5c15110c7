// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidChannel is returned for channel indices outside [0, MaxChannel).
	ErrInvalidChannel = errors.New("channel index out of range")

	// ErrUnknownProgram is returned when no instrument is registered under a program.
	ErrUnknownProgram = errors.New("unknown program")

	// ErrDuplicateProgram is returned when a load would replace an installed program.
	ErrDuplicateProgram = errors.New("program already installed")

	// ErrNotLoaded is returned when removing a sound font that is not installed.
	ErrNotLoaded = errors.New("sound font not loaded")

	// ErrNoRegions is returned by loaders that produced an instrument without regions.
	ErrNoRegions = errors.New("instrument has no regions")

	// ErrLoadCanceled is returned when a load is abandoned through its context.
	ErrLoadCanceled = errors.New("load canceled")

	// ErrBusy is returned when a control operation gave up waiting for the
	// render pass to release the engine.
	ErrBusy = errors.New("engine busy")

	// ErrInvalidConfig is returned by New for unusable configuration values.
	ErrInvalidConfig = errors.New("invalid engine configuration")

	// ErrPoolExhausted is the panic value raised when a voice is acquired from
	// an empty pool. It marks a broken sizing invariant and is never returned.
	ErrPoolExhausted = errors.New("voice pool exhausted")
)

// LoadError reports a failed instrument load together with the source that
// failed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
