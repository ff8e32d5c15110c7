// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"fmt"
	"log/slog"
)

const (
	// MaxVoices is the default polyphony: the number of pre-allocated voices.
	MaxVoices = 512

	// MaxChannel is the number of addressable channels.
	MaxChannel = 64

	// MaxTrigger bounds how many regions a single trigger can sound.
	MaxTrigger = 512

	// DefaultMasterTuning is the frequency of A4 in Hz.
	DefaultMasterTuning = 440.0
)

// Config holds the engine construction parameters.
type Config struct {
	// SampleRate of the rendered output in Hz.
	SampleRate int
	// Polyphony is the voice pool capacity.
	Polyphony int
	// MasterTuning is the initial frequency of A4 in Hz.
	MasterTuning float64
	// EventQueueSize is the capacity of the queue drained by Render.
	EventQueueSize int
	// BlockSize is the largest frame count RenderInterleaved handles per
	// internal pass; larger requests are split.
	BlockSize int
	// Logger receives control-path diagnostics. nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used by New when no overrides are
// needed.
func DefaultConfig() Config {
	return Config{
		SampleRate:     48000,
		Polyphony:      MaxVoices,
		MasterTuning:   DefaultMasterTuning,
		EventQueueSize: 1024,
		BlockSize:      1024,
	}
}

func (c Config) validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	case c.Polyphony <= 0:
		return fmt.Errorf("%w: polyphony %d", ErrInvalidConfig, c.Polyphony)
	case c.MasterTuning <= 0:
		return fmt.Errorf("%w: master tuning %g", ErrInvalidConfig, c.MasterTuning)
	case c.EventQueueSize <= 0:
		return fmt.Errorf("%w: event queue size %d", ErrInvalidConfig, c.EventQueueSize)
	case c.BlockSize <= 0:
		return fmt.Errorf("%w: block size %d", ErrInvalidConfig, c.BlockSize)
	}
	return nil
}
