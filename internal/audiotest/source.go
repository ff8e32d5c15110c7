// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic audio sources and in-memory encoded
// files for tests.
package audiotest

import (
	"io"
	"math"
)

// Source generates Frames frames of Wave. It implements audio.Source
// without importing it.
type Source struct {
	Rate   int
	Chans  int
	Frames int
	Wave   func(frame, ch int) float32

	// Chunk caps the frames returned per read; zero means no cap.
	Chunk int
	// Err, when set, is returned once Frames have been produced instead of
	// io.EOF.
	Err error

	Closed bool
	pos    int
}

func NewSource(rate, channels, frames int, wave func(frame, ch int) float32) *Source {
	return &Source{Rate: rate, Chans: channels, Frames: frames, Wave: wave}
}

// Sine is a full-scale sine at hz on every channel.
func Sine(rate, channels, frames int, hz float64) *Source {
	return NewSource(rate, channels, frames, func(f, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * hz * float64(f) / float64(rate)))
	})
}

func Constant(rate, channels, frames int, v float32) *Source {
	return NewSource(rate, channels, frames, func(int, int) float32 { return v })
}

func Silence(rate, channels, frames int) *Source {
	return Constant(rate, channels, frames, 0)
}

// Ramp rises linearly from 0 towards 1; channel c is offset by c.
func Ramp(rate, channels, frames int) *Source {
	return NewSource(rate, channels, frames, func(f, c int) float32 {
		return float32(f)/float32(frames) + float32(c)
	})
}

func (s *Source) SampleRate() int { return s.Rate }
func (s *Source) Channels() int   { return s.Chans }
func (s *Source) BufSize() int    { return 4096 }

func (s *Source) Close() error {
	s.Closed = true
	return nil
}

// Rewind restarts generation from frame zero.
func (s *Source) Rewind() { s.pos = 0 }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.pos >= s.Frames {
		return 0, s.end()
	}
	frames := min(len(dst)/s.Chans, s.Frames-s.pos)
	if s.Chunk > 0 {
		frames = min(frames, s.Chunk)
	}
	for f := range frames {
		for c := range s.Chans {
			dst[f*s.Chans+c] = s.Wave(s.pos+f, c)
		}
	}
	s.pos += frames
	if s.pos >= s.Frames {
		return frames * s.Chans, s.end()
	}
	return frames * s.Chans, nil
}

func (s *Source) end() error {
	if s.Err != nil {
		return s.Err
	}
	return io.EOF
}
