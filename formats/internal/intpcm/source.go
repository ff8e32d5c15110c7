// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts the integer PCM decoders of github.com/go-audio
// to audio.Source.
package intpcm

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

var ErrBitDepth = errors.New("unsupported PCM bit depth")

// Reader is the part of the go-audio wav and aiff decoders the source uses.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source normalises integer samples to [-1,1).
type Source struct {
	dec      Reader
	rate     int
	channels int
	scale    float32
	offset   int
	// wrap maps signed 8-bit data delivered as bytes (0..255) back to
	// -128..127.
	wrap bool
	buf  *goaudio.IntBuffer
}

// NewSource wraps dec. Unsigned marks 8-bit data stored unsigned, as WAV
// does. Signed 8-bit data, as in AIFF, may arrive as raw byte values and is
// sign-extended.
func NewSource(dec Reader, bitDepth int, unsigned bool) (*Source, error) {
	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, errors.New("missing PCM format")
	}

	s := &Source{dec: dec, rate: format.SampleRate, channels: format.NumChannels}
	switch bitDepth {
	case 8:
		s.scale = 128
		if unsigned {
			s.offset = 128
		} else {
			s.wrap = true
		}
	case 16:
		s.scale = 32768
	case 24:
		s.scale = 8388608
	case 32:
		s.scale = 2147483648
	default:
		return nil, fmt.Errorf("%w: %d", ErrBitDepth, bitDepth)
	}
	s.buf = &goaudio.IntBuffer{Format: format, Data: make([]int, 4096), SourceBitDepth: bitDepth}
	return s, nil
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return cap(s.buf.Data) }
func (s *Source) Close() error    { return nil }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}
	if cap(s.buf.Data) < want {
		s.buf.Data = make([]int, want)
	}
	s.buf.Data = s.buf.Data[:want]

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("pcm: %w", err)
	}
	for i, v := range s.buf.Data[:n] {
		if s.wrap && v >= 128 {
			v -= 256
		}
		dst[i] = float32(v-s.offset) / s.scale
	}
	if n == 0 || n < want || err != nil {
		return n, io.EOF
	}
	return n, nil
}
