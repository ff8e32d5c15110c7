// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/zampler/audio"
)

// go-mp3 always produces 16-bit little-endian stereo.
const (
	channels   = 2
	frameBytes = 2 * channels
)

// pcmReader is the part of gomp3.Decoder the source reads from.
type pcmReader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec pcmReader
	buf []byte
	// pending holds the bytes of a frame split across two reads.
	pending int
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	frames := len(dst) / channels
	if frames == 0 {
		return 0, nil
	}
	need := frames * frameBytes
	if cap(s.buf) < need {
		nb := make([]byte, need)
		copy(nb, s.buf[:s.pending])
		s.buf = nb
	}
	s.buf = s.buf[:need]

	n, err := s.dec.Read(s.buf[s.pending:])
	n += s.pending
	whole := n - n%frameBytes
	for i := 0; i < whole; i += 2 {
		dst[i/2] = float32(int16(binary.LittleEndian.Uint16(s.buf[i:]))) / 32768
	}
	s.pending = copy(s.buf, s.buf[whole:n])

	switch {
	case errors.Is(err, io.EOF):
		return whole / 2, io.EOF
	case err != nil:
		return whole / 2, fmt.Errorf("mp3: %w", err)
	}
	return whole / 2, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	return &source{dec: dec, buf: make([]byte, 8192)}, nil
}
