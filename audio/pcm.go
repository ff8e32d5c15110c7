// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// PCM is a fully decoded, interleaved stream.
type PCM struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// Frames returns the number of sample frames.
func (p *PCM) Frames() int {
	if p.Channels == 0 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

// ReadAll drains src into memory and closes it. maxFrames bounds the
// result; zero means no limit.
func ReadAll(src Source, maxFrames int) (*PCM, error) {
	defer src.Close()

	ch := src.Channels()
	if ch <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, ch)
	}

	size := src.BufSize()
	if size < ch {
		size = 4096
	}
	size -= size % ch
	buf := make([]float32, size)

	p := &PCM{SampleRate: src.SampleRate(), Channels: ch}
	for {
		n, err := src.ReadSamples(buf)
		p.Samples = append(p.Samples, buf[:n]...)
		if maxFrames > 0 && len(p.Samples) > maxFrames*ch {
			return nil, fmt.Errorf("%w: more than %d frames", ErrTooLong, maxFrames)
		}
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read samples: %w", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("read samples: %w", io.ErrNoProgress)
		}
	}
}

// SliceSource plays back an in-memory interleaved buffer.
type SliceSource struct {
	rate     int
	channels int
	data     []float32
	pos      int
}

// NewSliceSource returns a Source over p's samples.
func NewSliceSource(p *PCM) *SliceSource {
	return &SliceSource{rate: p.SampleRate, channels: p.Channels, data: p.Samples}
}

func (s *SliceSource) SampleRate() int { return s.rate }
func (s *SliceSource) Channels() int   { return s.channels }
func (s *SliceSource) BufSize() int    { return 4096 }
func (s *SliceSource) Close() error    { return nil }

func (s *SliceSource) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(dst[:len(dst)-len(dst)%s.channels], s.data[s.pos:])
	s.pos += n
	if s.pos >= len(s.data) {
		return n, io.EOF
	}
	return n, nil
}
