// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/zampler/internal/dsp"
)

// Resampler streams src at a different sample rate using cubic
// interpolation. It works on interleaved samples and preserves the channel
// count. A stream of N source frames yields ceil(N * dst / src) frames.
type Resampler struct {
	src      Source
	rate     int
	channels int
	srcRate  int

	// win holds source frames starting at absolute frame base.
	win  []float32
	base int
	// out counts frames produced; output frame k sits at source position
	// k*srcRate/rate.
	out int

	read []float32
	eof  bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	if dstRate <= 0 {
		dstRate = src.SampleRate()
	}
	ch := max(src.Channels(), 1)
	size := max(src.BufSize(), ch)
	return &Resampler{
		src:      src,
		rate:     dstRate,
		channels: ch,
		srcRate:  src.SampleRate(),
		read:     make([]float32, size-size%ch),
	}
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("resampler: %w", err)
	}
	return nil
}

func (r *Resampler) frames() int { return r.base + len(r.win)/r.channels }

// fill appends one read from the source to the window.
func (r *Resampler) fill() error {
	n, err := r.src.ReadSamples(r.read)
	r.win = append(r.win, r.read[:n-n%r.channels]...)
	if errors.Is(err, io.EOF) {
		r.eof = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("resampler: %w", err)
	}
	return nil
}

// position returns the integer and fractional source position of the next
// output frame.
func (r *Resampler) position() (int, float32) {
	num := r.out * r.srcRate
	return num / r.rate, float32(num%r.rate) / float32(r.rate)
}

// compact drops frames the interpolator can no longer reach.
func (r *Resampler) compact() {
	i, _ := r.position()
	keep := i - 1
	if drop := keep - r.base; drop > 0 {
		n := copy(r.win, r.win[drop*r.channels:])
		r.win = r.win[:n]
		r.base = keep
	}
}

// at returns channel c of absolute frame i, clamped to the frames read.
func (r *Resampler) at(i, c int) float32 {
	i = min(max(i, r.base), r.frames()-1)
	return r.win[(i-r.base)*r.channels+c]
}

// ReadSamples produces dst samples at the target rate. len(dst) must be a
// multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	r.compact()

	written := 0
	for written < len(dst) {
		i, frac := r.position()
		for !r.eof && r.frames() <= i+2 {
			if err := r.fill(); err != nil {
				return written, err
			}
		}
		if i >= r.frames() {
			return written, io.EOF
		}

		for c := range r.channels {
			dst[written+c] = dsp.CubicInterpolate(
				r.at(i-1, c), r.at(i, c), r.at(i+1, c), r.at(i+2, c), frac)
		}
		written += r.channels
		r.out++
	}
	if i, _ := r.position(); r.eof && i >= r.frames() {
		return written, io.EOF
	}
	return written, nil
}
