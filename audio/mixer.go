// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMixer converts a stream to another channel count. Narrowing
// averages the source channels folded onto each output channel (so any
// stream narrowed to one channel is the mean of all channels); widening
// repeats source channels cyclically.
type ChannelMixer struct {
	src Source
	in  int
	out int
	tmp []float32
}

func NewChannelMixer(src Source, channels int) (*ChannelMixer, error) {
	if channels <= 0 || src.Channels() <= 0 {
		return nil, fmt.Errorf("%w: %d to %d", ErrInvalidChannels, src.Channels(), channels)
	}
	return &ChannelMixer{src: src, in: src.Channels(), out: channels}, nil
}

// NewMonoMixer folds src down to one channel.
func NewMonoMixer(src Source) *ChannelMixer {
	m, _ := NewChannelMixer(src, 1)
	return m
}

func (m *ChannelMixer) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMixer) Channels() int   { return m.out }
func (m *ChannelMixer) BufSize() int    { return m.src.BufSize() }

func (m *ChannelMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("channel mixer: %w", err)
	}
	return nil
}

func (m *ChannelMixer) ReadSamples(dst []float32) (int, error) {
	if m.in == m.out {
		return m.src.ReadSamples(dst)
	}
	frames := len(dst) / m.out
	if frames == 0 {
		return 0, nil
	}

	need := frames * m.in
	if cap(m.tmp) < need {
		m.tmp = make([]float32, max(need, 8192))
	}
	n, err := m.src.ReadSamples(m.tmp[:need])
	frames = n / m.in

	for f := range frames {
		in := m.tmp[f*m.in : (f+1)*m.in]
		out := dst[f*m.out : (f+1)*m.out]
		if m.out > m.in {
			for c := range out {
				out[c] = in[c%m.in]
			}
			continue
		}
		for c := range out {
			var sum float32
			k := 0
			for j := c; j < m.in; j += m.out {
				sum += in[j]
				k++
			}
			out[c] = sum / float32(k)
		}
	}
	return frames * m.out, err
}
