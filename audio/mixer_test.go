// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"testing"

	"github.com/ik5/zampler/internal/audiotest"
)

func TestChannelMixer(t *testing.T) {
	t.Parallel()

	// channel c of every frame holds c+1
	wave := func(_, c int) float32 { return float32(c + 1) }

	tests := []struct {
		name    string
		in, out int
		want    []float32 // one output frame
	}{
		{"stereo to mono", 2, 1, []float32{1.5}},
		{"quad to mono", 4, 1, []float32{2.5}},
		{"quad to stereo", 4, 2, []float32{2, 3}},
		{"mono to stereo", 1, 2, []float32{1, 1}},
		{"stereo to quad", 2, 4, []float32{1, 2, 1, 2}},
		{"passthrough", 2, 2, []float32{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := NewChannelMixer(audiotest.NewSource(8000, tt.in, 10, wave), tt.out)
			if err != nil {
				t.Fatalf("NewChannelMixer() error = %v", err)
			}
			if m.Channels() != tt.out || m.SampleRate() != 8000 {
				t.Errorf("Channels, SampleRate = %d, %d", m.Channels(), m.SampleRate())
			}

			got := collect(t, m, 4*tt.out+1)
			if len(got) != 10*tt.out {
				t.Fatalf("read %d samples, want %d", len(got), 10*tt.out)
			}
			for i, v := range got {
				if v != tt.want[i%tt.out] {
					t.Fatalf("sample %d = %v, want %v", i, v, tt.want[i%tt.out])
				}
			}
		})
	}
}

func TestChannelMixer_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := NewChannelMixer(audiotest.Silence(8000, 2, 1), 0); !errors.Is(err, ErrInvalidChannels) {
		t.Errorf("NewChannelMixer(0) error = %v, want ErrInvalidChannels", err)
	}
}

func TestMonoMixer_ShortDst(t *testing.T) {
	t.Parallel()

	m := NewMonoMixer(audiotest.Silence(8000, 2, 10))
	if n, err := m.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v", n, err)
	}
}

func TestChannelMixer_Close(t *testing.T) {
	t.Parallel()

	src := audiotest.Silence(8000, 2, 10)
	if err := NewMonoMixer(src).Close(); err != nil || !src.Closed {
		t.Errorf("Close() = %v, source closed = %v", err, src.Closed)
	}
}
