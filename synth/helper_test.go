// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"
)

const testRate = 48000

// sineSample returns a mono sine of the given length at testRate.
func sineSample(frames int, hz float64) *Sample {
	data := make([]float32, frames)
	for i := range data {
		data[i] = float32(math.Sin(2 * math.Pi * hz * float64(i) / testRate))
	}
	return &Sample{Name: "sine", SampleRate: testRate, Channels: 1, Frames: data}
}

// constSample returns a mono sample holding v.
func constSample(frames int, v float32) *Sample {
	data := make([]float32, frames)
	for i := range data {
		data[i] = v
	}
	return &Sample{Name: "const", SampleRate: testRate, Channels: 1, Frames: data}
}

func testInstrument(program int, name string, regions ...*Region) *Instrument {
	return &Instrument{Program: program, Name: name, Regions: regions}
}

// staticSource hands out a prepared instrument or error.
type staticSource struct {
	name string
	in   *Instrument
	err  error
	// onLoad runs at the start of Load.
	onLoad func(ctx context.Context) error
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Load(ctx context.Context, progress func(int)) (*Instrument, error) {
	if s.onLoad != nil {
		if err := s.onLoad(ctx); err != nil {
			return nil, err
		}
	}
	progress(50)
	if s.err != nil {
		return nil, s.err
	}
	return s.in, nil
}

func newTestEngine(t *testing.T, polyphony int) *Engine {
	t.Helper()

	cfg := DefaultConfig()
	cfg.SampleRate = testRate
	cfg.Polyphony = polyphony
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

// install loads in into e and selects it on channel 0.
func install(t *testing.T, e *Engine, in *Instrument) Patch {
	t.Helper()

	p, err := e.Load(context.Background(), &staticSource{name: in.Name, in: in})
	if err != nil {
		t.Fatalf("Load(%s) error = %v", in.Name, err)
	}
	return p
}

func selectProgram(t *testing.T, e *Engine, ch, program int) {
	t.Helper()

	if err := e.ProgramChange(ch, program); err != nil {
		t.Fatalf("ProgramChange(%d, %d) error = %v", ch, program, err)
	}
}

// pianoEngine returns an engine with one full-range sine instrument on
// program 0 selected on channel 0.
func pianoEngine(t *testing.T, polyphony int) *Engine {
	t.Helper()

	e := newTestEngine(t, polyphony)
	install(t, e, testInstrument(0, "piano", NewRegion(sineSample(testRate, 261.63))))
	selectProgram(t, e, 0, 0)
	return e
}

func peak(buf []float32) float32 {
	var p float32
	for _, v := range buf {
		if v < 0 {
			v = -v
		}
		p = max(p, v)
	}
	return p
}

func channelVoices(e *Engine, ch int) []*Voice {
	var out []*Voice
	c := &e.channels[ch]
	for v := c.first(e.pool); v != nil; v = c.next(e.pool, v) {
		out = append(out, v)
	}
	return out
}
