// SPDX-License-Identifier: EPL-2.0

package zampler

import (
	"context"
	"testing"

	"github.com/ik5/zampler/synth"
)

const testRate = 8000

// dcSource builds an instrument playing a constant half-scale sample.
type dcSource struct{ frames int }

func (dcSource) Name() string { return "dc" }

func (s dcSource) Load(_ context.Context, progress func(int)) (*synth.Instrument, error) {
	data := make([]float32, s.frames)
	for i := range data {
		data[i] = 0.5
	}
	progress(100)
	r := synth.NewRegion(&synth.Sample{Name: "dc", SampleRate: testRate, Channels: 1, Frames: data})
	return &synth.Instrument{Program: 0, Name: "dc", Regions: []*synth.Region{r}}, nil
}

func newTestEngine(t *testing.T) *synth.Engine {
	t.Helper()

	cfg := synth.DefaultConfig()
	cfg.SampleRate = testRate
	cfg.Polyphony = 16
	eng, err := synth.New(cfg)
	if err != nil {
		t.Fatalf("synth.New() error = %v", err)
	}
	if _, err := eng.Load(context.Background(), dcSource{frames: testRate * 4}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return eng
}
