// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestLoad_DeclaredAndAssignedPrograms(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 8)
	install(t, e, testInstrument(1, "declared", NewRegion(constSample(10, 0.5))))
	p := install(t, e, testInstrument(-1, "auto-a", NewRegion(constSample(10, 0.5))))
	q := install(t, e, testInstrument(-1, "auto-b", NewRegion(constSample(10, 0.5))))

	if p.Program != 0 {
		t.Errorf("first undeclared program = %d, want 0", p.Program)
	}
	if q.Program != 2 {
		t.Errorf("second undeclared program = %d, want 2", q.Program)
	}
	if got := e.Library().Programs(); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("Programs() = %v, want [0 1 2]", got)
	}
	if e.LoadProgress() != 100 {
		t.Errorf("LoadProgress() = %d, want 100", e.LoadProgress())
	}
}

func TestLoad_FailureLeavesLibraryUnchanged(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 8)
	install(t, e, testInstrument(0, "piano", NewRegion(constSample(10, 0.5))))
	before := e.Patches()

	tests := []struct {
		name string
		src  *staticSource
		want error
	}{
		{"no regions", &staticSource{name: "empty.sfz", in: testInstrument(1, "empty")}, ErrNoRegions},
		{"nil instrument", &staticSource{name: "nil.sfz"}, ErrNoRegions},
		{"empty sample", &staticSource{name: "bad.sfz", in: testInstrument(1, "bad", &Region{HiKey: 127, HiVel: 127, Sample: &Sample{Channels: 1, SampleRate: testRate}})}, nil},
		{"loader error", &staticSource{name: "broken.sfz", err: errors.New("missing entry")}, nil},
		{"duplicate program", &staticSource{name: "dup.sfz", in: testInstrument(0, "dup", NewRegion(constSample(10, 0.5)))}, ErrDuplicateProgram},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Load(context.Background(), tt.src)
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			var le *LoadError
			if !errors.As(err, &le) || le.Source != tt.src.name {
				t.Errorf("Load() error = %v, want LoadError for %s", err, tt.src.name)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
			if after := e.Patches(); !reflect.DeepEqual(after, before) {
				t.Errorf("Patches() = %+v, want %+v", after, before)
			}
		})
	}
}

func TestLoadAll_AllOrNothing(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 8)
	good := &staticSource{name: "good.sfz", in: testInstrument(-1, "good", NewRegion(constSample(10, 0.5)))}
	bad := &staticSource{name: "bad.sfz", err: errors.New("truncated")}

	if _, err := e.LoadAll(context.Background(), good, bad); err == nil {
		t.Fatal("LoadAll() error = nil")
	}
	if e.Library().Len() != 0 {
		t.Errorf("Len() = %d after a failed batch, want 0", e.Library().Len())
	}

	second := &staticSource{name: "second.sfz", in: testInstrument(-1, "second", NewRegion(constSample(10, 0.5)))}
	good.in = testInstrument(-1, "good", NewRegion(constSample(10, 0.5)))
	patches, err := e.LoadAll(context.Background(), good, second)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(patches) != 2 || patches[0].Program != 0 || patches[1].Program != 1 {
		t.Errorf("LoadAll() patches = %+v", patches)
	}
	if got := e.SoundFonts(); !reflect.DeepEqual(got, []string{"good.sfz", "second.sfz"}) {
		t.Errorf("SoundFonts() = %v", got)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 8)
	ctx, cancel := context.WithCancel(context.Background())
	src := &staticSource{
		name: "slow.sfz",
		in:   testInstrument(0, "slow", NewRegion(constSample(10, 0.5))),
		onLoad: func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			return ctx.Err()
		},
	}

	_, err := e.Load(ctx, src)
	if !errors.Is(err, ErrLoadCanceled) || !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want ErrLoadCanceled wrapping context.Canceled", err)
	}
	if e.Library().Len() != 0 {
		t.Errorf("Len() = %d after cancel, want 0", e.Library().Len())
	}
}

func TestLoad_ProgressResets(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 8)
	install(t, e, testInstrument(-1, "first", NewRegion(constSample(10, 0.5))))

	var seen []int
	src := &staticSource{
		name: "second.sfz",
		in:   testInstrument(-1, "second", NewRegion(constSample(10, 0.5))),
		onLoad: func(context.Context) error {
			seen = append(seen, e.LoadProgress())
			return nil
		},
	}
	if _, err := e.Load(context.Background(), src); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 1 || seen[0] != 0 {
		t.Errorf("progress at load start = %v, want [0]", seen)
	}
	if e.LoadProgress() != 100 {
		t.Errorf("LoadProgress() = %d, want 100", e.LoadProgress())
	}
}

func TestUnload_StopsVoices(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := pianoEngine(t, 8)
	install(t, e, testInstrument(5, "organ", NewRegion(constSample(48000, 0.5))))
	selectProgram(t, e, 1, 5)
	e.NoteOn(0, 60, 100)
	e.NoteOn(0, 64, 100)
	e.NoteOn(1, 60, 100)

	if err := e.Unload(ctx, 0); err != nil {
		t.Fatalf("Unload() error = %v", err)
	}
	if e.Pool().Active() != 1 {
		t.Errorf("Active() = %d, want only the organ voice", e.Pool().Active())
	}
	if v := e.Pool().First(); v.Instrument().Name != "organ" {
		t.Errorf("remaining voice plays %q, want organ", v.Instrument().Name)
	}

	e.NoteOn(0, 60, 100)
	if e.Pool().Active() != 1 {
		t.Error("channel 0 still sounds the removed instrument")
	}
	if _, ok := e.Library().Instrument(0); ok {
		t.Error("program 0 still installed")
	}
	if err := e.Unload(ctx, 0); !errors.Is(err, ErrUnknownProgram) {
		t.Errorf("second Unload() error = %v, want ErrUnknownProgram", err)
	}
}

func TestUnload_ReloadRebindsChannel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := pianoEngine(t, 8)
	if err := e.Unload(ctx, 0); err != nil {
		t.Fatalf("Unload() error = %v", err)
	}
	st, _ := e.ChannelState(0)
	if st.Program != 0 || st.Instrument != "" {
		t.Errorf("after Unload ChannelState = program %d instrument %q, want 0 and none", st.Program, st.Instrument)
	}

	install(t, e, testInstrument(0, "rhodes", NewRegion(constSample(48000, 0.5))))
	if err := e.NoteOn(0, 60, 100); err != nil {
		t.Fatal(err)
	}
	st, _ = e.ChannelState(0)
	if st.Instrument != "rhodes" || st.ActiveVoices != 1 {
		t.Errorf("after reload ChannelState = instrument %q active %d, want rhodes and 1", st.Instrument, st.ActiveVoices)
	}
}

func TestRemoveSoundFont(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t, 8)
	install(t, e, testInstrument(-1, "a", NewRegion(constSample(10, 0.5))))
	install(t, e, testInstrument(-1, "b", NewRegion(constSample(10, 0.5))))

	if err := e.RemoveSoundFont(ctx, "a"); err != nil {
		t.Fatalf("RemoveSoundFont() error = %v", err)
	}
	if got := e.SoundFonts(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("SoundFonts() = %v, want [b]", got)
	}
	if err := e.RemoveSoundFont(ctx, "a"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("RemoveSoundFont() error = %v, want ErrNotLoaded", err)
	}
}

func TestControl_WaitsForRender(t *testing.T) {
	t.Parallel()

	e := pianoEngine(t, 8)
	e.busy.Store(true)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	if err := e.Unload(ctx, 0); !errors.Is(err, ErrBusy) {
		t.Errorf("Unload() while busy error = %v, want ErrBusy", err)
	}

	done := make(chan error, 1)
	go func() { done <- e.SetMute(context.Background(), 0, true) }()
	time.Sleep(time.Millisecond)
	e.busy.Store(false)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("SetMute() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("SetMute() did not proceed after the render pass ended")
	}
	if st, _ := e.ChannelState(0); !st.Muted {
		t.Error("channel 0 not muted")
	}
}

func TestLibrary_ConcurrentReaders(t *testing.T) {
	t.Parallel()

	lib := NewLibrary()
	var wg sync.WaitGroup
	stop := make(chan struct{})
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if in, ok := lib.Instrument(3); ok && len(in.Regions) != 1 {
					t.Error("reader saw a partially built instrument")
					return
				}
			}
		}()
	}

	for i := range 50 {
		if err := lib.install(testInstrument(-1, "x", NewRegion(constSample(10, 0.5)))); err != nil {
			t.Fatalf("install #%d: %v", i, err)
		}
	}
	close(stop)
	wg.Wait()

	if lib.Len() != 50 {
		t.Errorf("Len() = %d, want 50", lib.Len())
	}
}

func TestEngine_Reset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := pianoEngine(t, 8)
	e.NoteOn(0, 60, 100)
	e.Controller(0, CCVolume, 3)
	e.SetSolo(ctx, 2, true)
	e.Post(NoteOn(0, 61, 100))

	if err := e.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	st, _ := e.ChannelState(0)
	if st.ActiveVoices != 0 || st.Volume != 100 || st.Program != 0 {
		t.Errorf("channel state after Reset = %+v", st)
	}
	if e.Stats().QueuedEvents != 0 {
		t.Error("Reset left queued events")
	}
	e.NoteOn(0, 60, 100)
	if e.Pool().Active() != 1 {
		t.Error("program selection lost across Reset")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	mods := []func(*Config){
		func(c *Config) { c.SampleRate = 0 },
		func(c *Config) { c.Polyphony = -1 },
		func(c *Config) { c.MasterTuning = 0 },
		func(c *Config) { c.EventQueueSize = 0 },
		func(c *Config) { c.BlockSize = 0 },
	}
	for i, mod := range mods {
		cfg := DefaultConfig()
		mod(&cfg)
		if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("case %d: New() error = %v, want ErrInvalidConfig", i, err)
		}
	}
}
