// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"
)

// busyPoll is how long a control operation sleeps between attempts to take
// the busy flag from a render pass.
const busyPoll = 100 * time.Microsecond

// Engine is a polyphonic sample player.
//
// It has two callers. The render context calls Render (or
// RenderInterleaved) at block cadence, and the note/controller methods
// between blocks from the same goroutine. The control context loads and
// removes instruments and changes host settings; those operations take the
// busy flag and therefore never overlap a render pass. Other goroutines feed
// notes through Post, which Render drains at the start of each block.
type Engine struct {
	cfg    Config
	logger *slog.Logger

	lib      *Library
	pool     *Pool
	channels [MaxChannel]Channel
	solos    int

	events  *EventQueue
	scratch []*Region
	serial  uint64

	// bits of the master tuning float64
	tuning   atomic.Uint64
	busy     atomic.Bool
	progress atomic.Int64

	stolen   atomic.Int64
	dropped  atomic.Int64
	rejected atomic.Int64
	skipped  atomic.Int64

	left, right []float32
}

// New builds an engine with an empty private library. All voices, queues
// and render scratch buffers are allocated here.
func New(cfg Config) (*Engine, error) {
	return NewWithLibrary(cfg, NewLibrary())
}

// NewWithLibrary builds an engine reading instruments from lib.
func NewWithLibrary(cfg Config, lib *Library) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		cfg:     cfg,
		logger:  logger,
		lib:     lib,
		pool:    NewPool(cfg.Polyphony),
		events:  NewEventQueue(cfg.EventQueueSize),
		scratch: make([]*Region, 0, MaxTrigger),
		left:    make([]float32, cfg.BlockSize),
		right:   make([]float32, cfg.BlockSize),
	}
	e.tuning.Store(math.Float64bits(cfg.MasterTuning))
	for i := range e.channels {
		e.channels[i].init(i)
	}
	return e, nil
}

// SampleRate returns the output sample rate in Hz.
func (e *Engine) SampleRate() int { return e.cfg.SampleRate }

// Library returns the instrument library the engine reads from.
func (e *Engine) Library() *Library { return e.lib }

// Pool exposes the voice pool for inspection.
func (e *Engine) Pool() *Pool { return e.pool }

// MasterTuning returns the frequency of A4 in Hz.
func (e *Engine) MasterTuning() float64 { return math.Float64frombits(e.tuning.Load()) }

// SetMasterTuning sets the frequency of A4. It applies to sounding voices
// from the next block on. Non-positive values are ignored.
func (e *Engine) SetMasterTuning(hz float64) {
	if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
		return
	}
	e.tuning.Store(math.Float64bits(hz))
}

// CentsToHz converts an absolute pitch in cents (MIDI key * 100) to Hz
// under the current master tuning.
func (e *Engine) CentsToHz(c float64) float64 {
	return CentsToHz(c, e.MasterTuning())
}

// CentsToHz converts cents to Hz for tuning, the frequency of A4.
func CentsToHz(c, tuning float64) float64 {
	return math.Pow(2, (c-6900)/1200) * tuning
}

// LoadProgress returns the progress of the current or last load, from 0 to
// 100. It resets to 0 when a load starts and never decreases during one.
func (e *Engine) LoadProgress() int { return int(e.progress.Load()) }

// Busy reports whether a render pass or control mutation is in progress.
func (e *Engine) Busy() bool { return e.busy.Load() }

// Stats is a snapshot of engine counters.
type Stats struct {
	ActiveVoices   int
	FreeVoices     int
	StolenVoices   int64
	DroppedEvents  int64
	RejectedEvents int64
	SkippedBlocks  int64
	QueuedEvents   int
}

func (e *Engine) Stats() Stats {
	return Stats{
		ActiveVoices:   e.pool.Active(),
		FreeVoices:     e.pool.Free(),
		StolenVoices:   e.stolen.Load(),
		DroppedEvents:  e.dropped.Load(),
		RejectedEvents: e.rejected.Load(),
		SkippedBlocks:  e.skipped.Load(),
		QueuedEvents:   e.events.Len(),
	}
}

// Patches returns the installed instruments for display.
func (e *Engine) Patches() []Patch { return e.lib.Patches() }

// SoundFonts returns the sources of the installed instruments.
func (e *Engine) SoundFonts() []string { return e.lib.Sources() }

// ChannelState returns a snapshot of channel ch. Like the note methods it
// reads unguarded channel state, so call it from the goroutine that renders,
// between blocks.
func (e *Engine) ChannelState(ch int) (ChannelState, error) {
	c, err := e.channel(ch)
	if err != nil {
		return ChannelState{}, err
	}
	return c.state(), nil
}

func (e *Engine) channel(ch int) (*Channel, error) {
	if ch < 0 || ch >= MaxChannel {
		return nil, ErrInvalidChannel
	}
	return &e.channels[ch], nil
}

// lock takes the busy flag for a control mutation, waiting for a running
// render pass to finish.
func (e *Engine) lock(ctx context.Context) error {
	for !e.busy.CompareAndSwap(false, true) {
		t := time.NewTimer(busyPoll)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("%w: %w", ErrBusy, ctx.Err())
		case <-t.C:
		}
	}
	return nil
}

func (e *Engine) unlock() { e.busy.Store(false) }

// Reset silences every channel and restores controllers, tuning offsets and
// mute/solo state. Programs stay selected.
func (e *Engine) Reset(ctx context.Context) error {
	if err := e.lock(ctx); err != nil {
		return err
	}
	defer e.unlock()

	for i := range e.channels {
		c := &e.channels[i]
		e.cutChannel(c)
		program, in := c.program, c.instrument
		c.init(i)
		c.program, c.instrument = program, in
	}
	e.solos = 0
	for {
		if _, ok := e.events.Pop(); !ok {
			break
		}
	}
	return nil
}

// SetMute mutes or unmutes a channel. Muted voices keep advancing silently.
func (e *Engine) SetMute(ctx context.Context, ch int, mute bool) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	if err := e.lock(ctx); err != nil {
		return err
	}
	defer e.unlock()

	c.mute = mute
	return nil
}

// SetSolo solos or unsolos a channel. While any channel is soloed only
// soloed channels are heard.
func (e *Engine) SetSolo(ctx context.Context, ch int, solo bool) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	if err := e.lock(ctx); err != nil {
		return err
	}
	defer e.unlock()

	if c.solo != solo {
		c.solo = solo
		if solo {
			e.solos++
		} else {
			e.solos--
		}
	}
	return nil
}

// SetTuning sets a channel's tuning offset in cents.
func (e *Engine) SetTuning(ctx context.Context, ch int, cents float64) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	if err := e.lock(ctx); err != nil {
		return err
	}
	defer e.unlock()

	c.tuning = cents
	return nil
}

// Post queues ev for the next render pass. It never blocks; false means the
// queue was full and the event was dropped. Post is safe for one producer
// goroutine at a time.
func (e *Engine) Post(ev Event) bool {
	if !e.events.Push(ev) {
		e.dropped.Add(1)
		return false
	}
	return true
}

// Play applies ev immediately. Like the other note methods it must not run
// concurrently with a render pass.
func (e *Engine) Play(ev Event) error {
	switch ev.Kind {
	case EventNoteOn:
		return e.NoteOn(ev.Channel, ev.A, ev.B)
	case EventNoteOff:
		return e.NoteOff(ev.Channel, ev.A)
	case EventController:
		return e.Controller(ev.Channel, ev.A, ev.B)
	case EventProgramChange:
		return e.ProgramChange(ev.Channel, ev.A)
	case EventPitchBend:
		return e.PitchBend(ev.Channel, ev.A)
	case EventAllNotesOff:
		return e.AllNotesOff(ev.Channel)
	case EventAllSoundsOff:
		return e.AllSoundsOff(ev.Channel)
	}
	return errUnknownEvent
}

var errUnknownEvent = errors.New("unknown event kind")
