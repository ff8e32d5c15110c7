// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ik5/zampler/midi"
	"github.com/ik5/zampler/synth"
)

type recorder struct {
	mu     sync.Mutex
	events []synth.Event
}

func (r *recorder) Post(ev synth.Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return true
}

func TestFeed_Sequence(t *testing.T) {
	t.Parallel()

	seq := midi.Sequence{
		{At: 0, Event: synth.NoteOn(0, 60, 100)},
		{At: 10 * time.Millisecond, Event: synth.NoteOff(0, 60)},
	}
	rec := &recorder{}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := feed(ctx, rec, newKeyboard(0, time.Second), seq, nil, 0); err != nil {
		t.Fatalf("feed() error = %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("feed() ran until the deadline")
	}
	if d := time.Since(start); d < 10*time.Millisecond {
		t.Errorf("feed() returned after %v, before the last event was due", d)
	}
	if len(rec.events) != 2 || rec.events[0] != seq[0].Event || rec.events[1] != seq[1].Event {
		t.Errorf("posted %+v", rec.events)
	}
}

func TestFeed_KeysAndQuit(t *testing.T) {
	t.Parallel()

	keys := make(chan byte, 4)
	keys <- 'z'
	keys <- keyEsc
	rec := &recorder{}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := feed(ctx, rec, newKeyboard(2, time.Minute), nil, keys, 0); err != nil {
		t.Fatalf("feed() error = %v", err)
	}
	if len(rec.events) != 1 || rec.events[0] != synth.NoteOn(2, 60, 100) {
		t.Errorf("posted %+v", rec.events)
	}
}

func TestFeed_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	keys := make(chan byte)
	if err := feed(ctx, &recorder{}, newKeyboard(0, time.Second), nil, keys, 0); err != nil {
		t.Errorf("feed() error = %v", err)
	}
}

func TestReadKeys(t *testing.T) {
	t.Parallel()

	keys := make(chan byte, 8)
	readKeys(strings.NewReader("zx"), keys)

	var got []byte
	for b := range keys {
		got = append(got, b)
	}
	if string(got) != "zx" {
		t.Errorf("readKeys() = %q, want %q", got, "zx")
	}
}
