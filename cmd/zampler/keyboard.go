// SPDX-License-Identifier: EPL-2.0

package main

import (
	"strings"
	"time"

	"github.com/ik5/zampler/synth"
)

// Two tracker-style rows: the bottom row plays the current octave, the top
// row the one above.
const (
	lowerRow = "zsxdcvgbhnjm"
	upperRow = "q2w3er5t6y7u"
)

const (
	keyCtrlC = 0x03
	keyEsc   = 0x1b
)

// keyboard turns terminal key presses into note events. Terminals report
// no key releases, so every note is closed after gate.
type keyboard struct {
	channel int
	octave  int
	gate    time.Duration
	held    map[int]time.Time
}

func newKeyboard(channel int, gate time.Duration) *keyboard {
	return &keyboard{channel: channel, octave: 4, gate: gate, held: make(map[int]time.Time)}
}

// press handles one key. quit reports a request to stop playing.
func (k *keyboard) press(b byte, now time.Time) (evs []synth.Event, quit bool) {
	switch b {
	case keyCtrlC, keyEsc:
		return nil, true
	case ' ':
		clear(k.held)
		return []synth.Event{synth.AllNotesOff(k.channel)}, false
	case '-':
		k.octave = max(k.octave-1, -1)
		return nil, false
	case '=', '+':
		k.octave = min(k.octave+1, 8)
		return nil, false
	}

	semi := strings.IndexByte(lowerRow, b)
	if semi < 0 {
		if semi = strings.IndexByte(upperRow, b); semi < 0 {
			return nil, false
		}
		semi += 12
	}
	key := (k.octave+1)*12 + semi
	if key > 127 {
		return nil, false
	}
	if _, ok := k.held[key]; ok {
		evs = append(evs, synth.NoteOff(k.channel, key))
	}
	k.held[key] = now.Add(k.gate)
	return append(evs, synth.NoteOn(k.channel, key, 100)), false
}

// expire closes the notes whose gate has passed.
func (k *keyboard) expire(now time.Time) []synth.Event {
	var evs []synth.Event
	for key, until := range k.held {
		if !now.Before(until) {
			evs = append(evs, synth.NoteOff(k.channel, key))
			delete(k.held, key)
		}
	}
	return evs
}
