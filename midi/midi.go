// SPDX-License-Identifier: EPL-2.0

// Package midi turns MIDI messages and Standard MIDI Files into engine
// events.
package midi

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/ik5/zampler/synth"
)

// Channel-mode controllers.
const (
	ccAllSoundsOff = 120
	ccAllNotesOff  = 123
)

// Translate converts a channel voice message. ok is false for messages the
// engine has no use for (system, meta, aftertouch).
func Translate(msg midi.Message) (ev synth.Event, ok bool) {
	var ch, a, b uint8
	var rel int16
	var abs uint16

	switch {
	case msg.GetNoteStart(&ch, &a, &b):
		return synth.NoteOn(int(ch), int(a), int(b)), true
	case msg.GetNoteEnd(&ch, &a):
		return synth.NoteOff(int(ch), int(a)), true
	case msg.GetControlChange(&ch, &a, &b):
		switch a {
		case ccAllSoundsOff:
			return synth.AllSoundsOff(int(ch)), true
		case ccAllNotesOff:
			return synth.AllNotesOff(int(ch)), true
		}
		return synth.ControlChange(int(ch), int(a), int(b)), true
	case msg.GetProgramChange(&ch, &a):
		return synth.ProgramChange(int(ch), int(a)), true
	case msg.GetPitchBend(&ch, &rel, &abs):
		return synth.PitchBend(int(ch), int(abs)), true
	}
	return synth.Event{}, false
}

// Poster is the non-blocking side of an engine's event queue.
type Poster interface {
	Post(ev synth.Event) bool
}

// Handler returns a callback suitable for midi.ListenTo that forwards every
// translated message to p. Messages dropped by a full queue are counted by
// the engine.
func Handler(p Poster) func(msg midi.Message, timestampms int32) {
	return func(msg midi.Message, _ int32) {
		if ev, ok := Translate(msg); ok {
			p.Post(ev)
		}
	}
}
