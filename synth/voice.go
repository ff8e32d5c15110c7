// SPDX-License-Identifier: EPL-2.0

package synth

// nilVoice terminates the intrusive index lists.
const nilVoice int32 = -1

// Voice is one sounding note. Voices live in the pool for the whole life of
// the engine; the pool slot index is their identity.
type Voice struct {
	id int32

	// pool active list, ordered by trigger time
	prev, next int32
	// owning channel's voice list
	chPrev, chNext int32
	active         bool

	channel    *Channel
	key        int
	velocity   int
	region     *Region
	instrument *Instrument
	serial     uint64

	pos       float64
	cents     float64
	refHz     float64
	rateRatio float64
	gain      float32
	panL      float32
	panR      float32

	env      envelope
	released bool
	held     bool
}

// ID returns the pool slot index of the voice.
func (v *Voice) ID() int { return int(v.id) }

// Active reports whether the voice is bound to a note.
func (v *Voice) Active() bool { return v.active }

// Channel returns the index of the owning channel, or -1 for a free voice.
func (v *Voice) Channel() int {
	if v.channel == nil {
		return -1
	}
	return v.channel.index
}

// Key is the key that triggered the voice.
func (v *Voice) Key() int { return v.key }

// Velocity is the note-on velocity.
func (v *Voice) Velocity() int { return v.velocity }

// Region is the sample region the voice plays.
func (v *Voice) Region() *Region { return v.region }

// Instrument is the instrument the voice was triggered against.
func (v *Voice) Instrument() *Instrument { return v.instrument }

// Serial increases with every acquisition; lower serials are older voices.
func (v *Voice) Serial() uint64 { return v.serial }

// Stage is the current envelope stage.
func (v *Voice) Stage() Stage { return v.env.stage }

// Released reports whether the voice has entered its release. Notes whose
// note-off arrived while the sustain pedal was down are Held instead.
func (v *Voice) Released() bool { return v.released }

// Held reports whether the voice is kept sounding by the sustain pedal.
func (v *Voice) Held() bool { return v.held }

// Position is the playback position within the sample, in frames.
func (v *Voice) Position() float64 { return v.pos }

// reset clears the note binding while keeping the slot identity and links.
func (v *Voice) reset() {
	v.channel = nil
	v.region = nil
	v.instrument = nil
	v.key = 0
	v.velocity = 0
	v.pos = 0
	v.released = false
	v.held = false
	v.env = envelope{}
}
