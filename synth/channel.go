// SPDX-License-Identifier: EPL-2.0

package synth

import "github.com/ik5/zampler/internal/dsp"

// Controller numbers understood by Engine.Controller.
const (
	CCVolume           = 7
	CCPan              = 10
	CCExpression       = 11
	CCSustain          = 64
	CCAllSoundsOff     = 120
	CCResetControllers = 121
	CCAllNotesOff      = 123
)

// bendRange is the pitch wheel range in cents at full deflection.
const bendRange = 200.0

// Channel is the per-channel state: selected instrument, controllers and the
// list of voices it owns.
type Channel struct {
	index      int
	program    int
	instrument *Instrument

	cc      [128]uint8
	sustain bool
	bend    float64
	tuning  float64
	mute    bool
	solo    bool

	keys     [128]bool
	keyVel   [128]uint8
	keysDown int

	head, tail int32
	count      int
}

func (c *Channel) init(index int) {
	c.index = index
	c.program = -1
	c.instrument = nil
	c.head, c.tail = nilVoice, nilVoice
	c.count = 0
	c.mute, c.solo = false, false
	c.tuning = 0
	c.resetControllers()
	c.clearKeys()
}

func (c *Channel) resetControllers() {
	c.cc = [128]uint8{}
	c.cc[CCVolume] = 100
	c.cc[CCExpression] = 127
	c.cc[CCPan] = 64
	c.sustain = false
	c.bend = 0
}

func (c *Channel) clearKeys() {
	c.keys = [128]bool{}
	c.keysDown = 0
}

func (c *Channel) keyDown(key, velocity int) {
	if key < 0 || key > 127 {
		return
	}
	if !c.keys[key] {
		c.keys[key] = true
		c.keysDown++
	}
	c.keyVel[key] = uint8(velocity)
}

func (c *Channel) keyUp(key int) {
	if key < 0 || key > 127 || !c.keys[key] {
		return
	}
	c.keys[key] = false
	c.keysDown--
}

// gains returns the channel amplitude for the left and right side.
func (c *Channel) gains() (float32, float32) {
	amp := float32(c.cc[CCVolume]) / 127 * float32(c.cc[CCExpression]) / 127
	l, r := dsp.Pan((float64(c.cc[CCPan]) - 64) / 63)
	return amp * l, amp * r
}

func (c *Channel) attach(p *Pool, v *Voice) {
	v.channel = c
	v.chNext = nilVoice
	v.chPrev = c.tail
	if c.tail != nilVoice {
		p.voices[c.tail].chNext = v.id
	} else {
		c.head = v.id
	}
	c.tail = v.id
	c.count++
}

func (c *Channel) detach(p *Pool, v *Voice) {
	if v.chPrev != nilVoice {
		p.voices[v.chPrev].chNext = v.chNext
	} else {
		c.head = v.chNext
	}
	if v.chNext != nilVoice {
		p.voices[v.chNext].chPrev = v.chPrev
	} else {
		c.tail = v.chPrev
	}
	v.chPrev, v.chNext = nilVoice, nilVoice
	v.channel = nil
	c.count--
}

func (c *Channel) first(p *Pool) *Voice { return p.at(c.head) }

func (c *Channel) next(p *Pool, v *Voice) *Voice { return p.at(v.chNext) }

// ChannelState is a read-only snapshot of a channel.
type ChannelState struct {
	Index        int
	Program      int
	Instrument   string
	Volume       int
	Expression   int
	Pan          int
	Sustain      bool
	PitchBend    float64
	Tuning       float64
	Muted        bool
	Soloed       bool
	ActiveVoices int
	KeysDown     int
}

func (c *Channel) state() ChannelState {
	s := ChannelState{
		Index:        c.index,
		Program:      c.program,
		Volume:       int(c.cc[CCVolume]),
		Expression:   int(c.cc[CCExpression]),
		Pan:          int(c.cc[CCPan]),
		Sustain:      c.sustain,
		PitchBend:    c.bend,
		Tuning:       c.tuning,
		Muted:        c.mute,
		Soloed:       c.solo,
		ActiveVoices: c.count,
		KeysDown:     c.keysDown,
	}
	if c.instrument != nil {
		s.Instrument = c.instrument.Name
	}
	return s
}
