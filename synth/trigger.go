// SPDX-License-Identifier: EPL-2.0

package synth

import "github.com/ik5/zampler/internal/dsp"

// cutTime is the fade applied to voices silenced by an exclusive group.
const cutTime = 0.005

// NoteOn starts every region of the channel's instrument matching key and
// velocity. A velocity of 0 is a note-off. When the pool is full the oldest
// voice is stolen, so the new note always sounds. A key without matching
// regions or a channel without an instrument is not an error.
func (e *Engine) NoteOn(ch, key, velocity int) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	if velocity <= 0 {
		return e.NoteOff(ch, key)
	}
	velocity = min(velocity, 127)

	others := c.keysDown
	if key >= 0 && key <= 127 && c.keys[key] {
		others--
	}
	c.keyDown(key, velocity)

	in := c.instrument
	if in == nil {
		return nil
	}
	e.trigger(c, in, key, velocity, TriggerAttack)
	if others == 0 {
		e.trigger(c, in, key, velocity, TriggerFirst)
	} else {
		e.trigger(c, in, key, velocity, TriggerLegato)
	}
	return nil
}

// NoteOff moves every voice of the channel playing key into its release
// stage. Voices stay active until the release completes. With the sustain
// pedal down the voices are held until the pedal is lifted.
func (e *Engine) NoteOff(ch, key int) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	wasDown := key >= 0 && key <= 127 && c.keys[key]
	c.keyUp(key)

	for v := c.first(e.pool); v != nil; v = c.next(e.pool, v) {
		if v.key != key || v.released || v.held || v.region.Trigger == TriggerRelease {
			continue
		}
		if v.region.Loop == LoopOneShot {
			continue
		}
		if c.sustain {
			v.held = true
			continue
		}
		v.release()
	}

	if wasDown && c.instrument != nil {
		e.trigger(c, c.instrument, key, int(c.keyVel[key]), TriggerRelease)
	}
	return nil
}

// AllNotesOff releases every voice of the channel. The voices fade out
// through their release stage.
func (e *Engine) AllNotesOff(ch int) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	for v := c.first(e.pool); v != nil; v = c.next(e.pool, v) {
		v.held = false
		if !v.released {
			v.release()
		}
	}
	c.clearKeys()
	return nil
}

// AllSoundsOff returns every voice of the channel to the pool at once.
func (e *Engine) AllSoundsOff(ch int) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	e.cutChannel(c)
	c.clearKeys()
	return nil
}

// ProgramChange selects the instrument for subsequent notes on the channel.
// Sounding voices keep the instrument they were started with. An unknown
// program leaves the channel unchanged.
func (e *Engine) ProgramChange(ch, program int) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	in, ok := e.lib.Instrument(program)
	if !ok {
		return ErrUnknownProgram
	}
	c.program = program
	c.instrument = in
	return nil
}

// Controller applies a MIDI continuous controller.
func (e *Engine) Controller(ch, cc, value int) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	if cc < 0 || cc > 127 {
		return nil
	}
	value = min(max(value, 0), 127)
	c.cc[cc] = uint8(value)

	switch cc {
	case CCSustain:
		down := value >= 64
		if c.sustain && !down {
			e.releaseHeld(c)
		}
		c.sustain = down
	case CCAllSoundsOff:
		return e.AllSoundsOff(ch)
	case CCAllNotesOff:
		return e.AllNotesOff(ch)
	case CCResetControllers:
		if c.sustain {
			e.releaseHeld(c)
		}
		c.resetControllers()
	}
	return nil
}

// PitchBend sets the channel pitch wheel from a 14-bit value, 8192 being
// centre.
func (e *Engine) PitchBend(ch, value int) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	value = min(max(value, 0), 16383)
	c.bend = float64(value-8192) / 8192 * bendRange
	return nil
}

func (e *Engine) releaseHeld(c *Channel) {
	for v := c.first(e.pool); v != nil; v = c.next(e.pool, v) {
		if v.held {
			v.held = false
			v.release()
		}
	}
}

// cutChannel returns every voice of c to the pool.
func (e *Engine) cutChannel(c *Channel) {
	for v := c.first(e.pool); v != nil; {
		next := c.next(e.pool, v)
		e.reclaim(v)
		v = next
	}
}

func (e *Engine) trigger(c *Channel, in *Instrument, key, velocity int, t Trigger) {
	regions := in.match(e.scratch[:0], key, velocity, t)
	for _, r := range regions {
		e.start(c, in, r, key, velocity)
	}
	clear(regions)
}

// start binds a voice to region r, stealing the oldest voice if needed.
func (e *Engine) start(c *Channel, in *Instrument, r *Region, key, velocity int) {
	if r.Group != 0 {
		e.cutGroup(c, r.Group)
	}
	if e.pool.Free() == 0 {
		if old := e.pool.Oldest(); old != nil {
			e.reclaim(old)
			e.stolen.Add(1)
		}
	}

	v := e.pool.Acquire()
	e.serial++
	v.serial = e.serial
	v.key = key
	v.velocity = velocity
	v.region = r
	v.instrument = in
	v.released = false
	v.held = false

	s := r.Sample
	v.pos = float64(min(max(r.Offset, 0), s.Len()-1))
	center := float64(r.KeyCenter * 100)
	v.cents = center + float64((key-r.KeyCenter)*r.KeyTrack) + float64(r.Transpose*100+r.Tune)
	v.refHz = CentsToHz(center, DefaultMasterTuning)
	v.rateRatio = float64(s.SampleRate) / float64(e.cfg.SampleRate)

	v.gain = dsp.DBToGain(r.Volume) * velocityGain(r.VelTrack, velocity)
	v.panL, v.panR = dsp.Pan(r.Pan / 100)

	v.env.start(r.Envelope, e.cfg.SampleRate)
	c.attach(e.pool, v)
}

// velocityGain follows a squared velocity curve scaled by track percent.
// Negative tracking inverts the curve so soft notes play loudest.
func velocityGain(track float64, velocity int) float32 {
	vt := float32(min(max(track, -100), 100) / 100)
	vel := float32(min(max(velocity, 0), 127)) / 127
	if vt < 0 {
		vt, vel = -vt, 1-vel
	}
	return 1 - vt + vt*vel*vel
}

// cutGroup fades out the channel's voices whose region is silenced by
// group g.
func (e *Engine) cutGroup(c *Channel, g int) {
	n := seconds(cutTime, e.cfg.SampleRate)
	for v := c.first(e.pool); v != nil; v = c.next(e.pool, v) {
		if v.region.OffBy == g {
			v.released = true
			v.held = false
			v.env.releaseIn(n)
		}
	}
}

// reclaim detaches v from its channel and returns it to the pool.
func (e *Engine) reclaim(v *Voice) {
	if v.channel != nil {
		v.channel.detach(e.pool, v)
	}
	e.pool.Release(v)
}

func (v *Voice) release() {
	v.released = true
	v.held = false
	v.env.release()
}
