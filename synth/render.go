// SPDX-License-Identifier: EPL-2.0

package synth

import "github.com/ik5/zampler/internal/dsp"

// Render mixes one block into left and right. The block length is the
// shorter of the two slices. Voices add into the buffers, so the caller
// clears them when it wants a fresh block. Queued events are applied first;
// finished voices go back to the pool.
//
// Render does not allocate or block and its cost is proportional to the
// number of active voices. If a control operation holds the engine it
// leaves the buffers untouched and returns.
func (e *Engine) Render(left, right []float32) {
	if !e.busy.CompareAndSwap(false, true) {
		e.skipped.Add(1)
		return
	}
	e.drain()

	frames := min(len(left), len(right))
	left, right = left[:frames], right[:frames]
	tuning := e.MasterTuning()
	for v := e.pool.First(); v != nil; {
		next := e.pool.Next(v)
		if !e.renderVoice(v, left, right, tuning) {
			e.reclaim(v)
		}
		v = next
	}
	e.busy.Store(false)
}

// RenderInterleaved adds len(dst)/2 stereo frames into dst, interleaved
// left/right.
func (e *Engine) RenderInterleaved(dst []float32) {
	frames := len(dst) / 2
	for done := 0; done < frames; {
		n := min(frames-done, len(e.left))
		l, r := e.left[:n], e.right[:n]
		clear(l)
		clear(r)
		e.Render(l, r)
		out := dst[done*2 : (done+n)*2]
		for i := range n {
			out[2*i] += l[i]
			out[2*i+1] += r[i]
		}
		done += n
	}
}

func (e *Engine) drain() {
	for {
		ev, ok := e.events.Pop()
		if !ok {
			return
		}
		if err := e.Play(ev); err != nil {
			e.rejected.Add(1)
		}
	}
}

// renderVoice advances v by len(left) frames and reports whether it is still
// sounding.
func (e *Engine) renderVoice(v *Voice, left, right []float32, tuning float64) bool {
	c := v.channel
	r := v.region
	s := r.Sample
	end := float64(s.Len())

	hz := CentsToHz(v.cents+c.tuning+c.bend, tuning)
	step := hz / v.refHz * v.rateRatio

	cl, cr := c.gains()
	gl := v.gain * v.panL * cl
	gr := v.gain * v.panR * cr
	audible := !c.mute && (e.solos == 0 || c.solo)

	loopStart, loopEnd := float64(r.LoopStart), float64(r.LoopEnd)
	looping := loopEnd > loopStart && loopEnd <= end &&
		(r.Loop == LoopContinuous || (r.Loop == LoopSustain && !v.released))

	for i := range left {
		if v.pos >= end {
			return false
		}
		amp := v.env.next()
		if audible {
			idx := int(v.pos)
			x := float32(v.pos - float64(idx))
			l0, r0 := s.at(idx - 1)
			l1, r1 := s.at(idx)
			l2, r2 := s.at(idx + 1)
			l3, r3 := s.at(idx + 2)
			left[i] += dsp.CubicInterpolate(l0, l1, l2, l3, x) * amp * gl
			right[i] += dsp.CubicInterpolate(r0, r1, r2, r3, x) * amp * gr
		}
		v.pos += step
		for looping && v.pos >= loopEnd {
			v.pos -= loopEnd - loopStart
		}
		if v.env.done() {
			return false
		}
	}
	return !v.env.done()
}
