// SPDX-License-Identifier: EPL-2.0

// Package synth is a real-time polyphonic sample player.
//
// An Engine owns a fixed pool of voices, MaxChannel channels and a Library
// of instruments. Note events start voices from the regions of the channel's
// instrument; Render advances every active voice, mixes it into the output
// buffers and returns finished voices to the pool.
//
// # Execution contexts
//
// Render runs on the audio thread. It never allocates, never blocks and
// costs time proportional to the number of sounding voices. NoteOn,
// NoteOff, Controller, ProgramChange and friends touch the same state and
// must be called from the render goroutine between blocks; other
// goroutines queue events with Post instead.
//
// Loading, unloading and host settings run on a control goroutine. They
// take the engine's busy flag, waiting for the current render pass to end,
// and a render pass that finds the flag taken skips its block.
//
//	eng, _ := synth.New(synth.DefaultConfig())
//	if _, err := eng.Load(ctx, src); err != nil {
//	    return err
//	}
//	eng.ProgramChange(0, 0)
//	eng.NoteOn(0, 60, 100)
//	eng.Render(left, right)
//
// # Voice stealing
//
// When every voice is busy, a note-on reclaims the oldest voice by trigger
// order. The choice is deterministic and O(1): the active list is kept in
// acquisition order.
//
// # Pitch
//
// Pitches are expressed in cents (key * 100) and converted with
//
//	f = 2^((c - 6900) / 1200) * tuning
//
// where tuning is the master tuning, the frequency of A4.
package synth
