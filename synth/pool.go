// SPDX-License-Identifier: EPL-2.0

package synth

import "sync/atomic"

// voiceFifo is a fixed ring of free voice indices.
type voiceFifo struct {
	buf   []int32
	n     atomic.Int32
	read  int
	write int
}

func (f *voiceFifo) push(id int32) {
	f.buf[f.write] = id
	f.write++
	if f.write == len(f.buf) {
		f.write = 0
	}
	f.n.Add(1)
}

func (f *voiceFifo) pop() int32 {
	if f.n.Load() == 0 {
		panic(ErrPoolExhausted)
	}
	f.n.Add(-1)
	id := f.buf[f.read]
	f.read++
	if f.read == len(f.buf) {
		f.read = 0
	}
	return id
}

// Pool owns every voice of an engine. Free voices sit in a ring, active
// voices in a list ordered by acquisition, so the head is always the oldest.
// Acquire and Release are O(1) and do not allocate.
type Pool struct {
	voices []Voice
	free   voiceFifo
	head   int32
	tail   int32
	active atomic.Int32
}

// NewPool pre-allocates capacity voices, all free.
func NewPool(capacity int) *Pool {
	p := &Pool{
		voices: make([]Voice, capacity),
		free:   voiceFifo{buf: make([]int32, capacity)},
		head:   nilVoice,
		tail:   nilVoice,
	}
	for i := range p.voices {
		v := &p.voices[i]
		v.id = int32(i)
		v.prev, v.next = nilVoice, nilVoice
		v.chPrev, v.chNext = nilVoice, nilVoice
		p.free.push(v.id)
	}
	return p
}

// Cap returns the number of voices in the pool.
func (p *Pool) Cap() int { return len(p.voices) }

// Free returns the number of voices available to Acquire.
func (p *Pool) Free() int { return int(p.free.n.Load()) }

// Active returns the number of voices bound to notes.
func (p *Pool) Active() int { return int(p.active.Load()) }

// Acquire takes a free voice and appends it to the active list. It panics
// with ErrPoolExhausted when no voice is free.
func (p *Pool) Acquire() *Voice {
	v := &p.voices[p.free.pop()]
	v.active = true
	v.prev = p.tail
	v.next = nilVoice
	if p.tail != nilVoice {
		p.voices[p.tail].next = v.id
	} else {
		p.head = v.id
	}
	p.tail = v.id
	p.active.Add(1)
	return v
}

// Release unlinks an active voice and returns it to the free ring. Releasing
// a voice that is already free panics.
func (p *Pool) Release(v *Voice) {
	if !v.active {
		panic("synth: release of a free voice")
	}
	if v.prev != nilVoice {
		p.voices[v.prev].next = v.next
	} else {
		p.head = v.next
	}
	if v.next != nilVoice {
		p.voices[v.next].prev = v.prev
	} else {
		p.tail = v.prev
	}
	v.prev, v.next = nilVoice, nilVoice
	v.active = false
	v.reset()
	p.active.Add(-1)
	p.free.push(v.id)
}

// Oldest returns the earliest acquired active voice, or nil.
func (p *Pool) Oldest() *Voice { return p.at(p.head) }

// First starts an iteration over active voices in acquisition order.
func (p *Pool) First() *Voice { return p.at(p.head) }

// Next returns the active voice acquired after v, or nil.
func (p *Pool) Next(v *Voice) *Voice { return p.at(v.next) }

// Voice returns the voice in slot id.
func (p *Pool) Voice(id int) *Voice { return &p.voices[id] }

func (p *Pool) at(id int32) *Voice {
	if id == nilVoice {
		return nil
	}
	return &p.voices[id]
}
