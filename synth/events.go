// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"fmt"
	"sync/atomic"
)

// EventKind identifies a control event.
type EventKind uint8

const (
	EventNoteOn EventKind = iota
	EventNoteOff
	EventController
	EventProgramChange
	EventPitchBend
	EventAllNotesOff
	EventAllSoundsOff
)

func (k EventKind) String() string {
	switch k {
	case EventNoteOn:
		return "note-on"
	case EventNoteOff:
		return "note-off"
	case EventController:
		return "controller"
	case EventProgramChange:
		return "program-change"
	case EventPitchBend:
		return "pitch-bend"
	case EventAllNotesOff:
		return "all-notes-off"
	case EventAllSoundsOff:
		return "all-sounds-off"
	default:
		return fmt.Sprintf("event(%d)", uint8(k))
	}
}

// Event is a note or controller message addressed to one channel. The
// meaning of A and B depends on Kind: key/velocity, controller/value,
// program, or the 14-bit pitch wheel position in A.
type Event struct {
	Kind    EventKind
	Channel int
	A       int
	B       int
}

func NoteOn(channel, key, velocity int) Event {
	return Event{Kind: EventNoteOn, Channel: channel, A: key, B: velocity}
}

func NoteOff(channel, key int) Event {
	return Event{Kind: EventNoteOff, Channel: channel, A: key}
}

func ControlChange(channel, controller, value int) Event {
	return Event{Kind: EventController, Channel: channel, A: controller, B: value}
}

func ProgramChange(channel, program int) Event {
	return Event{Kind: EventProgramChange, Channel: channel, A: program}
}

// PitchBend carries the 14-bit wheel position, 8192 being centre.
func PitchBend(channel, value int) Event {
	return Event{Kind: EventPitchBend, Channel: channel, A: value}
}

func AllNotesOff(channel int) Event {
	return Event{Kind: EventAllNotesOff, Channel: channel}
}

func AllSoundsOff(channel int) Event {
	return Event{Kind: EventAllSoundsOff, Channel: channel}
}

// EventQueue is a bounded single-producer/single-consumer ring. One
// goroutine may Push while another Pops; neither blocks nor allocates.
type EventQueue struct {
	buf  []Event
	head atomic.Uint64 // next slot to read
	tail atomic.Uint64 // next slot to write
}

// NewEventQueue returns a queue holding up to size events.
func NewEventQueue(size int) *EventQueue {
	return &EventQueue{buf: make([]Event, size)}
}

// Push appends ev, reporting false when the queue is full.
func (q *EventQueue) Push(ev Event) bool {
	t := q.tail.Load()
	if t-q.head.Load() == uint64(len(q.buf)) {
		return false
	}
	q.buf[t%uint64(len(q.buf))] = ev
	q.tail.Store(t + 1)
	return true
}

// Pop removes the oldest event.
func (q *EventQueue) Pop() (Event, bool) {
	h := q.head.Load()
	if h == q.tail.Load() {
		return Event{}, false
	}
	ev := q.buf[h%uint64(len(q.buf))]
	q.head.Store(h + 1)
	return ev, true
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int { return int(q.tail.Load() - q.head.Load()) }
