// SPDX-License-Identifier: EPL-2.0

package midi

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/ik5/zampler/synth"
)

// Timed is an event at an offset from the start of a sequence.
type Timed struct {
	At    time.Duration
	Track int
	Event synth.Event
}

// Frame returns the sample frame of the event at rate.
func (t Timed) Frame(rate int) int64 {
	return t.At.Microseconds() * int64(rate) / 1e6
}

// Sequence is a time-ordered list of events.
type Sequence []Timed

// ReadSMF reads every track of a Standard MIDI File and merges their
// events in time order, tempo changes applied. Events at the same instant
// keep file order, lower tracks first.
func ReadSMF(r io.Reader) (Sequence, error) {
	var seq Sequence
	err := smf.ReadTracksFrom(r).Do(func(te smf.TrackEvent) {
		if ev, ok := Translate(midi.Message(te.Message)); ok {
			seq = append(seq, Timed{
				At:    time.Duration(te.AbsMicroSeconds) * time.Microsecond,
				Track: te.TrackNo,
				Event: ev,
			})
		}
	}).Error()
	if err != nil {
		return nil, fmt.Errorf("read smf: %w", err)
	}

	slices.SortStableFunc(seq, func(a, b Timed) int {
		if c := cmp.Compare(a.At, b.At); c != 0 {
			return c
		}
		return cmp.Compare(a.Track, b.Track)
	})
	return seq, nil
}

// Duration returns the time of the last event.
func (s Sequence) Duration() time.Duration {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].At
}

// Channels returns the channels the sequence addresses, ascending.
func (s Sequence) Channels() []int {
	var out []int
	for _, t := range s {
		if !slices.Contains(out, t.Event.Channel) {
			out = append(out, t.Event.Channel)
		}
	}
	slices.Sort(out)
	return out
}
