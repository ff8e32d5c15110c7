// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

// catalog is an immutable view of the installed instruments.
type catalog struct {
	programs map[int]*Instrument
	order    []*Instrument
}

// Library is the set of installed instruments. Readers see a consistent
// catalog without locking; writers build a new catalog and swap it in, so an
// instrument is either fully visible or not at all.
type Library struct {
	mu  sync.Mutex
	cur atomic.Pointer[catalog]
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	l := &Library{}
	l.cur.Store(&catalog{programs: map[int]*Instrument{}})
	return l
}

// Instrument returns the instrument installed under program.
func (l *Library) Instrument(program int) (*Instrument, bool) {
	in, ok := l.cur.Load().programs[program]
	return in, ok
}

// Len returns the number of installed instruments.
func (l *Library) Len() int { return len(l.cur.Load().order) }

// Programs returns the installed program numbers in ascending order.
func (l *Library) Programs() []int {
	c := l.cur.Load()
	out := make([]int, 0, len(c.order))
	for p := range c.programs {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Patch describes an installed instrument for display.
type Patch struct {
	Program int
	Name    string
	Source  string
	Regions int
}

// Patches returns a snapshot of the installed instruments ordered by program.
func (l *Library) Patches() []Patch {
	c := l.cur.Load()
	out := make([]Patch, 0, len(c.order))
	for _, in := range c.order {
		out = append(out, Patch{
			Program: in.Program,
			Name:    in.Name,
			Source:  in.Source,
			Regions: len(in.Regions),
		})
	}
	slices.SortFunc(out, func(a, b Patch) int { return a.Program - b.Program })
	return out
}

// Sources returns the distinct instrument sources in installation order.
func (l *Library) Sources() []string {
	c := l.cur.Load()
	var out []string
	for _, in := range c.order {
		if !slices.Contains(out, in.Source) {
			out = append(out, in.Source)
		}
	}
	return out
}

// install adds every instrument or none of them. Instruments with a negative
// program receive the lowest unused program number.
func (l *Library) install(ins ...*Instrument) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur := l.cur.Load()
	next := &catalog{
		programs: make(map[int]*Instrument, len(cur.programs)+len(ins)),
		order:    slices.Clone(cur.order),
	}
	for p, in := range cur.programs {
		next.programs[p] = in
	}

	for _, in := range ins {
		if in.Program < 0 {
			continue
		}
		if old, ok := next.programs[in.Program]; ok {
			return fmt.Errorf("%w: %d (%s)", ErrDuplicateProgram, in.Program, old.Name)
		}
		next.programs[in.Program] = in
	}
	free := 0
	for _, in := range ins {
		if in.Program >= 0 {
			continue
		}
		for next.programs[free] != nil {
			free++
		}
		in.Program = free
		next.programs[free] = in
	}
	next.order = append(next.order, ins...)

	l.cur.Store(next)
	return nil
}

// remove uninstalls every instrument for which drop returns true and
// returns them.
func (l *Library) remove(drop func(*Instrument) bool) []*Instrument {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur := l.cur.Load()
	next := &catalog{programs: make(map[int]*Instrument, len(cur.programs))}
	var removed []*Instrument
	for _, in := range cur.order {
		if drop(in) {
			removed = append(removed, in)
			continue
		}
		next.order = append(next.order, in)
		next.programs[in.Program] = in
	}
	if len(removed) > 0 {
		l.cur.Store(next)
	}
	return removed
}
