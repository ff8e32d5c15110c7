// SPDX-License-Identifier: EPL-2.0

package sfz

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ik5/zampler/synth"
)

// noteNames maps the pitch-class letters of note names to semitones.
var noteNames = map[byte]int{'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11}

// parseKey accepts a MIDI key number or a note name such as c4, f#3 or eb-1.
// c4 is key 60.
func parseKey(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 127 {
			return 0, fmt.Errorf("key %d out of range", n)
		}
		return n, nil
	}

	s = strings.ToLower(s)
	if s == "" {
		return 0, fmt.Errorf("empty key")
	}
	semi, ok := noteNames[s[0]]
	if !ok {
		return 0, fmt.Errorf("bad note name %q", s)
	}
	rest := s[1:]
	switch {
	case strings.HasPrefix(rest, "#"):
		semi++
		rest = rest[1:]
	case strings.HasPrefix(rest, "b") && len(rest) > 1:
		semi--
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("bad note name %q", s)
	}
	key := (octave+1)*12 + semi
	if key < 0 || key > 127 {
		return 0, fmt.Errorf("note %q out of range", s)
	}
	return key, nil
}

// regionSpec is a region with its opcodes interpreted but its sample not yet
// decoded.
type regionSpec struct {
	region   synth.Region
	sample   string
	line     int
	loopEnd  int // inclusive, -1 when unset
	hasLoop  bool
	loopMode bool
}

// applyRegion interprets the opcodes of sec. Unknown opcodes are returned
// so the caller can report them.
func applyRegion(file string, sec Section) (*regionSpec, []string, error) {
	rs := &regionSpec{loopEnd: -1}
	r := &rs.region
	r.HiKey, r.LoVel, r.HiVel = 127, 1, 127
	r.KeyCenter, r.KeyTrack, r.VelTrack = 60, 100, 100
	r.Envelope = synth.DefaultEnvelope
	if len(sec) > 0 {
		rs.line = sec[len(sec)-1].Line
	}

	var unknown []string
	for _, op := range sec {
		err := rs.apply(op)
		if err == errUnknownOpcode {
			unknown = append(unknown, op.Name)
			continue
		}
		if err != nil {
			return nil, nil, &ParseError{File: file, Line: op.Line, Msg: op.Name, Err: err}
		}
	}
	if rs.sample == "" {
		return nil, nil, &ParseError{File: file, Line: rs.line, Msg: "region", Err: ErrNoSample}
	}
	if r.LoKey > r.HiKey || r.LoVel > r.HiVel {
		return nil, nil, &ParseError{File: file, Line: rs.line, Msg: "inverted key or velocity range"}
	}
	return rs, unknown, nil
}

var errUnknownOpcode = errors.New("unknown opcode")

func (rs *regionSpec) apply(op Opcode) error {
	r := &rs.region
	v := op.Value
	var err error
	switch op.Name {
	case "sample":
		rs.sample = strings.ReplaceAll(v, `\`, "/")
	case "key":
		var k int
		if k, err = parseKey(v); err == nil {
			r.LoKey, r.HiKey, r.KeyCenter = k, k, k
		}
	case "lokey":
		r.LoKey, err = parseKey(v)
	case "hikey":
		r.HiKey, err = parseKey(v)
	case "pitch_keycenter":
		r.KeyCenter, err = parseKey(v)
	case "lovel":
		r.LoVel, err = intIn(v, 0, 127)
	case "hivel":
		r.HiVel, err = intIn(v, 0, 127)
	case "pitch_keytrack":
		r.KeyTrack, err = intIn(v, -1200, 1200)
	case "transpose":
		r.Transpose, err = intIn(v, -127, 127)
	case "tune":
		r.Tune, err = intIn(v, -9600, 9600)
	case "volume":
		r.Volume, err = floatIn(v, -144, 48)
	case "pan":
		r.Pan, err = floatIn(v, -100, 100)
	case "amp_veltrack":
		r.VelTrack, err = floatIn(v, -100, 100)
	case "offset":
		r.Offset, err = intIn(v, 0, 1<<31-1)
	case "loop_start", "loopstart":
		r.LoopStart, err = intIn(v, 0, 1<<31-1)
		rs.hasLoop = true
	case "loop_end", "loopend":
		rs.loopEnd, err = intIn(v, 0, 1<<31-1)
		rs.hasLoop = true
	case "loop_mode", "loopmode":
		r.Loop, err = parseLoopMode(v)
		rs.loopMode = true
	case "trigger":
		r.Trigger, err = parseTrigger(v)
	case "group":
		r.Group, err = strconv.Atoi(v)
	case "off_by":
		r.OffBy, err = strconv.Atoi(v)
	case "ampeg_attack":
		r.Envelope.Attack, err = floatIn(v, 0, 100)
	case "ampeg_hold":
		r.Envelope.Hold, err = floatIn(v, 0, 100)
	case "ampeg_decay":
		r.Envelope.Decay, err = floatIn(v, 0, 100)
	case "ampeg_sustain":
		var pct float64
		pct, err = floatIn(v, 0, 100)
		r.Envelope.Sustain = pct / 100
	case "ampeg_release":
		r.Envelope.Release, err = floatIn(v, 0, 100)
	default:
		return errUnknownOpcode
	}
	return err
}

func intIn(s string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%d outside [%d,%d]", n, lo, hi)
	}
	return n, nil
}

func floatIn(s string, lo, hi float64) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < lo || f > hi {
		return 0, fmt.Errorf("%g outside [%g,%g]", f, lo, hi)
	}
	return f, nil
}

func parseLoopMode(s string) (synth.LoopMode, error) {
	switch s {
	case "no_loop":
		return synth.LoopNone, nil
	case "one_shot":
		return synth.LoopOneShot, nil
	case "loop_continuous":
		return synth.LoopContinuous, nil
	case "loop_sustain":
		return synth.LoopSustain, nil
	}
	return 0, fmt.Errorf("unknown loop mode %q", s)
}

func parseTrigger(s string) (synth.Trigger, error) {
	switch s {
	case "attack":
		return synth.TriggerAttack, nil
	case "release":
		return synth.TriggerRelease, nil
	case "first":
		return synth.TriggerFirst, nil
	case "legato":
		return synth.TriggerLegato, nil
	}
	return 0, fmt.Errorf("unknown trigger %q", s)
}
