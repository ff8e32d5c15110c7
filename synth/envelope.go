// SPDX-License-Identifier: EPL-2.0

package synth

// Stage is the current segment of a voice's amplitude envelope.
type Stage uint8

const (
	StageIdle Stage = iota
	StageAttack
	StageHold
	StageDecay
	StageSustain
	StageRelease
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAttack:
		return "attack"
	case StageHold:
		return "hold"
	case StageDecay:
		return "decay"
	case StageSustain:
		return "sustain"
	case StageRelease:
		return "release"
	default:
		return "unknown"
	}
}

// EnvelopeParams describes an attack/hold/decay/sustain/release shape.
// Times are in seconds, Sustain is a level in [0,1].
type EnvelopeParams struct {
	Attack  float64
	Hold    float64
	Decay   float64
	Sustain float64
	Release float64
}

// DefaultEnvelope is a gate: instant attack, full sustain, 1 ms release.
var DefaultEnvelope = EnvelopeParams{Sustain: 1, Release: 0.001}

// envelope is a linear segment generator advanced once per frame.
type envelope struct {
	stage     Stage
	level     float32
	step      float32
	remaining int

	hold    int
	decay   int
	sustain float32
	rel     int
}

func seconds(t float64, rate int) int {
	if t <= 0 {
		return 0
	}
	return int(t*float64(rate) + 0.5)
}

// start resets the envelope to its attack stage.
func (e *envelope) start(p EnvelopeParams, rate int) {
	e.hold = seconds(p.Hold, rate)
	e.decay = seconds(p.Decay, rate)
	e.rel = max(seconds(p.Release, rate), 1)
	e.sustain = float32(min(max(p.Sustain, 0), 1))

	e.stage = StageAttack
	e.level = 0
	attack := seconds(p.Attack, rate)
	if attack == 0 {
		e.level = 1
		e.enterHold()
		return
	}
	e.remaining = attack
	e.step = 1 / float32(attack)
}

func (e *envelope) enterHold() {
	if e.hold == 0 {
		e.enterDecay()
		return
	}
	e.stage = StageHold
	e.level = 1
	e.step = 0
	e.remaining = e.hold
}

func (e *envelope) enterDecay() {
	if e.decay == 0 {
		e.enterSustain()
		return
	}
	e.stage = StageDecay
	e.remaining = e.decay
	e.step = (e.sustain - 1) / float32(e.decay)
}

func (e *envelope) enterSustain() {
	e.level = e.sustain
	e.step = 0
	e.remaining = 0
	if e.sustain == 0 {
		e.stage = StageIdle
		return
	}
	e.stage = StageSustain
}

// release moves a sounding envelope into its release stage.
func (e *envelope) release() {
	e.releaseIn(e.rel)
}

// releaseIn fades from the current level to silence over n frames.
func (e *envelope) releaseIn(n int) {
	if e.stage == StageIdle || (e.stage == StageRelease && e.remaining <= n) {
		return
	}
	n = max(n, 1)
	e.stage = StageRelease
	e.remaining = n
	e.step = -e.level / float32(n)
}

// next returns the level for the current frame and advances by one frame.
func (e *envelope) next() float32 {
	l := e.level
	switch e.stage {
	case StageIdle, StageSustain:
		return l
	}
	e.level += e.step
	e.remaining--
	if e.remaining > 0 {
		return l
	}
	switch e.stage {
	case StageAttack:
		e.level = 1
		e.enterHold()
	case StageHold:
		e.enterDecay()
	case StageDecay:
		e.enterSustain()
	case StageRelease:
		e.level = 0
		e.stage = StageIdle
	}
	return l
}

func (e *envelope) done() bool { return e.stage == StageIdle }
