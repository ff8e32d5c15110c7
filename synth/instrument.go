// SPDX-License-Identifier: EPL-2.0

package synth

import "fmt"

// Trigger selects which key event sounds a region.
type Trigger uint8

const (
	// TriggerAttack sounds on every note-on.
	TriggerAttack Trigger = iota
	// TriggerRelease sounds on note-off, using the note-on velocity.
	TriggerRelease
	// TriggerFirst sounds on note-on when no other key is held on the channel.
	TriggerFirst
	// TriggerLegato sounds on note-on while another key is held on the channel.
	TriggerLegato
)

func (t Trigger) String() string {
	switch t {
	case TriggerAttack:
		return "attack"
	case TriggerRelease:
		return "release"
	case TriggerFirst:
		return "first"
	case TriggerLegato:
		return "legato"
	default:
		return fmt.Sprintf("trigger(%d)", uint8(t))
	}
}

// LoopMode controls how playback treats the sample loop points.
type LoopMode uint8

const (
	// LoopNone plays the sample once and stops at its end or at release end.
	LoopNone LoopMode = iota
	// LoopOneShot plays the whole sample once, ignoring note-off.
	LoopOneShot
	// LoopContinuous repeats [LoopStart, LoopEnd) for the life of the voice.
	LoopContinuous
	// LoopSustain repeats [LoopStart, LoopEnd) until note-off.
	LoopSustain
)

// Sample is decoded PCM data shared by the regions that play it.
// Frames are interleaved float32 values in [-1,1].
type Sample struct {
	Name       string
	SampleRate int
	Channels   int
	Frames     []float32
}

// Len returns the sample length in frames.
func (s *Sample) Len() int {
	if s == nil || s.Channels == 0 {
		return 0
	}
	return len(s.Frames) / s.Channels
}

// at returns the left and right value of frame i, clamping to the sample
// bounds. Mono samples return the same value for both sides.
func (s *Sample) at(i int) (float32, float32) {
	n := s.Len()
	if i < 0 {
		i = 0
	} else if i >= n {
		i = n - 1
	}
	if s.Channels == 1 {
		v := s.Frames[i]
		return v, v
	}
	base := i * s.Channels
	return s.Frames[base], s.Frames[base+1]
}

// Region maps a key and velocity window to a sample with its playback
// parameters.
type Region struct {
	LoKey, HiKey int
	LoVel, HiVel int
	Trigger      Trigger

	Sample *Sample

	// KeyCenter is the key at which the sample plays at its recorded pitch.
	KeyCenter int
	// KeyTrack is the pitch change in cents per key.
	KeyTrack  int
	Transpose int
	// Tune is a fine offset in cents.
	Tune int

	// Volume in dB.
	Volume float64
	// Pan in [-100,100].
	Pan float64
	// VelTrack is the velocity-to-amplitude tracking in percent.
	VelTrack float64

	Offset    int
	Loop      LoopMode
	LoopStart int
	LoopEnd   int

	Envelope EnvelopeParams

	// Group and OffBy implement exclusive groups: a voice started from a
	// region in group G cuts voices whose region has OffBy == G.
	Group int
	OffBy int
}

// NewRegion returns a region covering every key and velocity with neutral
// playback parameters.
func NewRegion(s *Sample) *Region {
	return &Region{
		LoKey:     0,
		HiKey:     127,
		LoVel:     1,
		HiVel:     127,
		Sample:    s,
		KeyCenter: 60,
		KeyTrack:  100,
		VelTrack:  100,
		LoopEnd:   s.Len(),
		Envelope:  DefaultEnvelope,
	}
}

// Matches reports whether the region sounds for the key, velocity and
// trigger kind.
func (r *Region) Matches(key, velocity int, t Trigger) bool {
	return r.Trigger == t &&
		key >= r.LoKey && key <= r.HiKey &&
		velocity >= r.LoVel && velocity <= r.HiVel
}

func (r *Region) validate() error {
	if r.Sample == nil || r.Sample.Len() == 0 {
		return fmt.Errorf("region %d-%d: empty sample", r.LoKey, r.HiKey)
	}
	if r.Sample.Channels != 1 && r.Sample.Channels != 2 {
		return fmt.Errorf("region %d-%d: %d channels not supported", r.LoKey, r.HiKey, r.Sample.Channels)
	}
	if r.Sample.SampleRate <= 0 {
		return fmt.Errorf("region %d-%d: sample rate %d", r.LoKey, r.HiKey, r.Sample.SampleRate)
	}
	if r.LoKey > r.HiKey || r.LoVel > r.HiVel {
		return fmt.Errorf("region %d-%d/%d-%d: inverted range", r.LoKey, r.HiKey, r.LoVel, r.HiVel)
	}
	return nil
}

// Instrument is an immutable set of regions registered under a program.
// Regions may overlap; every matching region sounds.
type Instrument struct {
	// Program is the program number the instrument is installed under.
	// A negative value lets the library pick the lowest unused number.
	Program int
	Name    string
	// Source names where the instrument came from (file path or bank).
	Source  string
	Regions []*Region
}

// match appends to dst every region sounding for key/velocity/trigger, up
// to cap(dst).
func (in *Instrument) match(dst []*Region, key, velocity int, t Trigger) []*Region {
	for _, r := range in.Regions {
		if len(dst) == cap(dst) {
			break
		}
		if r.Matches(key, velocity, t) {
			dst = append(dst, r)
		}
	}
	return dst
}

// Match returns the regions sounding for key/velocity/trigger.
func (in *Instrument) Match(key, velocity int, t Trigger) []*Region {
	return in.match(make([]*Region, 0, MaxTrigger), key, velocity, t)
}

// Validate checks that the instrument can be installed.
func (in *Instrument) Validate() error {
	if len(in.Regions) == 0 {
		return ErrNoRegions
	}
	for _, r := range in.Regions {
		if err := r.validate(); err != nil {
			return err
		}
	}
	return nil
}
