// SPDX-License-Identifier: EPL-2.0

package sfz

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/ik5/zampler/audio"
	"github.com/ik5/zampler/synth"
)

// maxSampleFrames bounds a single decoded sample (ten minutes at 96 kHz).
const maxSampleFrames = 96000 * 600

// Source loads an instrument from an SFZ file inside FS. Samples are
// resolved relative to the file, after the <control> default_path.
type Source struct {
	FS   fs.FS
	Path string

	// Decoders decodes the sample files by extension.
	Decoders *audio.Registry
	// SampleRate, when set, resamples every sample to this rate at load
	// time instead of leaving the conversion to playback.
	SampleRate int
	// Label overrides the name used for the source in the library.
	Label  string
	Logger *slog.Logger
}

func (s *Source) Name() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Path
}

func (s *Source) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Load parses the file, decodes each distinct sample once and returns the
// built instrument. ctx is checked before every sample.
func (s *Source) Load(ctx context.Context, progress func(int)) (*synth.Instrument, error) {
	if s.Decoders == nil {
		return nil, fmt.Errorf("sfz %s: no decoders", s.Path)
	}
	if progress == nil {
		progress = func(int) {}
	}
	raw, err := fs.ReadFile(s.FS, s.Path)
	if err != nil {
		return nil, fmt.Errorf("sfz: %w", err)
	}
	f, err := Parse(bytes.NewReader(raw), s.Path)
	if err != nil {
		return nil, err
	}

	in := &synth.Instrument{Program: -1, Name: strings.TrimSuffix(path.Base(s.Path), path.Ext(s.Path))}
	base := path.Dir(s.Path)
	if op, ok := f.Control.Lookup("default_path"); ok {
		base = path.Join(base, strings.ReplaceAll(op.Value, `\`, "/"))
	}
	if op, ok := f.Control.Lookup("program"); ok {
		if in.Program, err = intIn(op.Value, 0, 1<<30); err != nil {
			return nil, &ParseError{File: s.Path, Line: op.Line, Msg: "program", Err: err}
		}
	}
	if op, ok := f.Control.Lookup("label"); ok {
		in.Name = op.Value
	}

	planned := make([]*regionSpec, 0, len(f.Regions))
	var unknown []string
	for _, sec := range f.Regions {
		rs, unk, err := applyRegion(s.Path, sec)
		if err != nil {
			return nil, err
		}
		planned = append(planned, rs)
		for _, u := range unk {
			if !slices.Contains(unknown, u) {
				unknown = append(unknown, u)
			}
		}
	}
	if len(unknown) > 0 {
		s.logger().Warn("sfz: ignoring unsupported opcodes", "file", s.Path, "opcodes", unknown)
	}

	samples := map[string]decoded{}
	for i, rs := range planned {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := path.Join(base, rs.sample)
		if !fs.ValidPath(name) {
			return nil, &ParseError{File: s.Path, Line: rs.line, Msg: "sample " + strconv.Quote(rs.sample), Err: fs.ErrInvalid}
		}
		d, ok := samples[name]
		if !ok {
			if d, err = s.decode(name); err != nil {
				return nil, &ParseError{File: s.Path, Line: rs.line, Msg: "sample " + strconv.Quote(rs.sample), Err: err}
			}
			samples[name] = d
		}
		in.Regions = append(in.Regions, rs.build(d))
		progress((i + 1) * 100 / len(planned))
	}
	return in, nil
}

// decoded is a sample in memory. scale converts frame positions in the
// file's own rate to positions in the stored frames.
type decoded struct {
	sample *synth.Sample
	scale  float64
}

// decode reads one sample file as mono or stereo PCM.
func (s *Source) decode(name string) (decoded, error) {
	f, err := s.FS.Open(name)
	if err != nil {
		return decoded{}, err
	}
	defer f.Close()

	src, err := s.Decoders.Decode(name, f)
	if err != nil {
		return decoded{}, err
	}
	if src.Channels() > 2 {
		if src, err = audio.NewChannelMixer(src, 2); err != nil {
			return decoded{}, err
		}
	}
	scale := 1.0
	if rate := src.SampleRate(); s.SampleRate > 0 && rate > 0 && rate != s.SampleRate {
		src = audio.NewResampler(src, s.SampleRate)
		scale = float64(s.SampleRate) / float64(rate)
	}
	pcm, err := audio.ReadAll(src, maxSampleFrames)
	if err != nil {
		return decoded{}, err
	}
	return decoded{
		sample: &synth.Sample{
			Name:       name,
			SampleRate: pcm.SampleRate,
			Channels:   pcm.Channels,
			Frames:     pcm.Samples,
		},
		scale: scale,
	}, nil
}

// build binds rs to its decoded sample, scaling frame positions when the
// sample was resampled on load.
func (rs *regionSpec) build(d decoded) *synth.Region {
	r := rs.region
	r.Sample = d.sample
	n := d.sample.Len()
	at := func(frame int) int { return int(float64(frame)*d.scale + 0.5) }

	if !rs.loopMode && rs.hasLoop {
		r.Loop = synth.LoopContinuous
	}
	r.Offset = min(at(r.Offset), max(n-1, 0))
	r.LoopStart = min(at(r.LoopStart), n)
	r.LoopEnd = n
	if rs.loopEnd >= 0 {
		r.LoopEnd = min(at(rs.loopEnd+1), n)
	}
	if r.LoopEnd <= r.LoopStart {
		r.LoopStart, r.LoopEnd = 0, n
	}
	return &r
}
