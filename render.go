// SPDX-License-Identifier: EPL-2.0

package zampler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ik5/zampler/audio"
	"github.com/ik5/zampler/formats/wav"
	"github.com/ik5/zampler/midi"
	"github.com/ik5/zampler/synth"
)

const engineBufSize = 2048

// EngineSource reads stereo interleaved audio from an engine. With a
// sequence attached, every event is applied at its exact frame and the
// source ends a tail after the last event; without one it never ends.
//
// An EngineSource drives the render pass itself, so the engine must not be
// rendered anywhere else while it is in use.
type EngineSource struct {
	ctx context.Context
	eng *synth.Engine
	log *slog.Logger

	seq  midi.Sequence
	next int
	pos  int64
	end  int64

	rejected int
}

// NewEngineSource returns an unbounded source over eng. Events reach the
// engine through Engine.Post.
func NewEngineSource(eng *synth.Engine) *EngineSource {
	return &EngineSource{ctx: context.Background(), eng: eng, log: slog.Default(), end: -1}
}

// NewSequenceSource returns a source that plays seq on eng and ends tail
// after the last event. Reads fail once ctx is done.
func NewSequenceSource(ctx context.Context, eng *synth.Engine, seq midi.Sequence, tail time.Duration) *EngineSource {
	rate := eng.SampleRate()
	end := midi.Timed{At: seq.Duration() + max(tail, 0)}.Frame(rate)
	return &EngineSource{ctx: ctx, eng: eng, log: slog.Default(), seq: seq, end: end}
}

func (s *EngineSource) SampleRate() int { return s.eng.SampleRate() }
func (s *EngineSource) Channels() int   { return 2 }
func (s *EngineSource) BufSize() int    { return engineBufSize }
func (s *EngineSource) Close() error    { return nil }

// Frame returns the number of frames rendered so far.
func (s *EngineSource) Frame() int64 { return s.pos }

// Rejected returns how many sequence events the engine refused, such as
// program changes to programs that are not installed.
func (s *EngineSource) Rejected() int { return s.rejected }

// ReadSamples renders len(dst)/2 frames into dst, overwriting it.
func (s *EngineSource) ReadSamples(dst []float32) (int, error) {
	frames := len(dst) / 2
	if frames == 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if err := s.ctx.Err(); err != nil {
		return 0, err
	}
	if s.end >= 0 {
		frames = int(min(int64(frames), s.end-s.pos))
		if frames <= 0 {
			return 0, io.EOF
		}
	}

	out := dst[:frames*2]
	clear(out)
	rate := s.eng.SampleRate()
	for done := 0; done < frames; {
		s.dispatch(rate)
		n := frames - done
		if s.next < len(s.seq) {
			n = int(min(int64(n), s.seq[s.next].Frame(rate)-s.pos))
		}
		s.eng.RenderInterleaved(out[done*2 : (done+n)*2])
		done += n
		s.pos += int64(n)
	}
	return len(out), nil
}

// dispatch applies every event due at the current frame.
func (s *EngineSource) dispatch(rate int) {
	for ; s.next < len(s.seq) && s.seq[s.next].Frame(rate) <= s.pos; s.next++ {
		t := s.seq[s.next]
		if err := s.eng.Play(t.Event); err != nil {
			s.rejected++
			s.log.Debug("event rejected", "at", t.At, "kind", t.Event.Kind, "channel", t.Event.Channel, "error", err)
		}
	}
}

// RenderOptions controls RenderSMF.
type RenderOptions struct {
	// Tail is rendered after the last event so releases can finish.
	Tail time.Duration
	// SampleRate of the written file. 0 keeps the engine rate.
	SampleRate int
	// Mono folds the output to one channel.
	Mono   bool
	Logger *slog.Logger
}

// RenderSMF plays the Standard MIDI File read from r on eng and writes the
// result to w as 16-bit WAV. It returns the number of frames written.
func RenderSMF(ctx context.Context, eng *synth.Engine, r io.Reader, w io.WriteSeeker, opts RenderOptions) (int, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	seq, err := midi.ReadSMF(r)
	if err != nil {
		return 0, err
	}

	src := NewSequenceSource(ctx, eng, seq, opts.Tail)
	src.log = log

	var out audio.Source = src
	if opts.SampleRate > 0 && opts.SampleRate != eng.SampleRate() {
		out = audio.NewResampler(out, opts.SampleRate)
	}
	if opts.Mono {
		out = audio.NewMonoMixer(out)
	}

	start := time.Now()
	frames, err := wav.Encode(w, out)
	if err != nil {
		return frames, fmt.Errorf("render: %w", err)
	}
	log.Info("rendered",
		"events", len(seq),
		"rejected", src.Rejected(),
		"frames", frames,
		"rate", out.SampleRate(),
		"channels", out.Channels(),
		"elapsed", time.Since(start))
	return frames, nil
}
