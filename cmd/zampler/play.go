// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/ik5/zampler"
	"github.com/ik5/zampler/midi"
	"github.com/ik5/zampler/synth"
)

// feedTick is how often scheduled events and key gates are checked.
const feedTick = 2 * time.Millisecond

func runPlay(ctx context.Context, args []string) error {
	fs, ef := newFlagSet("play", "[-midi FILE] instrument...")
	midiPath := fs.String("midi", "", "Standard MIDI File to play")
	channel := fs.Int("channel", 0, "channel played from the keyboard")
	program := fs.Int("program", -1, "program for the keyboard channel, -1 picks the first installed")
	gate := fs.Duration("gate", 400*time.Millisecond, "how long a key press holds its note")
	latency := fs.Duration("latency", 20*time.Millisecond, "output buffer length")
	tail := fs.Duration("tail", 2*time.Second, "time to keep playing after the MIDI file ends")
	if err := fs.Parse(args); err != nil {
		return err
	}
	initLogger(ef.debug)
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	eng, err := ef.engine(ctx, fs.Args())
	if err != nil {
		return err
	}
	if *program < 0 {
		if ps := eng.Patches(); len(ps) > 0 {
			*program = ps[0].Program
		}
	}
	if err := eng.ProgramChange(*channel, *program); err != nil {
		return fmt.Errorf("keyboard channel: %w", err)
	}

	var seq midi.Sequence
	if *midiPath != "" {
		if seq, err = readSequence(*midiPath); err != nil {
			return err
		}
		logger.Info("sequence loaded", "events", len(seq), "duration", seq.Duration(), "channels", seq.Channels())
	}

	var keys chan byte
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprintln(os.Stderr, "keys: z-m and q-u play notes, -/= change octave, space silences, esc quits")
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("raw terminal: %w", err)
		}
		defer term.Restore(fd, state)
		keys = make(chan byte, 16)
		go readKeys(os.Stdin, keys)
	} else if seq == nil {
		return errors.New("stdin is not a terminal and no MIDI file was given")
	}

	out, err := newPlayer(eng.SampleRate(), *latency, newPCMReader(zampler.NewEngineSource(eng)))
	if err != nil {
		return fmt.Errorf("audio output: %w", err)
	}
	err = feed(ctx, eng, newKeyboard(*channel, *gate), seq, keys, *tail)
	if cerr := out.Close(); err == nil {
		err = cerr
	}

	st := eng.Stats()
	logger.Info("stopped",
		"stolen", st.StolenVoices,
		"dropped", st.DroppedEvents,
		"rejected", st.RejectedEvents,
		"skipped", st.SkippedBlocks)
	return err
}

func readSequence(name string) (midi.Sequence, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return midi.ReadSMF(f)
}

// readKeys forwards stdin bytes until it fails, then closes keys.
func readKeys(r io.Reader, keys chan<- byte) {
	defer close(keys)
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			keys <- buf[0]
		}
		if err != nil {
			return
		}
	}
}

// feed is the only producer for p. It posts key presses as they arrive and
// sequence events at their wall-clock time. Without keys it returns tail
// after the sequence ends.
func feed(ctx context.Context, p midi.Poster, kb *keyboard, seq midi.Sequence, keys <-chan byte, tail time.Duration) error {
	tick := time.NewTicker(feedTick)
	defer tick.Stop()

	post := func(evs ...synth.Event) {
		for _, ev := range evs {
			if !p.Post(ev) {
				logger.Warn("event queue full", "kind", ev.Kind, "channel", ev.Channel)
			}
		}
	}

	start := time.Now()
	next := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case b, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			evs, quit := kb.press(b, time.Now())
			if quit {
				return nil
			}
			post(evs...)
		case now := <-tick.C:
			post(kb.expire(now)...)
			elapsed := now.Sub(start)
			for ; next < len(seq) && seq[next].At <= elapsed; next++ {
				post(seq[next].Event)
			}
			if keys == nil && next == len(seq) && elapsed >= seq.Duration()+tail {
				return nil
			}
		}
	}
}
