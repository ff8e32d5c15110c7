// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ik5/zampler"
)

func runRender(ctx context.Context, args []string) error {
	fs, ef := newFlagSet("render", "-midi FILE -o FILE instrument...")
	midiPath := fs.String("midi", "", "Standard MIDI File to render")
	outPath := fs.String("o", "out.wav", "output WAV file")
	tail := fs.Duration("tail", 2*time.Second, "audio rendered after the last event")
	outRate := fs.Int("out-rate", 0, "output sample rate, 0 keeps the engine rate")
	mono := fs.Bool("mono", false, "write a single channel")
	if err := fs.Parse(args); err != nil {
		return err
	}
	initLogger(ef.debug)
	if *midiPath == "" || fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	eng, err := ef.engine(ctx, fs.Args())
	if err != nil {
		return err
	}

	in, err := os.Open(*midiPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	frames, err := zampler.RenderSMF(ctx, eng, in, out, zampler.RenderOptions{
		Tail:       *tail,
		SampleRate: *outRate,
		Mono:       *mono,
		Logger:     logger,
	})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", *midiPath, err)
	}

	st := eng.Stats()
	logger.Info("wrote file",
		"path", *outPath,
		"frames", frames,
		"stolen", st.StolenVoices)
	return nil
}
