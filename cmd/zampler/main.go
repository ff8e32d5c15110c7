// SPDX-License-Identifier: EPL-2.0

// Command zampler loads sample instruments and renders or plays them.
//
//	zampler render -midi song.mid -o song.wav piano.sfz drums.zbk
//	zampler play [-midi song.mid] piano.sfz
//	zampler list piano.sfz drums.zbk
//	zampler pack -o drums.zbk -root drums.sfz ./drums
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ik5/zampler"
	"github.com/ik5/zampler/synth"
)

// logger is the command-wide structured logger.
var logger = slog.Default()

// initLogger configures the shared slog logger and makes it the default so
// the library packages log through the same handler.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, args []string) error
}

var commands = []command{
	{"render", "render a MIDI file to WAV", runRender},
	{"play", "play instruments live from the keyboard or a MIDI file", runPlay},
	{"list", "load instruments and list their patches", runList},
	{"pack", "bundle an instrument directory into a bank", runPack},
}

var errUsage = errors.New("usage")

func usage() {
	fmt.Fprintln(os.Stderr, "usage: zampler <command> [flags] [args]")
	fmt.Fprintln(os.Stderr)
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", c.name, c.usage)
	}
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, c := range commands {
		if c.name != os.Args[1] {
			continue
		}
		err := c.run(ctx, os.Args[2:])
		switch {
		case err == nil:
			return
		case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
			os.Exit(2)
		default:
			logger.Error(c.name+" failed", "err", err)
			os.Exit(1)
		}
	}
	usage()
	os.Exit(2)
}

// engineFlags are the options shared by the commands that build an engine.
type engineFlags struct {
	debug     bool
	rate      int
	polyphony int
	tuning    float64
	loadRate  bool
}

func newFlagSet(name, args string) (*flag.FlagSet, *engineFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	ef := &engineFlags{}
	def := synth.DefaultConfig()
	fs.BoolVar(&ef.debug, "debug", false, "enable debug logging")
	fs.IntVar(&ef.rate, "rate", def.SampleRate, "engine sample rate in Hz")
	fs.IntVar(&ef.polyphony, "polyphony", def.Polyphony, "number of voices")
	fs.Float64Var(&ef.tuning, "tuning", def.MasterTuning, "frequency of A4 in Hz")
	fs.BoolVar(&ef.loadRate, "convert", false, "resample instruments to the engine rate while loading")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: zampler %s [flags] %s\n", name, args)
		fs.PrintDefaults()
	}
	return fs, ef
}

// engine builds an engine and loads every instrument file named in files.
func (ef *engineFlags) engine(ctx context.Context, files []string) (*synth.Engine, error) {
	cfg := synth.DefaultConfig()
	cfg.SampleRate = ef.rate
	cfg.Polyphony = ef.polyphony
	cfg.MasterTuning = ef.tuning
	cfg.Logger = logger
	eng, err := synth.New(cfg)
	if err != nil {
		return nil, err
	}

	opts := zampler.Options{Decoders: zampler.Decoders(), Logger: logger}
	if ef.loadRate {
		opts.SampleRate = ef.rate
	}
	srcs := make([]synth.Source, 0, len(files))
	for _, f := range files {
		src, err := zampler.OpenSource(f, opts)
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, src)
	}
	if _, err := eng.LoadAll(ctx, srcs...); err != nil {
		return nil, err
	}
	return eng, nil
}
