// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Source builds an instrument from an external description. Load may block,
// allocate and perform I/O. It reports its own progress in percent through
// progress and should check ctx between I/O steps.
type Source interface {
	Name() string
	Load(ctx context.Context, progress func(percent int)) (*Instrument, error)
}

// Load builds src and installs its instrument. On any failure the library
// is left exactly as it was.
func (e *Engine) Load(ctx context.Context, src Source) (Patch, error) {
	patches, err := e.LoadAll(ctx, src)
	if err != nil {
		return Patch{}, err
	}
	return patches[0], nil
}

// AddSoundFont is Load under the name used by hosts managing sound fonts.
func (e *Engine) AddSoundFont(ctx context.Context, src Source) (Patch, error) {
	return e.Load(ctx, src)
}

// LoadAll builds every source concurrently and installs the instruments
// together. If any source fails nothing is installed.
func (e *Engine) LoadAll(ctx context.Context, srcs ...Source) ([]Patch, error) {
	e.progress.Store(0)
	if len(srcs) == 0 {
		e.progress.Store(100)
		return nil, nil
	}

	built := make([]*Instrument, len(srcs))
	parts := make([]atomic.Int64, len(srcs))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		g.Go(func() error {
			e.logger.Debug("synth: loading", "source", src.Name())
			in, err := src.Load(gctx, func(p int) {
				parts[i].Store(int64(min(max(p, 0), 100)))
				e.reportProgress(parts)
			})
			if err == nil && in == nil {
				err = ErrNoRegions
			}
			if err == nil {
				err = in.Validate()
			}
			if err != nil {
				if ctx.Err() != nil {
					err = fmt.Errorf("%w: %w", ErrLoadCanceled, err)
				}
				return &LoadError{Source: src.Name(), Err: err}
			}
			if in.Source == "" {
				in.Source = src.Name()
			}
			built[i] = in
			parts[i].Store(100)
			e.reportProgress(parts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Error("synth: load failed", "err", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Source: srcs[0].Name(), Err: fmt.Errorf("%w: %w", ErrLoadCanceled, err)}
	}

	if err := e.lock(ctx); err != nil {
		return nil, err
	}
	err := e.lib.install(built...)
	if err == nil {
		e.rebind()
	}
	e.unlock()
	if err != nil {
		e.logger.Error("synth: install failed", "err", err)
		return nil, &LoadError{Source: srcs[0].Name(), Err: err}
	}

	patches := make([]Patch, len(built))
	for i, in := range built {
		patches[i] = Patch{Program: in.Program, Name: in.Name, Source: in.Source, Regions: len(in.Regions)}
		e.logger.Info("synth: instrument loaded",
			"program", in.Program, "name", in.Name, "source", in.Source, "regions", len(in.Regions))
	}
	e.progress.Store(100)
	return patches, nil
}

// rebind attaches newly installed instruments to the channels that still
// select their program after an unload.
func (e *Engine) rebind() {
	for i := range e.channels {
		c := &e.channels[i]
		if c.instrument == nil && c.program >= 0 {
			c.instrument, _ = e.lib.Instrument(c.program)
		}
	}
}

// reportProgress publishes the mean of the per-source progress values,
// never lowering the counter.
func (e *Engine) reportProgress(parts []atomic.Int64) {
	var sum int64
	for i := range parts {
		sum += parts[i].Load()
	}
	p := sum / int64(len(parts))
	for {
		cur := e.progress.Load()
		if p <= cur || e.progress.CompareAndSwap(cur, p) {
			return
		}
	}
}

// Unload removes the instrument installed under program. Voices still
// playing it are stopped first and channels selecting it fall silent until
// an instrument is installed under that program again.
func (e *Engine) Unload(ctx context.Context, program int) error {
	if _, ok := e.lib.Instrument(program); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownProgram, program)
	}
	return e.unload(ctx, func(in *Instrument) bool { return in.Program == program })
}

// RemoveSoundFont removes every instrument loaded from the named source.
func (e *Engine) RemoveSoundFont(ctx context.Context, name string) error {
	found := false
	for _, s := range e.lib.Sources() {
		if s == name {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotLoaded, name)
	}
	return e.unload(ctx, func(in *Instrument) bool { return in.Source == name })
}

func (e *Engine) unload(ctx context.Context, drop func(*Instrument) bool) error {
	if err := e.lock(ctx); err != nil {
		return err
	}
	defer e.unlock()

	stopped := 0
	for v := e.pool.First(); v != nil; {
		next := e.pool.Next(v)
		if drop(v.instrument) {
			e.reclaim(v)
			stopped++
		}
		v = next
	}
	for i := range e.channels {
		c := &e.channels[i]
		if c.instrument != nil && drop(c.instrument) {
			c.instrument = nil
		}
	}
	removed := e.lib.remove(drop)
	for _, in := range removed {
		e.logger.Info("synth: instrument removed", "program", in.Program, "name", in.Name, "source", in.Source)
	}
	if stopped > 0 {
		e.logger.Debug("synth: stopped voices of removed instruments", "voices", stopped)
	}
	if len(removed) == 0 {
		return ErrNotLoaded
	}
	return nil
}
