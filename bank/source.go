// SPDX-License-Identifier: EPL-2.0

package bank

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ik5/zampler/audio"
	"github.com/ik5/zampler/sfz"
	"github.com/ik5/zampler/synth"
)

// Source loads the root instrument of a bank file on disk.
type Source struct {
	Path       string
	Decoders   *audio.Registry
	SampleRate int
	Logger     *slog.Logger
}

func (s *Source) Name() string { return filepath.Base(s.Path) }

// Load opens the archive, builds its root description and applies the
// program and name from the manifest.
func (s *Source) Load(ctx context.Context, progress func(int)) (*synth.Instrument, error) {
	b, err := OpenFile(s.Path)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root := b.Root()
	in, err := (&sfz.Source{
		FS:         b.FS(),
		Path:       root.FullPath,
		Decoders:   s.Decoders,
		SampleRate: s.SampleRate,
		Logger:     s.Logger,
	}).Load(ctx, progress)
	if err != nil {
		return nil, fmt.Errorf("bank %s: %w", s.Name(), err)
	}

	if root.Program != nil {
		in.Program = *root.Program
	}
	if root.Name != "" {
		in.Name = root.Name
	}
	return in, nil
}
