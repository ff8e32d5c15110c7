// SPDX-License-Identifier: EPL-2.0

package zampler

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/zampler/audio"
	"github.com/ik5/zampler/bank"
	"github.com/ik5/zampler/formats/aiff"
	"github.com/ik5/zampler/formats/mp3"
	"github.com/ik5/zampler/formats/vorbis"
	"github.com/ik5/zampler/formats/wav"
	"github.com/ik5/zampler/sfz"
	"github.com/ik5/zampler/synth"
)

// BankExt is the extension of instrument bank archives.
const BankExt = ".zbk"

// ErrUnsupportedSource is returned by OpenSource for files it has no loader for.
var ErrUnsupportedSource = errors.New("unsupported instrument file")

// Decoders returns a registry with every sample format the module reads.
func Decoders() *audio.Registry {
	r := audio.NewRegistry()
	r.Register(wav.Decoder{}, "wav", "wave")
	r.Register(aiff.Decoder{}, "aif", "aiff")
	r.Register(mp3.Decoder{}, "mp3")
	r.Register(vorbis.Decoder{}, "ogg", "oga")
	return r
}

// Options tunes the loaders built by OpenSource.
type Options struct {
	// Decoders resolves sample files. nil means Decoders().
	Decoders *audio.Registry
	// SampleRate, when set, converts samples at load time.
	SampleRate int
	Logger     *slog.Logger
}

// OpenSource returns the loader for an instrument file on disk: an SFZ
// description reading its samples relative to the file, or a bank archive
// (BankExt or .zip). The file is only checked for existence; it is read when
// the engine loads the source.
func OpenSource(name string, opts Options) (synth.Source, error) {
	if _, err := os.Stat(name); err != nil {
		return nil, err
	}
	if opts.Decoders == nil {
		opts.Decoders = Decoders()
	}

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".sfz":
		dir, base := filepath.Split(name)
		if dir == "" {
			dir = "."
		}
		return &sfz.Source{
			FS:         os.DirFS(dir),
			Path:       base,
			Decoders:   opts.Decoders,
			SampleRate: opts.SampleRate,
			Label:      name,
			Logger:     opts.Logger,
		}, nil
	case BankExt, ".zip":
		return &bank.Source{
			Path:       name,
			Decoders:   opts.Decoders,
			SampleRate: opts.SampleRate,
			Logger:     opts.Logger,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, name)
	}
}
