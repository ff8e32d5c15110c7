// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/ik5/zampler/audio"
	"github.com/ik5/zampler/formats/internal/intpcm"
)

// wavPCM is the PCM format tag in the fmt chunk.
const wavPCM = 1

type Decoder struct{}

// Decode reads an integer PCM WAV file of 8, 16, 24 or 32 bits. Readers
// that cannot seek are buffered in memory first.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != wavPCM {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedCodec, dec.WavAudioFormat)
	}

	src, err := intpcm.NewSource(dec, int(dec.BitDepth), true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBitDepth, err)
	}
	return src, nil
}
