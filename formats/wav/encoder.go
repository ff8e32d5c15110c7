// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/zampler/audio"
	"github.com/ik5/zampler/internal/dsp"
)

// Encode drains src into w as 16-bit PCM, clamping samples to [-1,1]. It
// returns the number of frames written. w must be seekable so the header
// sizes can be patched once the length is known.
func Encode(w io.WriteSeeker, src audio.Source) (int, error) {
	ch := src.Channels()
	if ch <= 0 {
		return 0, fmt.Errorf("encode wav: %d channels", ch)
	}
	enc := wav.NewEncoder(w, src.SampleRate(), 16, ch, wavPCM)

	size := max(src.BufSize(), ch)
	fbuf := make([]float32, size-size%ch)
	ibuf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: ch, SampleRate: src.SampleRate()},
		Data:           make([]int, len(fbuf)),
		SourceBitDepth: 16,
	}

	frames := 0
	for {
		n, rerr := src.ReadSamples(fbuf)
		if n > 0 {
			ibuf.Data = ibuf.Data[:n]
			for i, v := range fbuf[:n] {
				ibuf.Data[i] = int(dsp.Float32ToInt16(v))
			}
			if err := enc.Write(ibuf); err != nil {
				return frames, fmt.Errorf("encode wav: %w", err)
			}
			frames += n / ch
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			_ = enc.Close()
			return frames, fmt.Errorf("encode wav: %w", rerr)
		}
		if n == 0 {
			break
		}
	}
	if err := enc.Close(); err != nil {
		return frames, fmt.Errorf("encode wav: %w", err)
	}
	return frames, nil
}
