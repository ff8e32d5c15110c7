// SPDX-License-Identifier: EPL-2.0

package main

import (
	"encoding/binary"
	"math"

	"github.com/ik5/zampler/audio"
)

// pcmReader serves src as little-endian float32 bytes for the audio device.
type pcmReader struct {
	src audio.Source
	buf []float32
}

func newPCMReader(src audio.Source) *pcmReader {
	return &pcmReader{src: src, buf: make([]float32, src.BufSize())}
}

func (r *pcmReader) Read(p []byte) (int, error) {
	ch := r.src.Channels()
	n := len(p) / 4
	n -= n % ch
	if n == 0 {
		return 0, nil
	}
	if len(r.buf) < n {
		r.buf = make([]float32, n)
	}
	got, err := r.src.ReadSamples(r.buf[:n])
	for i, v := range r.buf[:got] {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(v))
	}
	return got * 4, err
}
