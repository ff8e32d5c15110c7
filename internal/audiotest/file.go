// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// File is an in-memory io.ReadWriteSeeker, as the go-audio encoders and
// decoders require.
type File struct {
	data []byte
	off  int64
}

// NewFile returns a file positioned at the start of b.
func NewFile(b []byte) *File { return &File{data: b} }

func (f *File) Bytes() []byte { return f.data }

func (f *File) Read(p []byte) (int, error) {
	if f.off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.off:])
	f.off += int64(n)
	return n, nil
}

func (f *File) Write(p []byte) (int, error) {
	end := f.off + int64(len(p))
	if end > int64(len(f.data)) {
		f.data = append(f.data, make([]byte, end-int64(len(f.data)))...)
	}
	copy(f.data[f.off:], p)
	f.off = end
	return len(p), nil
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += f.off
	case io.SeekEnd:
		offset += int64(len(f.data))
	default:
		return 0, errors.New("audiotest: invalid whence")
	}
	if offset < 0 {
		return 0, errors.New("audiotest: negative position")
	}
	f.off = offset
	return offset, nil
}

func intBuffer(rate, channels, bitDepth int, data []int) *goaudio.IntBuffer {
	return &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
}

// WAV encodes interleaved integer PCM as a RIFF/WAVE file.
func WAV(rate, channels, bitDepth int, data []int) ([]byte, error) {
	f := &File{}
	enc := wav.NewEncoder(f, rate, bitDepth, channels, 1)
	if err := enc.Write(intBuffer(rate, channels, bitDepth, data)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return f.Bytes(), nil
}

// AIFF encodes interleaved integer PCM as an AIFF file.
func AIFF(rate, channels, bitDepth int, data []int) ([]byte, error) {
	f := &File{}
	enc := aiff.NewEncoder(f, rate, bitDepth, channels)
	if err := enc.Write(intBuffer(rate, channels, bitDepth, data)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return f.Bytes(), nil
}

// Int16s scales float samples in [-1,1] to 16-bit integers.
func Int16s(samples []float32) []int {
	out := make([]int, len(samples))
	for i, v := range samples {
		out[i] = int(max(min(v, 1), -1) * 32767)
	}
	return out
}
