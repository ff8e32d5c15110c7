// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/zampler/audio"
	"github.com/ik5/zampler/internal/audiotest"
)

// header writes a canonical RIFF/WAVE file holding eight zero bytes of data.
func header(format, channels, rate, bits int) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(44))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(format))
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(rate))
	binary.Write(buf, binary.LittleEndian, uint32(rate*channels*bits/8))
	binary.Write(buf, binary.LittleEndian, uint16(channels*bits/8))
	binary.Write(buf, binary.LittleEndian, uint16(bits))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(8))
	buf.Write(make([]byte, 8))
	return buf.Bytes()
}

func readAll(t *testing.T, src audio.Source) []float32 {
	t.Helper()

	pcm, err := audio.ReadAll(src, 0)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	return pcm.Samples
}

func TestDecoder_BitDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bits int
		in   []int
		want []float32
	}{
		{"8 bit", 8, []int{128, 192, 0}, []float32{0, 0.5, -1}},
		{"16 bit", 16, []int{0, 16384, -32768}, []float32{0, 0.5, -1}},
		{"24 bit", 24, []int{0, 4194304, -8388608}, []float32{0, 0.5, -1}},
		{"32 bit", 32, []int{0, 1073741824, -2147483648}, []float32{0, 0.5, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := audiotest.WAV(22050, 1, tt.bits, tt.in)
			if err != nil {
				t.Fatalf("WAV() error = %v", err)
			}
			src, err := Decoder{}.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if src.SampleRate() != 22050 || src.Channels() != 1 {
				t.Errorf("SampleRate, Channels = %d, %d; want 22050, 1", src.SampleRate(), src.Channels())
			}

			got := readAll(t, src)
			if len(got) != len(tt.want) {
				t.Fatalf("decoded %d samples, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sample %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecoder_Stereo(t *testing.T) {
	t.Parallel()

	data, err := audiotest.WAV(44100, 2, 16, []int{100, -100, 200, -200})
	if err != nil {
		t.Fatal(err)
	}
	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	got := readAll(t, src)
	if len(got) != 4 || got[0] <= 0 || got[1] >= 0 {
		t.Errorf("decoded %v, want interleaved L/R with alternating sign", got)
	}
}

func TestDecoder_NonSeekableReader(t *testing.T) {
	t.Parallel()

	data, err := audiotest.WAV(8000, 1, 16, []int{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := readAll(t, src); len(got) != 3 {
		t.Errorf("decoded %d samples, want 3", len(got))
	}
}

func TestDecoder_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"garbage", []byte("NOT A WAV FILE DATA"), ErrNotWavFile},
		{"truncated", []byte("RIFF\x00"), ErrNotWavFile},
		{"float format", header(3, 1, 8000, 32), ErrUnsupportedCodec},
		{"12 bit", header(1, 1, 8000, 12), ErrBitDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	src := audiotest.Ramp(16000, 2, 1000)
	f := &audiotest.File{}
	frames, err := Encode(f, src)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if frames != 1000 {
		t.Errorf("Encode() frames = %d, want 1000", frames)
	}

	dec, err := Decoder{}.Decode(audiotest.NewFile(f.Bytes()))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if dec.SampleRate() != 16000 || dec.Channels() != 2 {
		t.Errorf("SampleRate, Channels = %d, %d", dec.SampleRate(), dec.Channels())
	}
	got := readAll(t, dec)
	if len(got) != 2000 {
		t.Fatalf("decoded %d samples, want 2000", len(got))
	}
	// Right channel of Ramp sits above 1 and is clamped.
	for i := 0; i < len(got); i += 2 {
		want := float32(i/2) / 1000
		if d := got[i] - want; d > 1e-4 || d < -1e-4 {
			t.Fatalf("left frame %d = %v, want %v", i/2, got[i], want)
		}
		if got[i+1] < 0.999 {
			t.Fatalf("right frame %d = %v, want clamped to full scale", i/2, got[i+1])
		}
	}
}

func TestEncode_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := audiotest.Constant(8000, 1, 10, 0.5)
	src.Err = boom
	if _, err := Encode(&audiotest.File{}, src); !errors.Is(err, boom) {
		t.Errorf("Encode() error = %v, want %v", err, boom)
	}
}
