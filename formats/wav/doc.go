// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes RIFF/WAVE files using
// github.com/go-audio/wav.
//
// The decoder accepts integer PCM at 8, 16, 24 or 32 bits, any channel
// count and any sample rate, and yields float32 samples in [-1, 1):
//
//	f, _ := os.Open("piano_c4.wav")
//	src, err := wav.Decoder{}.Decode(f)
//
// Encode writes any audio.Source as 16-bit PCM. The destination must be an
// io.WriteSeeker, such as an *os.File:
//
//	out, _ := os.Create("render.wav")
//	frames, err := wav.Encode(out, src)
package wav
