// SPDX-License-Identifier: EPL-2.0

// Package zampler is a polyphonic sample playback engine.
//
// The engine itself lives in the synth subpackage: a fixed pool of voices,
// 64 channels with their own program, controllers and tuning, and a render
// pass that never allocates. This package ties it to the loaders and the
// audio plumbing around it.
//
// # Loading instruments
//
// Instruments are described by SFZ files (package sfz) or by bank archives
// bundling an SFZ file with its samples (package bank). OpenSource picks the
// loader from the file extension:
//
//	eng, _ := synth.New(synth.DefaultConfig())
//	src, _ := zampler.OpenSource("piano.sfz", zampler.Options{})
//	patch, err := eng.Load(ctx, src)
//
// Samples may be WAV, AIFF, MP3 or Ogg Vorbis; Decoders returns the
// registry covering all of them.
//
// # Rendering
//
// Hosts with their own audio callback call Engine.Render or
// Engine.RenderInterleaved directly. EngineSource turns an engine into an
// audio.Source so rendered audio can go through the Resampler, the
// ChannelMixer and the WAV encoder:
//
//	f, _ := os.Create("out.wav")
//	frames, err := zampler.RenderSMF(ctx, eng, midiFile, f, zampler.RenderOptions{
//		Tail: 2 * time.Second,
//	})
//
// # Supported Formats
//
//   - WAV (PCM 8/16/24/32-bit) via formats/wav
//   - AIFF (PCM 8/16/24/32-bit) via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//
// See the individual subpackages for more detailed documentation.
package zampler
