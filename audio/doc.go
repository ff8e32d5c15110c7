// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming primitives shared by the decoders and
// the sample loaders.
//
// A Source yields interleaved float32 samples. Decoders turn encoded files
// into Sources and are looked up by file extension in a Registry:
//
//	reg := audio.NewRegistry()
//	reg.Register(wav.Decoder{}, "wav", "wave")
//	src, err := reg.Decode("piano_c4.wav", f)
//
// Sources chain. A Resampler converts the sample rate with cubic
// interpolation; a ChannelMixer changes the channel count:
//
//	out := audio.NewMonoMixer(audio.NewResampler(src, 16000))
//
// ReadAll drains a Source into a PCM buffer, which is how instrument
// samples are brought into memory before playback.
package audio
