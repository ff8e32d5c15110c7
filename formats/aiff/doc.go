// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files using github.com/go-audio/aiff.
//
// Integer PCM at 8, 16, 24 or 32 bits is supported, in any channel count
// and at any sample rate:
//
//	f, _ := os.Open("strings_a3.aif")
//	src, err := aiff.Decoder{}.Decode(f)
package aiff
