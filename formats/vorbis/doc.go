// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams using
// github.com/jfreymuth/oggvorbis. Samples are delivered as decoded, in the
// stream's own channel count and sample rate.
package vorbis
