// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile       = errors.New("not a WAV file")
	ErrUnsupportedCodec = errors.New("only integer PCM WAV is supported")
	ErrBitDepth         = errors.New("unsupported bit depth")
)
