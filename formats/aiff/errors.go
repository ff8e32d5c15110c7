// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the input is not a FORM/AIFF container.
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrBitDepth indicates a sample size other than 8, 16, 24 or 32 bits.
	ErrBitDepth = errors.New("unsupported AIFF bit depth")
)
