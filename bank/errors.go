// SPDX-License-Identifier: EPL-2.0

package bank

import "errors"

var (
	// ErrNoRootFile means the archive names no instrument description.
	ErrNoRootFile = errors.New("bank has no root file")
	// ErrMissingEntry means a named entry is not in the archive.
	ErrMissingEntry = errors.New("bank entry not found")
)
