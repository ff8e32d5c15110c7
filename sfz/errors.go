// SPDX-License-Identifier: EPL-2.0

package sfz

import (
	"errors"
	"fmt"
)

var (
	ErrNoSample   = errors.New("region has no sample")
	ErrBadSection = errors.New("unknown section header")
)

// ParseError reports a malformed line of an instrument description.
type ParseError struct {
	File string
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s:%d: %s: %v", e.File, e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }
