// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/bestmatch/blob/master/LICENSE.txt.

package bestmatch

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrEmptyField    = errors.New("empty field")
)

// PatternError is returned when a pattern is rejected at registration.
type PatternError struct {
	// Err is the sentinel error describing the rejection (e.g. [ErrEmptyField]).
	Err error
	// Text is the rejected pattern text.
	Text string
	// Pos is the 0-based position of the offending field.
	Pos int
}

func (e *PatternError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid pattern ")
	sb.WriteString(strconv.Quote(e.Text))
	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())
	sb.WriteString(" at position ")
	sb.WriteString(strconv.Itoa(e.Pos))
	return sb.String()
}

// Unwrap returns the sentinel error carried by e.
func (e *PatternError) Unwrap() error {
	return e.Err
}
