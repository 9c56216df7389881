// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/bestmatch/blob/master/LICENSE.txt.

package bestmatch

import (
	"slices"
	"strings"

	"github.com/tigerwill90/bestmatch/internal/iterutil"
)

const (
	patternSep = ","
	pathSep    = "/"
)

// FieldKind tells whether a Field is a literal or a wildcard.
type FieldKind uint8

const (
	LiteralField FieldKind = iota
	WildcardField
)

func (k FieldKind) String() string {
	switch k {
	case WildcardField:
		return "wildcard"
	default:
		return "literal"
	}
}

// Field is a single comma separated token of a pattern. A wildcard field carries the wildcard token as Text
// for rendering purpose only, all matching logic relies on Kind.
type Field struct {
	Text string
	Kind FieldKind
}

// IsWildcard reports whether the field matches any path field at the same position.
func (f Field) IsWildcard() bool {
	return f.Kind == WildcardField
}

func (f Field) String() string {
	return f.Text
}

// Pattern is the immutable parsed representation of a registered pattern. Two patterns built from the same text
// are distinct entries, identified by their registration number (see [Pattern.ID]).
type Pattern struct {
	text      string
	fields    []Field
	id        int
	wildcards int
	score     int
}

// String returns the original pattern text.
func (p *Pattern) String() string {
	return p.text
}

// ID returns the 0-based registration number of the pattern.
func (p *Pattern) ID() int {
	return p.id
}

// Fields returns a copy of the pattern fields.
func (p *Pattern) Fields() []Field {
	return slices.Clone(p.fields)
}

// FieldCount returns the number of fields. A pattern can only match a path with the same number of fields.
func (p *Pattern) FieldCount() int {
	return len(p.fields)
}

// WildcardCount returns the number of wildcard fields.
func (p *Pattern) WildcardCount() int {
	return p.wildcards
}

// WildcardScore returns the 0-based position of the leftmost wildcard field, or -1 if the pattern has none.
func (p *Pattern) WildcardScore() int {
	return p.score
}

// hasEmptyField reports whether the pattern has at least one empty literal field (e.g. "a,,b").
func (p *Pattern) hasEmptyField() (int, bool) {
	for i, f := range p.fields {
		if !f.IsWildcard() && f.Text == "" {
			return i, true
		}
	}
	return -1, false
}

// parsePattern splits text on the pattern separator and records the wildcard statistics in a single pass.
func parsePattern(text, wildcard string) *Pattern {
	p := &Pattern{
		text:   text,
		fields: make([]Field, 0, strings.Count(text, patternSep)+1),
		score:  -1,
	}

	pos := 0
	for tok := range iterutil.SplitStringSeq(text, patternSep) {
		if tok == wildcard {
			p.fields = append(p.fields, Field{Text: tok, Kind: WildcardField})
			p.wildcards++
			if p.score < 0 {
				p.score = pos
			}
		} else {
			p.fields = append(p.fields, Field{Text: tok, Kind: LiteralField})
		}
		pos++
	}

	return p
}
