// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/bestmatch/blob/master/LICENSE.txt.

package bestmatch

import (
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/tigerwill90/bestmatch/internal/iterutil"
	"github.com/tigerwill90/bestmatch/internal/stringutil"
)

// NoMatch is the text rendered when no registered pattern matches a path.
const NoMatch = "NO MATCH"

// Index selects, for a slash separated path, the best matching pattern among a set of comma separated
// patterns. A pattern matches a path when both have the same number of fields and every pattern field is
// either a wildcard or equal to the path field at the same position (case-sensitive).
//
// When several patterns match, the winner is the one with the fewest wildcards, then the one whose leftmost
// wildcard is the furthest to the right, then the one registered first.
//
// Patterns are indexed by field value, position and field count, so a lookup costs one map access per path
// field and position instead of a full scan of the registered patterns.
//
// An Index is built once and then queried. Lookups never write to the Index and are safe for concurrent
// use once every call to [Index.Insert] has returned. Insert must not run concurrently with any other method.
type Index struct {
	// map from a field value, position and field count to all registered patterns
	// with that value in that position. For example, the key {"b", 1, 3} would hold
	// the patterns "a,b,c" and "*,b,*" but not "a,b", "b,a,c" or "a,*,c".
	buckets  map[indexKey][]*Pattern
	patterns []*Pattern
	logger   *slog.Logger
	wildcard string
	strict   bool
}

type indexKey struct {
	s     string // literal, or empty for wildcard
	pos   int    // 0-based field position
	count int    // field count of the pattern
	wild  bool
}

// New returns a new empty Index configured with the provided options.
func New(opts ...Option) (*Index, error) {
	idx := &Index{
		buckets:  make(map[indexKey][]*Pattern),
		logger:   slog.New(slog.DiscardHandler),
		wildcard: DefaultWildcard,
	}
	for _, opt := range opts {
		if err := opt.apply(idx); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// BuildIndex returns a new Index with patterns registered in order.
func BuildIndex(patterns []string, opts ...Option) (*Index, error) {
	return BuildIndexSeq(iterutil.SeqOf(patterns...), opts...)
}

// BuildIndexSeq returns a new Index with the patterns yielded by seq registered in order.
func BuildIndexSeq(seq iter.Seq[string], opts ...Option) (*Index, error) {
	idx, err := New(opts...)
	if err != nil {
		return nil, err
	}
	for text := range seq {
		if _, err := idx.Insert(text); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Insert parses and registers a pattern after all the previously registered ones. Duplicated patterns are
// registered as distinct entries, and the first one always wins over the next ones. Insert only fails in
// strict mode (see [WithStrictFields]), with a [PatternError].
func (idx *Index) Insert(text string) (*Pattern, error) {
	p := parsePattern(text, idx.wildcard)
	if idx.strict {
		if pos, ok := p.hasEmptyField(); ok {
			return nil, &PatternError{Text: text, Pos: pos, Err: ErrEmptyField}
		}
	}

	p.id = len(idx.patterns)
	idx.patterns = append(idx.patterns, p)

	count := len(p.fields)
	for pos, f := range p.fields {
		key := indexKey{pos: pos, count: count}
		if f.IsWildcard() {
			key.wild = true
		} else {
			key.s = f.Text
		}
		idx.buckets[key] = append(idx.buckets[key], p)
	}

	idx.logInsert(p)
	return p, nil
}

// FindBestMatch returns the best matching pattern for path. Exactly one leading and one trailing slash are
// ignored, so "x/y" and "/x/y/" are equivalent. If no pattern matches, FindBestMatch returns false.
func (idx *Index) FindBestMatch(path string) (*Pattern, bool) {
	debug := idx.debugEnabled()
	var start time.Time
	if debug {
		start = time.Now()
	}

	var matches []*Pattern
	if fields, ok := idx.splitPath(path); ok {
		matches = idx.fullMatches(fields)
	}
	best := selectBest(matches)

	if debug {
		idx.logLookup(path, best, len(matches), time.Since(start))
	}
	return best, best != nil
}

// Match returns the text of the best matching pattern for path. If no pattern matches, Match returns an
// empty string and false. See [Index.FindBestMatch].
func (idx *Index) Match(path string) (string, bool) {
	if p, ok := idx.FindBestMatch(path); ok {
		return p.text, true
	}
	return "", false
}

// Len returns the number of registered patterns.
func (idx *Index) Len() int {
	return len(idx.patterns)
}

func (idx *Index) splitPath(path string) ([]string, bool) {
	fields := slices.Collect(iterutil.SplitStringSeq(stringutil.TrimOne(path, pathSep[0]), pathSep))
	if idx.strict && stringutil.HasEmpty(fields) {
		return nil, false
	}
	return fields, true
}

// fullMatches returns the patterns matching every field of the path, in the order they were first encountered
// while walking the positions from left to right, the literal bucket before the wildcard bucket. Within a
// bucket, patterns are in registration order.
func (idx *Index) fullMatches(fields []string) []*Pattern {
	count := len(fields)
	counts := make(matchCounts)
	var seen []*Pattern

	for pos, field := range fields {
		for _, p := range idx.buckets[indexKey{s: field, pos: pos, count: count}] {
			if counts.inc(p) {
				seen = append(seen, p)
			}
		}
		for _, p := range idx.buckets[indexKey{pos: pos, count: count, wild: true}] {
			if counts.inc(p) {
				seen = append(seen, p)
			}
		}
	}

	matches := seen[:0]
	for _, p := range seen {
		if counts.get(p) == count {
			matches = append(matches, p)
		}
	}
	return matches
}

// selectBest picks the winner among full matches. The current best is only replaced on a strict improvement,
// so on an exact tie the first encountered pattern wins.
func selectBest(matches []*Pattern) *Pattern {
	var best *Pattern
	for _, p := range matches {
		if best == nil ||
			p.wildcards < best.wildcards ||
			(p.wildcards == best.wildcards && p.score > best.score) {
			best = p
		}
	}
	return best
}

// matchCounts records, per pattern identity, the number of positions at which it matched the current path.
// It is scoped to a single lookup.
type matchCounts map[int]int

func (m matchCounts) get(p *Pattern) int {
	return m[p.id]
}

// inc increments the counter of p and reports whether it is the first time p is seen.
func (m matchCounts) inc(p *Pattern) bool {
	n := m[p.id]
	m[p.id] = n + 1
	return n == 0
}
