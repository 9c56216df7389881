// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/bestmatch/blob/master/LICENSE.txt.

package bestmatch

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePatterns = []string{
	"*,b,*",
	"a,*,*",
	"*,*,c",
	"foo,bar,baz",
	"w,x,*,*",
	"*,x,y,z",
}

func mustBuildIndex(tb testing.TB, patterns []string, opts ...Option) *Index {
	tb.Helper()
	idx, err := BuildIndex(patterns, opts...)
	require.NoError(tb, err)
	return idx
}

func render(idx *Index, path string) string {
	if text, ok := idx.Match(path); ok {
		return text
	}
	return NoMatch
}

func TestIndex_FindBestMatch(t *testing.T) {
	cases := []struct {
		name     string
		patterns []string
		path     string
		want     string
	}{
		{
			name:     "exact match beats wildcard",
			patterns: []string{"a,*", "a,b"},
			path:     "a/b",
			want:     "a,b",
		},
		{
			name:     "exact match beats wildcard registered after",
			patterns: []string{"a,b", "a,*"},
			path:     "a/b",
			want:     "a,b",
		},
		{
			name:     "rightmost first wildcard wins",
			patterns: []string{"*,b,c", "a,*,c"},
			path:     "a/b/c",
			want:     "a,*,c",
		},
		{
			name:     "fewer wildcards beats rightmost first wildcard",
			patterns: []string{"a,b,*,*", "*,b,c,d"},
			path:     "a/b/c/d",
			want:     "*,b,c,d",
		},
		{
			name:     "no match",
			patterns: []string{"A,B"},
			path:     "C/D",
			want:     NoMatch,
		},
		{
			name:     "case sensitive",
			patterns: []string{"a,*"},
			path:     "A/B",
			want:     NoMatch,
		},
		{
			name:     "field count gating with fewer fields",
			patterns: []string{"x,y,z", "*,*,*"},
			path:     "x/y",
			want:     NoMatch,
		},
		{
			name:     "field count gating with more fields",
			patterns: []string{"x,y,z", "*,*,*"},
			path:     "x/y/z/w",
			want:     NoMatch,
		},
		{
			name:     "all wildcards",
			patterns: []string{"*,*,*"},
			path:     "x/y/z",
			want:     "*,*,*",
		},
		{
			name:     "single field",
			patterns: []string{"*", "foo"},
			path:     "/foo/",
			want:     "foo",
		},
		{
			name:     "single field wildcard",
			patterns: []string{"*", "foo"},
			path:     "bar",
			want:     "*",
		},
		{
			name:     "first registered wins exact tie",
			patterns: []string{"*,b,*", "*,*,c"},
			path:     "x/b/c",
			want:     "*,b,*",
		},
		{
			name:     "first registered wins exact tie reversed",
			patterns: []string{"*,*,c", "*,b,*"},
			path:     "x/b/c",
			want:     "*,*,c",
		},
		{
			name:     "duplicated patterns",
			patterns: []string{"a,*", "a,*"},
			path:     "a/b",
			want:     "a,*",
		},
		{
			name:     "literal asterisk in path",
			patterns: []string{"a,*"},
			path:     "a/*",
			want:     "a,*",
		},
		{
			name:     "no pattern",
			patterns: nil,
			path:     "a/b",
			want:     NoMatch,
		},
		{
			name:     "only one leading and trailing slash is trimmed",
			patterns: []string{"*,a,*"},
			path:     "//a//",
			want:     "*,a,*",
		},
		{
			name:     "empty pattern field only matches empty path field",
			patterns: []string{"a,,b"},
			path:     "a//b",
			want:     "a,,b",
		},
		{
			name:     "empty pattern field does not match non empty path field",
			patterns: []string{"a,,b"},
			path:     "a/x/b",
			want:     NoMatch,
		},
		{
			name:     "wildcard matches empty path field",
			patterns: []string{"a,*,b"},
			path:     "a//b",
			want:     "a,*,b",
		},
		{
			name:     "root path",
			patterns: []string{"*"},
			path:     "/",
			want:     "*",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			idx := mustBuildIndex(t, tc.patterns)
			assert.Equal(t, tc.want, render(idx, tc.path))
		})
	}
}

func TestIndex_SampleInput(t *testing.T) {
	idx := mustBuildIndex(t, samplePatterns)

	cases := []struct {
		path string
		want string
	}{
		{"/w/x/y/z/", "*,x,y,z"},
		{"a/b/c", "a,*,*"},
		{"foo/", NoMatch},
		{"foo/bar/", NoMatch},
		{"foo/bar/baz/", "foo,bar,baz"},
		{"/a/b/c/", "a,*,*"},
		{"w/x/y/q", "w,x,*,*"},
		{"////", NoMatch},
		{"/*foo//baz/", NoMatch},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, render(idx, tc.path))
		})
	}
}

func TestIndex_SlashTrimmingIsEquivalent(t *testing.T) {
	idx := mustBuildIndex(t, samplePatterns)
	for _, path := range []string{"x/y", "a/b/c", "w/x/y/z", "foo/bar/baz", "q"} {
		want, wantOk := idx.FindBestMatch(path)
		for _, variant := range []string{"/" + path, path + "/", "/" + path + "/"} {
			got, ok := idx.FindBestMatch(variant)
			assert.Equal(t, wantOk, ok, variant)
			assert.Same(t, want, got, variant)
		}
	}
}

func TestIndex_FindBestMatchIsIdempotent(t *testing.T) {
	idx := mustBuildIndex(t, samplePatterns)
	first, ok := idx.FindBestMatch("a/b/c")
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		p, ok := idx.FindBestMatch("a/b/c")
		require.True(t, ok)
		assert.Same(t, first, p)
	}
}

func TestIndex_DuplicatedPatternsAreDistinct(t *testing.T) {
	idx := mustBuildIndex(t, []string{"a,*", "a,*"})
	require.Equal(t, 2, idx.Len())

	patterns := slices.Collect(idx.Patterns())
	assert.NotSame(t, patterns[0], patterns[1])
	assert.Equal(t, 0, patterns[0].ID())
	assert.Equal(t, 1, patterns[1].ID())

	p, ok := idx.FindBestMatch("a/b")
	require.True(t, ok)
	assert.Same(t, patterns[0], p)
	assert.Len(t, slices.Collect(idx.Matches("a/b")), 2)
}

func TestIndex_Match(t *testing.T) {
	idx := mustBuildIndex(t, []string{"NO MATCH", "a,b"})

	text, ok := idx.Match("a/b")
	assert.True(t, ok)
	assert.Equal(t, "a,b", text)

	// A registered pattern with the sentinel text is still reported as found.
	text, ok = idx.Match("NO MATCH")
	assert.True(t, ok)
	assert.Equal(t, "NO MATCH", text)

	text, ok = idx.Match("c/d")
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestIndex_Insert(t *testing.T) {
	idx, err := New()
	require.NoError(t, err)

	p, err := idx.Insert("a,*,c")
	require.NoError(t, err)
	assert.Equal(t, 0, p.ID())

	got, ok := idx.FindBestMatch("a/b/c")
	require.True(t, ok)
	assert.Same(t, p, got)

	p2, err := idx.Insert("a,b,c")
	require.NoError(t, err)
	assert.Equal(t, 1, p2.ID())

	got, ok = idx.FindBestMatch("a/b/c")
	require.True(t, ok)
	assert.Same(t, p2, got)
}

func TestIndex_StrictFields(t *testing.T) {
	t.Run("reject pattern with empty field", func(t *testing.T) {
		idx, err := New(WithStrictFields(true))
		require.NoError(t, err)

		_, err = idx.Insert("a,,b")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyField)

		var perr *PatternError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "a,,b", perr.Text)
		assert.Equal(t, 1, perr.Pos)
		assert.Equal(t, 0, idx.Len())
	})

	t.Run("reject empty pattern", func(t *testing.T) {
		_, err := BuildIndex([]string{"a,b", ""}, WithStrictFields(true))
		assert.ErrorIs(t, err, ErrEmptyField)
	})

	t.Run("path with empty field never match", func(t *testing.T) {
		idx := mustBuildIndex(t, []string{"a,*,b", "*"}, WithStrictFields(true))
		assert.Equal(t, NoMatch, render(idx, "a//b"))
		assert.Equal(t, NoMatch, render(idx, "/"))
		assert.Equal(t, NoMatch, render(idx, ""))
		assert.Empty(t, slices.Collect(idx.Matches("a//b")))
		assert.Equal(t, "a,*,b", render(idx, "/a/x/b/"))
	})

	t.Run("disabled", func(t *testing.T) {
		idx := mustBuildIndex(t, []string{"a,*,b", ""}, WithStrictFields(false))
		assert.Equal(t, "a,*,b", render(idx, "a//b"))
		assert.Equal(t, "", render(idx, "/"))
	})
}

func TestIndex_WithWildcard(t *testing.T) {
	idx := mustBuildIndex(t, []string{"a,?", "a,*"}, WithWildcard("?"))

	assert.Equal(t, "a,?", render(idx, "a/b"))
	// With a custom wildcard, "*" is a plain literal.
	assert.Equal(t, "a,*", render(idx, "a/*"))

	p, ok := idx.FindBestMatch("a/*")
	require.True(t, ok)
	assert.Equal(t, 0, p.WildcardCount())
	assert.Equal(t, -1, p.WildcardScore())
}

// naiveBestMatch scans every pattern for every path, with the same tie-break rules.
func naiveBestMatch(patterns []string, path string) (string, bool) {
	fields := strings.Split(strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/"), "/")

	best := -1
	bestWildcards, bestScore := 0, 0
	for i, pattern := range patterns {
		pfields := strings.Split(pattern, ",")
		if len(pfields) != len(fields) {
			continue
		}
		wildcards, score := 0, -1
		matched := true
		for pos, f := range pfields {
			if f == "*" {
				wildcards++
				if score < 0 {
					score = pos
				}
				continue
			}
			if f != fields[pos] {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		if best < 0 || wildcards < bestWildcards || (wildcards == bestWildcards && score > bestScore) {
			best, bestWildcards, bestScore = i, wildcards, score
		}
	}
	if best < 0 {
		return "", false
	}
	return patterns[best], true
}

func TestFuzzIndexMatchesNaiveScan(t *testing.T) {
	alphabet := []string{"a", "b", "*"}
	f := fuzz.New().NilChance(0).NumElements(1, 4).Funcs(func(s *string, c fuzz.Continue) {
		*s = alphabet[c.Intn(len(alphabet))]
	})

	for i := 0; i < 200; i++ {
		var set [][]string
		f.Fuzz(&set)
		patterns := make([]string, 0, len(set))
		for _, fields := range set {
			patterns = append(patterns, strings.Join(fields, ","))
		}

		idx := mustBuildIndex(t, patterns)

		for j := 0; j < 20; j++ {
			var fields []string
			f.Fuzz(&fields)
			path := strings.Join(fields, "/")
			if j%2 == 0 {
				path = "/" + path + "/"
			}

			want, wantOk := naiveBestMatch(patterns, path)
			got, ok := idx.Match(path)
			require.Equalf(t, wantOk, ok, "patterns: %v, path: %s", patterns, path)
			require.Equalf(t, want, got, "patterns: %v, path: %s", patterns, path)
		}
	}
}

func TestFuzzInsertLookupNoPanics(t *testing.T) {
	unicodeRanges := fuzz.UnicodeRanges{
		{First: 0x20, Last: 0x7E},
		{First: 0x00A0, Last: 0x04FF},
	}
	f := fuzz.New().NilChance(0).NumElements(500, 1000).Funcs(unicodeRanges.CustomStringFuzzFunc())

	patterns := make(map[string]struct{})
	f.Fuzz(&patterns)

	idx, err := New()
	require.NoError(t, err)
	for pattern := range patterns {
		require.NotPanicsf(t, func() {
			_, _ = idx.Insert(pattern)
		}, fmt.Sprintf("pattern: %s", pattern))
	}

	paths := make([]string, 0)
	f.Fuzz(&paths)
	for _, path := range paths {
		require.NotPanicsf(t, func() {
			_, _ = idx.FindBestMatch(path)
		}, fmt.Sprintf("path: %s", path))
	}
}

func TestIndex_ConcurrentLookups(t *testing.T) {
	idx := mustBuildIndex(t, samplePatterns)

	paths := []string{"/w/x/y/z/", "a/b/c", "foo/", "foo/bar/baz/", "w/x/y/q", "////"}
	want := make([]string, len(paths))
	for i, path := range paths {
		want[i] = render(idx, path)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 8*len(paths))
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				for i, path := range paths {
					if got := render(idx, path); got != want[i] {
						errs <- fmt.Sprintf("path %s: got %s, want %s", path, got, want[i])
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
