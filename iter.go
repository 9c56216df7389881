package bestmatch

import "iter"

// Patterns returns an iterator over all registered patterns, in registration order.
func (idx *Index) Patterns() iter.Seq[*Pattern] {
	return func(yield func(*Pattern) bool) {
		for _, p := range idx.patterns {
			if !yield(p) {
				return
			}
		}
	}
}

// Matches returns an iterator over every pattern matching path, not only the best one. Patterns are yielded
// in the order used to break ties: among patterns with the same wildcard count and score, the first yielded
// is the one returned by [Index.FindBestMatch].
func (idx *Index) Matches(path string) iter.Seq[*Pattern] {
	return func(yield func(*Pattern) bool) {
		fields, ok := idx.splitPath(path)
		if !ok {
			return
		}
		for _, p := range idx.fullMatches(fields) {
			if !yield(p) {
				return
			}
		}
	}
}
