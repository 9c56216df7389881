// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/bestmatch/blob/master/LICENSE.txt.

package bestmatch

import (
	"context"
	"log/slog"
	"time"
)

func (idx *Index) debugEnabled() bool {
	return idx.logger.Enabled(context.Background(), slog.LevelDebug)
}

func (idx *Index) logInsert(p *Pattern) {
	if !idx.debugEnabled() {
		return
	}
	idx.logger.LogAttrs(
		context.Background(),
		slog.LevelDebug,
		"pattern registered",
		slog.String("pattern", p.text),
		slog.Int("id", p.id),
		slog.Int("fields", len(p.fields)),
		slog.Int("wildcards", p.wildcards),
		slog.Int("score", p.score),
	)
}

func (idx *Index) logLookup(path string, best *Pattern, candidates int, latency time.Duration) {
	result := NoMatch
	if best != nil {
		result = best.text
	}
	idx.logger.LogAttrs(
		context.Background(),
		slog.LevelDebug,
		"lookup",
		slog.String("path", path),
		slog.String("pattern", result),
		slog.Int("candidates", candidates),
		slog.Duration("latency", roundLatency(latency)),
	)
}

func roundLatency(d time.Duration) time.Duration {
	switch {
	case d < 1*time.Microsecond:
		return d.Round(100 * time.Nanosecond)
	case d < 1*time.Millisecond:
		return d.Round(10 * time.Microsecond)
	case d < 10*time.Millisecond:
		return d.Round(100 * time.Microsecond)
	case d < 100*time.Millisecond:
		return d.Round(1 * time.Millisecond)
	case d < 1*time.Second:
		return d.Round(10 * time.Millisecond)
	case d < 10*time.Second:
		return d.Round(100 * time.Millisecond)
	default:
		return d.Round(1 * time.Second)
	}
}
