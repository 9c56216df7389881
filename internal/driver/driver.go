// Package driver implements the line oriented front end of the matcher. The input is made of a pattern count N,
// N comma separated patterns, a path count M and M slash separated paths, one per line. For each path, in input
// order, the driver writes one line with the best matching pattern, or NO MATCH.
package driver

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/tigerwill90/bestmatch"
	"github.com/tigerwill90/bestmatch/internal/bytesconv"
	"github.com/tigerwill90/bestmatch/internal/iterutil"
)

const (
	maxLineSize = 1 << 20
	allSep      = "|"
)

var (
	ErrMalformedCount = errors.New("malformed count")
	ErrMissingLine    = errors.New("missing line")
)

// Config configures a single Run.
type Config struct {
	// Logger receives the run summary at the info level. If nil, nothing is logged.
	Logger *slog.Logger
	// Options are applied to the index built from the input patterns.
	Options []bestmatch.Option
	// All renders every matching pattern, separated by "|", instead of only the best one.
	All bool
}

// Summary describes a completed Run.
type Summary struct {
	Patterns int
	Paths    int
	Matched  int
	Elapsed  time.Duration
}

// Run reads the patterns and paths from r and writes one result per path to w.
func Run(ctx context.Context, r io.Reader, w io.Writer, cfg Config) (Summary, error) {
	start := time.Now()
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	lr := newLineReader(r)

	n, err := lr.count()
	if err != nil {
		return Summary{}, err
	}

	var readErr error
	patterns := func(yield func(string) bool) {
		for i := 0; i < n; i++ {
			if readErr = ctx.Err(); readErr != nil {
				return
			}
			line, err := lr.next()
			if err != nil {
				readErr = err
				return
			}
			// The index keeps the pattern text, so the scanner buffer must be copied.
			if !yield(string(line)) {
				return
			}
		}
	}

	idx, err := bestmatch.BuildIndexSeq(patterns, cfg.Options...)
	if err != nil {
		if errors.Is(err, bestmatch.ErrInvalidConfig) {
			return Summary{}, err
		}
		return Summary{}, fmt.Errorf("line %d: %w", lr.line, err)
	}
	if readErr != nil {
		return Summary{}, readErr
	}

	summary := Summary{Patterns: idx.Len()}

	m, err := lr.count()
	if err != nil {
		return summary, err
	}

	bw := bufio.NewWriter(w)
	for i := 0; i < m; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		line, err := lr.next()
		if err != nil {
			return summary, err
		}

		// The path never outlives the lookup.
		path := bytesconv.String(line)
		var matched bool
		if cfg.All {
			matched = writeAll(bw, idx, path)
		} else {
			matched = writeBest(bw, idx, path)
		}
		if matched {
			summary.Matched++
		}
		summary.Paths++
	}

	if err := bw.Flush(); err != nil {
		return summary, fmt.Errorf("failed to write result: %w", err)
	}

	summary.Elapsed = time.Since(start)
	logger.LogAttrs(
		ctx,
		slog.LevelInfo,
		"done",
		slog.Int("patterns", summary.Patterns),
		slog.Int("paths", summary.Paths),
		slog.Int("matched", summary.Matched),
		slog.Duration("elapsed", summary.Elapsed),
	)

	return summary, nil
}

func writeBest(bw *bufio.Writer, idx *bestmatch.Index, path string) bool {
	text, ok := idx.Match(path)
	if !ok {
		text = bestmatch.NoMatch
	}
	bw.WriteString(text)
	bw.WriteByte('\n')
	return ok
}

func writeAll(bw *bufio.Writer, idx *bestmatch.Index, path string) bool {
	first := true
	for text := range iterutil.Map(idx.Matches(path), (*bestmatch.Pattern).String) {
		if !first {
			bw.WriteString(allSep)
		}
		bw.WriteString(text)
		first = false
	}
	if first {
		bw.WriteString(bestmatch.NoMatch)
	}
	bw.WriteByte('\n')
	return !first
}

type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &lineReader{sc: sc}
}

// next returns the next line without its line terminator. The returned slice is only valid until the
// following call.
func (lr *lineReader) next() ([]byte, error) {
	if !lr.sc.Scan() {
		if err := lr.sc.Err(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lr.line+1, err)
		}
		return nil, fmt.Errorf("%w: line %d: %w", ErrMissingLine, lr.line+1, io.ErrUnexpectedEOF)
	}
	lr.line++
	return bytes.TrimSuffix(lr.sc.Bytes(), []byte{'\r'}), nil
}

func (lr *lineReader) count() (int, error) {
	line, err := lr.next()
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(string(line))
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: line %d: %q is not a non-negative integer", ErrMalformedCount, lr.line, s)
	}
	return n, nil
}
