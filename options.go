// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/bestmatch/blob/master/LICENSE.txt.

package bestmatch

import (
	"fmt"
	"log/slog"

	"github.com/tigerwill90/bestmatch/internal/stringutil"
)

// DefaultWildcard is the token matching any single path field.
const DefaultWildcard = "*"

// Option configures an [Index] at construction time.
type Option interface {
	apply(*Index) error
}

type optionFunc func(*Index) error

func (o optionFunc) apply(idx *Index) error {
	return o(idx)
}

// WithWildcard sets the token that denotes a wildcard field in patterns. The token must be a single
// character and cannot be one of the pattern or path separators. By default, [DefaultWildcard] is used.
func WithWildcard(token string) Option {
	return optionFunc(func(idx *Index) error {
		if !stringutil.IsSingleChar(token) {
			return fmt.Errorf("%w: wildcard %q must be a single character", ErrInvalidConfig, token)
		}
		if token == patternSep || token == pathSep {
			return fmt.Errorf("%w: wildcard %q cannot be a separator", ErrInvalidConfig, token)
		}
		idx.wildcard = token
		return nil
	})
}

// WithStrictFields rejects patterns with an empty field (e.g. "a,,b") with an [ErrEmptyField] error, and makes
// paths with an empty field (e.g. "a//b") never match. When disabled (the default), empty fields are ordinary
// literals that only match empty path fields.
func WithStrictFields(enable bool) Option {
	return optionFunc(func(idx *Index) error {
		idx.strict = enable
		return nil
	})
}

// WithLogger sets the handler used to log pattern registrations and lookups. Everything is logged at the
// debug level. By default, nothing is logged.
func WithLogger(handler slog.Handler) Option {
	return optionFunc(func(idx *Index) error {
		if handler == nil {
			return fmt.Errorf("%w: log handler cannot be nil", ErrInvalidConfig)
		}
		idx.logger = slog.New(handler)
		return nil
	})
}
