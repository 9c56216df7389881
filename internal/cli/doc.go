// Package cli implements the bestmatch command line. Each file registers a single sub-command (match, check);
// the plumbing shared between commands, such as configuration loading and logger setup, lives in shared.go.
package cli
