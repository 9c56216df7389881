package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/tigerwill90/bestmatch"
)

const (
	matchCommand = "match"
	checkCommand = "check"
)

// Exit codes returned by Run.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Run is the entry point of the command line. It returns the process exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if !hasCommand(args) {
		args = append([]string{matchCommand}, args...)
	}

	opts := &Options{env: &env{ctx: ctx, stdin: stdin, stdout: stdout, stderr: stderr}}
	opts.Init(commandName(args))

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "bestmatch"
	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) {
			if ferr.Type == flags.ErrHelp {
				fmt.Fprintln(stdout, ferr.Message)
				return ExitOK
			}
			fmt.Fprintln(stderr, ferr.Message)
			return ExitUsage
		}
		fmt.Fprintf(stderr, "bestmatch: %s\n", err)
		if errors.Is(err, bestmatch.ErrInvalidConfig) {
			return ExitUsage
		}
		return ExitFailure
	}
	return ExitOK
}

// valueOptions are the options taking a separate value argument.
var valueOptions = map[string]struct{}{
	"-f": {}, "--config": {},
	"-i": {}, "--input": {},
	"-o": {}, "--output": {},
	"-w": {}, "--wildcard": {},
}

// hasCommand reports whether args name a sub-command before any positional argument.
func hasCommand(args []string) bool {
	return commandName(args) != ""
}

func commandName(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case isValueOption(a):
			i++
		case a == "--":
			return ""
		case strings.HasPrefix(a, "-"):
		default:
			if a == matchCommand || a == checkCommand {
				return a
			}
			return ""
		}
	}
	return ""
}

func isValueOption(a string) bool {
	_, ok := valueOptions[a]
	return ok
}
