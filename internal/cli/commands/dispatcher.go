package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mdeous/passtis/internal/config"
	"github.com/mdeous/passtis/internal/store"
)

// Exit codes, sysexits-flavored: callers can tell "nothing there" from
// "already there" from plain failure.
const (
	ExitOK            = 0
	ExitFailure       = 1 // generic or validation failure
	ExitUsage         = 2
	ExitNotFound      = 66 // EX_NOINPUT: no store or no such entry
	ExitAlreadyExists = 73 // EX_CANTCREAT: store or entry already exists
)

// Dispatch is the single entry point to execute CLI commands.
// It prints help and usage messages and returns a process exit code.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	name := strings.ToLower(args[0])
	if name == "help" { // passtis help [command]
		if len(args) == 1 {
			fmt.Fprint(Out, FormatGlobalUsage())
			return ExitOK
		}
		if c, ok := Get(args[1]); ok {
			fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
			return ExitOK
		}
		fmt.Fprintf(Out, "Unknown command: %s\n\n", args[1])
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	c, ok := Get(name)
	if !ok {
		fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	err := c.Run(ctx, cfg, args[1:])
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, ErrUsage) {
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return ExitUsage
	}
	fmt.Fprintf(Out, "%s\n", err)
	return exitCode(err)
}

// exitCode classifies an operation error into the three-way policy.
func exitCode(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrNotAStore):
		return ExitNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return ExitAlreadyExists
	default:
		return ExitFailure
	}
}
