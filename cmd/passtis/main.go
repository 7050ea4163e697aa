package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mdeous/passtis/internal/cli/commands"
	"github.com/mdeous/passtis/internal/clipboard"
	"github.com/mdeous/passtis/internal/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Load unified config (env + flags)
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion()
		return
	}

	args := flag.Args()

	// Internal re-exec mode: the detached clipboard clear timer. Handled
	// before dispatch so it never shows up as a user-facing command.
	if len(args) == 2 && args[0] == clipboard.ClearCommand {
		runClearTimer(args[1])
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	exitCode := commands.Dispatch(ctx, cfg, args)
	if exitCode == 0 {
		return
	}
	os.Exit(exitCode)
}

// runClearTimer sleeps out the exposure window and erases the clipboard.
// This process was started detached; nothing observes its output.
func runClearTimer(rawTTL string) {
	ttl, err := time.ParseDuration(rawTTL)
	if err != nil || ttl <= 0 {
		os.Exit(1)
	}
	if err := clipboard.NewGuard(ttl).RunClearTimer(); err != nil {
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("Passtis\nVersion: %s\nBuild date: %s\n", version, buildDate)
}
