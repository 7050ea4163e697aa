// Package clipboard places secrets in the OS clipboard and guarantees
// their erasure after a fixed exposure window, even though the command
// that exposed them exits long before the window elapses.
package clipboard

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/atotto/clipboard"
)

// ClearCommand is the internal argv marker the binary re-executes itself
// with to run the detached clear timer. It is not a user-facing command.
const ClearCommand = "__clear-clipboard"

// ErrDetachFailure is returned when the detached clear timer could not be
// started. It is fatal: leaving a secret in the clipboard without a
// scheduled erasure is a security regression.
var ErrDetachFailure = errors.New("failed to detach clipboard clear timer")

// Writer abstracts clipboard writes so tests can observe them.
type Writer interface {
	Write(text string) error
}

// SystemWriter writes to the real OS clipboard.
type SystemWriter struct{}

func (SystemWriter) Write(text string) error {
	return clipboard.WriteAll(text)
}

// Guard copies a secret to the clipboard and schedules its mandatory
// erasure after the exposure window.
//
// Timers carry no cancellation and no ordering guarantee relative to later
// invocations: a fast successive get inside the window will have its own
// clipboard content clobbered when the earlier timer fires.
type Guard struct {
	clip Writer
	ttl  time.Duration
	sync bool
}

// Option customizes a Guard.
type Option func(*Guard)

// WithWriter replaces the clipboard writer.
func WithWriter(w Writer) Option {
	return func(g *Guard) { g.clip = w }
}

// Synchronous makes Expose run the clear timer in-process instead of
// detaching, so tests and non-interactive harnesses can assert on it.
func Synchronous() Option {
	return func(g *Guard) { g.sync = true }
}

// NewGuard builds a Guard with the given exposure window.
func NewGuard(ttl time.Duration, opts ...Option) *Guard {
	g := &Guard{clip: SystemWriter{}, ttl: ttl}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TTL returns the exposure window.
func (g *Guard) TTL() time.Duration { return g.ttl }

// Expose copies secret to the clipboard and schedules the erasure. In the
// default detached mode the binary re-executes itself in a new session
// with no controlling terminal and stdio on the null device; the invoking
// process is free to exit immediately, the shell regains control and no
// zombie is left behind. The timer process only ever writes the empty
// string, so the secret itself never crosses the process boundary.
func (g *Guard) Expose(secret string) error {
	if err := g.clip.Write(secret); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	if g.sync {
		return g.RunClearTimer()
	}
	return g.detach()
}

// RunClearTimer sleeps out the exposure window and overwrites the
// clipboard with the empty value. This is what the detached process runs.
func (g *Guard) RunClearTimer() error {
	time.Sleep(g.ttl)
	return g.clip.Write("")
}

func (g *Guard) detach() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDetachFailure, err)
	}
	cmd := exec.Command(exe, ClearCommand, g.ttl.String())
	// no stdio: the timer must not hold the caller's terminal open
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = detachAttrs()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrDetachFailure, err)
	}
	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("%w: %v", ErrDetachFailure, err)
	}
	return nil
}
