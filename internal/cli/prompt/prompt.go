// Package prompt reads secrets interactively from the terminal.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrConfirmationMismatch signals that the two entries of a double-entry
// prompt disagree. Confirmed consumes it by re-prompting; it never
// escapes as a fatal error.
var ErrConfirmationMismatch = errors.New("passwords don't match")

// PasswordFunc reads one secret after showing label. Injected as a
// capability so commands can be tested without a terminal.
type PasswordFunc func(label string) (string, error)

// Terminal returns a PasswordFunc reading from the process's stdin with
// echo disabled. Labels go to stderr so piped stdout stays clean.
func Terminal() PasswordFunc {
	return func(label string) (string, error) {
		fmt.Fprint(os.Stderr, label)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(raw), nil
	}
}

// Confirmed runs the double-entry loop: prompt twice, retry until both
// reads agree. There is deliberately no retry cap.
func Confirmed(read PasswordFunc, out io.Writer) (string, error) {
	for {
		first, err := read("Password: ")
		if err != nil {
			return "", err
		}
		second, err := read("Confirm password: ")
		if err != nil {
			return "", err
		}
		if first == second {
			return first, nil
		}
		fmt.Fprintf(out, "%v!\n", ErrConfirmationMismatch)
	}
}
