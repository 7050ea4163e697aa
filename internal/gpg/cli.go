package gpg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// defaultBinary is the gpg executable looked up on PATH.
const defaultBinary = "gpg"

// CLI is an Engine backed by the system gpg binary, which owns all key
// material and passphrase handling (pinentry).
type CLI struct {
	binary string
	log    *zap.SugaredLogger
}

// CLIOption customizes a CLI engine.
type CLIOption func(*CLI)

// WithBinary overrides the gpg executable path.
func WithBinary(path string) CLIOption {
	return func(c *CLI) { c.binary = path }
}

// WithLogger attaches a logger; engine invocations are logged at debug.
func WithLogger(log *zap.SugaredLogger) CLIOption {
	return func(c *CLI) { c.log = log }
}

// NewCLI builds a gpg-binary-backed engine.
func NewCLI(opts ...CLIOption) *CLI {
	c := &CLI{binary: defaultBinary, log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Engine = (*CLI)(nil)

// ListIdentities lists public keys in machine-readable colon format and
// extracts fingerprint and owner trust for each primary key.
func (c *CLI) ListIdentities(ctx context.Context) ([]Identity, error) {
	out, stderr, err := c.run(ctx, nil, "--with-colons", "--fixed-list-mode", "--list-keys")
	if err != nil {
		return nil, fmt.Errorf("listing keys: %v: %s", err, firstLine(stderr))
	}
	return parseColonKeys(out), nil
}

// Encrypt encrypts plaintext for recipient and returns armored ciphertext.
func (c *CLI) Encrypt(ctx context.Context, plaintext []byte, recipient string) ([]byte, error) {
	out, stderr, err := c.run(ctx, plaintext,
		"--batch", "--yes", "--armor", "--encrypt", "--recipient", recipient)
	if err != nil {
		return nil, fmt.Errorf("%w: recipient %s: %s", ErrEncryption, recipient, firstLine(stderr))
	}
	return out, nil
}

// Decrypt opens an armored ciphertext with the local secret key.
func (c *CLI) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	out, stderr, err := c.run(ctx, ciphertext, "--batch", "--quiet", "--decrypt")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecryption, firstLine(stderr))
	}
	return out, nil
}

func (c *CLI) run(ctx context.Context, stdin []byte, args ...string) ([]byte, []byte, error) {
	c.log.Debugw("running gpg", "binary", c.binary, "args", args)
	cmd := exec.CommandContext(ctx, c.binary, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		c.log.Debugw("gpg failed", "args", args, "err", err, "stderr", stderr.String())
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

// parseColonKeys walks gpg --with-colons output. Each pub record carries
// the owner trust in field 2; the fingerprint arrives on the next fpr
// record (field 10). fpr records that follow sub records are subkey
// fingerprints and are skipped.
func parseColonKeys(out []byte) []Identity {
	var (
		ids     []Identity
		pending *Identity
	)
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Split(line, ":")
		switch fields[0] {
		case "pub":
			trust := ""
			if len(fields) > 1 {
				trust = fields[1]
			}
			pending = &Identity{Trust: trust}
		case "fpr":
			if pending != nil && len(fields) > 9 {
				pending.Fingerprint = fields[9]
				ids = append(ids, *pending)
				pending = nil
			}
		case "sub":
			pending = nil
		}
	}
	return ids
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
