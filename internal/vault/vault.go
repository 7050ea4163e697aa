// Package vault composes the store, generator, clipboard guard and
// interactive prompt into the operation-level contracts the CLI consumes.
package vault

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/mdeous/passtis/internal/clipboard"
	"github.com/mdeous/passtis/internal/password"
	"github.com/mdeous/passtis/internal/store"
)

// SecretReader acquires a secret interactively (double-entry confirmed).
type SecretReader func(out io.Writer) (string, error)

// Vault executes store operations with the configured secret-acquisition
// and clipboard-exposure policies.
type Vault struct {
	store      *store.Store
	gen        *password.Generator
	guard      *clipboard.Guard
	readSecret SecretReader
	log        *zap.SugaredLogger
}

// New wires a Vault from its collaborators.
func New(st *store.Store, gen *password.Generator, guard *clipboard.Guard, readSecret SecretReader, log *zap.SugaredLogger) *Vault {
	return &Vault{store: st, gen: gen, guard: guard, readSecret: readSecret, log: log}
}

// Store exposes the underlying store for read-only queries (Dir, List).
func (v *Vault) Store() *store.Store { return v.store }

// ClipboardTTL returns the configured exposure window.
func (v *Vault) ClipboardTTL() string { return v.guard.TTL().String() }

// SecretInput describes how an operation obtains and reveals a secret.
type SecretInput struct {
	Username string
	URI      string
	Comment  string
	// Generate draws the password from the generator instead of prompting.
	Generate bool
	// Echo asks for the password to be printed instead of copied to the
	// clipboard.
	Echo bool
}

// SecretResult reports what happened to the secret of an add/edit/get.
type SecretResult struct {
	// EchoPassword holds the password when the caller asked for plaintext
	// echo; empty otherwise.
	EchoPassword string
	// Copied is true when the secret went through the clipboard guard.
	Copied bool
}

// acquire obtains the operation's password per the input policy. out
// receives mismatch notices from the confirmation loop.
func (v *Vault) acquire(in SecretInput, out io.Writer) (string, error) {
	if in.Generate {
		return v.gen.Generate()
	}
	return v.readSecret(out)
}

// expose applies the clipboard policy for a freshly written secret:
// generated secrets the caller cannot otherwise see are copied to the
// clipboard unless plaintext echo was requested.
func (v *Vault) expose(secret string, in SecretInput) (SecretResult, error) {
	if !in.Generate {
		return SecretResult{}, nil
	}
	if in.Echo {
		return SecretResult{EchoPassword: secret}, nil
	}
	if err := v.guard.Expose(secret); err != nil {
		return SecretResult{}, err
	}
	return SecretResult{Copied: true}, nil
}

// Add creates a new entry, acquiring its password per in.
func (v *Vault) Add(ctx context.Context, group, name string, in SecretInput, out io.Writer) (SecretResult, error) {
	secret, err := v.acquire(in, out)
	if err != nil {
		return SecretResult{}, err
	}
	payload := store.Payload{
		Username: in.Username,
		URI:      in.URI,
		Comment:  in.Comment,
		Password: secret,
	}
	if err := v.store.Add(ctx, group, name, payload); err != nil {
		return SecretResult{}, err
	}
	v.log.Debugw("entry added", "group", group, "name", name, "generated", in.Generate)
	return v.expose(secret, in)
}

// Get decrypts an entry. With echo the password is returned for printing
// and the clipboard stays untouched; otherwise it goes through the guard.
func (v *Vault) Get(ctx context.Context, group, name string, echo bool) (store.Payload, SecretResult, error) {
	payload, err := v.store.Get(ctx, group, name)
	if err != nil {
		return store.Payload{}, SecretResult{}, err
	}
	if echo {
		return payload, SecretResult{EchoPassword: payload.Password}, nil
	}
	if err := v.guard.Expose(payload.Password); err != nil {
		return store.Payload{}, SecretResult{}, err
	}
	return payload, SecretResult{Copied: true}, nil
}

// Edit replaces an entry's password (generated or prompted, always
// replaced) and overlays any non-empty username/uri/comment.
func (v *Vault) Edit(ctx context.Context, group, name string, in SecretInput, out io.Writer) (SecretResult, error) {
	secret, err := v.acquire(in, out)
	if err != nil {
		return SecretResult{}, err
	}
	update := store.Update{
		Username: in.Username,
		URI:      in.URI,
		Comment:  in.Comment,
		Password: secret,
	}
	if err := v.store.Edit(ctx, group, name, update); err != nil {
		return SecretResult{}, err
	}
	v.log.Debugw("entry edited", "group", group, "name", name, "generated", in.Generate)
	return v.expose(secret, in)
}

// Del removes an entry. Confirmation is the caller's concern.
func (v *Vault) Del(group, name string) error {
	if err := v.store.Delete(group, name); err != nil {
		return err
	}
	v.log.Debugw("entry deleted", "group", group, "name", name)
	return nil
}

// List returns the sorted nested listing, optionally filtered to groups.
func (v *Vault) List(groups []string) ([]store.GroupListing, error) {
	return v.store.List(groups)
}
