// Package gpg adapts an external OpenPGP engine behind the narrow
// capability surface the vault needs: identity listing, encrypt to a
// recipient and decrypt with the local secret key. The vault never
// implements cryptography itself.
package gpg

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEncryption is returned when the engine refuses to encrypt, e.g.
	// because the recipient key is unknown.
	ErrEncryption = errors.New("encryption failed")
	// ErrDecryption is returned when the local secret key cannot open a
	// ciphertext (missing key, wrong passphrase, corrupt input).
	ErrDecryption = errors.New("decryption failed")
	// ErrUnknownIdentity is returned when no known key matches a key id.
	ErrUnknownIdentity = errors.New("key is unknown")
	// ErrAmbiguousIdentity is returned when a short key id matches the
	// fingerprint suffix of more than one key.
	ErrAmbiguousIdentity = errors.New("key id matches multiple keys")
	// ErrUntrustedIdentity is returned when a key exists but is not
	// ultimately trusted.
	ErrUntrustedIdentity = errors.New("key is not sufficiently trusted")
)

// TrustUltimate is the engine's maximal manually-assigned trust tier. It is
// the only tier the store accepts: anything below it, even full trust,
// is rejected.
const TrustUltimate = "u"

// Identity is one keypair known to the engine.
type Identity struct {
	Fingerprint string
	Trust       string
}

// Trusted reports whether the identity carries ultimate trust.
func (id Identity) Trusted() bool {
	return id.Trust == TrustUltimate
}

// Engine is the capability interface consumed from the external
// asymmetric-encryption engine.
type Engine interface {
	// ListIdentities returns every keypair known to the engine.
	ListIdentities(ctx context.Context) ([]Identity, error)
	// Encrypt encrypts plaintext for the given recipient fingerprint and
	// returns the armored ciphertext.
	Encrypt(ctx context.Context, plaintext []byte, recipient string) ([]byte, error)
	// Decrypt opens an armored ciphertext with the local secret key.
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// Resolve matches keyID against the trailing characters of each known
// fingerprint, so abbreviated key ids work. A short id that matches more
// than one key fails with ErrAmbiguousIdentity instead of silently taking
// the first hit.
func Resolve(ids []Identity, keyID string) (Identity, error) {
	if keyID == "" {
		return Identity{}, fmt.Errorf("%w: empty key id", ErrUnknownIdentity)
	}
	var matches []Identity
	for _, id := range ids {
		if strings.HasSuffix(id.Fingerprint, keyID) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return Identity{}, fmt.Errorf("%w: %s", ErrUnknownIdentity, keyID)
	case 1:
		return matches[0], nil
	default:
		return Identity{}, fmt.Errorf("%w: %s (%d candidates)", ErrAmbiguousIdentity, keyID, len(matches))
	}
}

// Validate resolves keyID against the engine's key list and checks its
// trust level. Only ultimate trust passes.
func Validate(ctx context.Context, e Engine, keyID string) (Identity, error) {
	ids, err := e.ListIdentities(ctx)
	if err != nil {
		return Identity{}, err
	}
	id, err := Resolve(ids, keyID)
	if err != nil {
		return Identity{}, err
	}
	if !id.Trusted() {
		return Identity{}, fmt.Errorf("%w: %s (trust %q)", ErrUntrustedIdentity, keyID, id.Trust)
	}
	return id, nil
}
