package vault

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mdeous/passtis/internal/clipboard"
	"github.com/mdeous/passtis/internal/gpg"
	"github.com/mdeous/passtis/internal/password"
	"github.com/mdeous/passtis/internal/store"
)

const testFpr = "AAAA1111BBBB2222CCCC3333DDDD4444EEEE5555"

type fakeEngine struct{}

const armorPrefix = "-----FAKE PGP-----\n"

func (fakeEngine) ListIdentities(context.Context) ([]gpg.Identity, error) {
	return []gpg.Identity{{Fingerprint: testFpr, Trust: gpg.TrustUltimate}}, nil
}

func (fakeEngine) Encrypt(_ context.Context, plaintext []byte, recipient string) ([]byte, error) {
	if !strings.HasSuffix(testFpr, recipient) {
		return nil, gpg.ErrEncryption
	}
	return []byte(armorPrefix + base64.StdEncoding.EncodeToString(plaintext)), nil
}

func (fakeEngine) Decrypt(_ context.Context, ciphertext []byte) ([]byte, error) {
	body, ok := strings.CutPrefix(string(ciphertext), armorPrefix)
	if !ok {
		return nil, gpg.ErrDecryption
	}
	return base64.StdEncoding.DecodeString(body)
}

type fakeClip struct {
	mu     sync.Mutex
	writes []string
}

func (f *fakeClip) Write(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, text)
	return nil
}

func (f *fakeClip) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.writes...)
}

type fixture struct {
	vault *Vault
	clip  *fakeClip
	reads int
}

// newFixture builds a vault over a fresh store with a scripted secret
// reader serving answers in order.
func newFixture(t *testing.T, answers ...string) *fixture {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "store")
	st, err := store.Init(context.Background(), dir, "EEEE5555", fakeEngine{})
	require.NoError(t, err)

	gen, err := password.NewGenerator(password.DefaultPolicy())
	require.NoError(t, err)

	clip := &fakeClip{}
	guard := clipboard.NewGuard(time.Millisecond, clipboard.WithWriter(clip), clipboard.Synchronous())

	f := &fixture{clip: clip}
	readSecret := func(io.Writer) (string, error) {
		require.Less(t, f.reads, len(answers), "secret reader called more times than scripted")
		a := answers[f.reads]
		f.reads++
		return a, nil
	}
	f.vault = New(st, gen, guard, readSecret, zap.NewNop().Sugar())
	return f
}

func TestAdd_PromptedSecretStoredNoClipboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "hunter2")

	res, err := f.vault.Add(ctx, "web", "example", SecretInput{Username: "alice"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Empty(t, res.EchoPassword)
	assert.False(t, res.Copied)
	assert.Empty(t, f.clip.snapshot(), "prompted secrets never touch the clipboard")

	got, _, err := f.vault.Get(ctx, "web", "example", true)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got.Password)
	assert.Equal(t, "alice", got.Username)
}

func TestAdd_GeneratedSecretGoesToClipboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.vault.Add(ctx, "web", "example", SecretInput{Generate: true}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, res.Copied)
	assert.Empty(t, res.EchoPassword)

	got, _, err := f.vault.Get(ctx, "web", "example", true)
	require.NoError(t, err)
	assert.Len(t, got.Password, password.DefaultPolicy().Length())

	// clipboard saw the generated secret, then the clear
	assert.Equal(t, []string{got.Password, ""}, f.clip.snapshot())
}

func TestAdd_GeneratedWithEchoSkipsClipboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.vault.Add(ctx, "web", "example", SecretInput{Generate: true, Echo: true}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, res.Copied)
	assert.NotEmpty(t, res.EchoPassword)
	assert.Empty(t, f.clip.snapshot())

	got, _, err := f.vault.Get(ctx, "web", "example", true)
	require.NoError(t, err)
	assert.Equal(t, res.EchoPassword, got.Password)
}

func TestAdd_DuplicateFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "pw1", "pw2")

	_, err := f.vault.Add(ctx, "web", "example", SecretInput{}, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = f.vault.Add(ctx, "web", "example", SecretInput{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGet_DefaultRoutesThroughGuard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "S3cr3t!")
	_, err := f.vault.Add(ctx, "web", "example", SecretInput{}, &bytes.Buffer{})
	require.NoError(t, err)

	payload, res, err := f.vault.Get(ctx, "web", "example", false)
	require.NoError(t, err)
	assert.True(t, res.Copied)
	assert.Empty(t, res.EchoPassword)
	assert.Equal(t, "S3cr3t!", payload.Password)
	assert.Equal(t, []string{"S3cr3t!", ""}, f.clip.snapshot())
}

func TestGet_EchoSkipsClipboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "S3cr3t!")
	_, err := f.vault.Add(ctx, "web", "example", SecretInput{}, &bytes.Buffer{})
	require.NoError(t, err)

	_, res, err := f.vault.Get(ctx, "web", "example", true)
	require.NoError(t, err)
	assert.False(t, res.Copied)
	assert.Equal(t, "S3cr3t!", res.EchoPassword)
	assert.Empty(t, f.clip.snapshot())
}

func TestGet_Missing(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.vault.Get(context.Background(), "web", "nope", true)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEdit_RegeneratesPasswordKeepsFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "original")
	_, err := f.vault.Add(ctx, "web", "example",
		SecretInput{Username: "alice", URI: "https://example.com", Comment: "work"}, &bytes.Buffer{})
	require.NoError(t, err)

	res, err := f.vault.Edit(ctx, "web", "example", SecretInput{Generate: true, Echo: true}, &bytes.Buffer{})
	require.NoError(t, err)

	got, _, err := f.vault.Get(ctx, "web", "example", true)
	require.NoError(t, err)
	assert.Equal(t, res.EchoPassword, got.Password)
	assert.NotEqual(t, "original", got.Password)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "https://example.com", got.URI)
	assert.Equal(t, "work", got.Comment)
}

func TestEdit_NewUsernameLeavesRest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "pw", "pw2")
	_, err := f.vault.Add(ctx, "web", "example",
		SecretInput{Username: "alice", URI: "https://example.com", Comment: "work"}, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = f.vault.Edit(ctx, "web", "example", SecretInput{Username: "bob"}, &bytes.Buffer{})
	require.NoError(t, err)

	got, _, err := f.vault.Get(ctx, "web", "example", true)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
	assert.Equal(t, "https://example.com", got.URI)
	assert.Equal(t, "work", got.Comment)
	assert.Equal(t, "pw2", got.Password)
}

func TestEdit_MissingEntry(t *testing.T) {
	f := newFixture(t, "pw")
	_, err := f.vault.Edit(context.Background(), "web", "nope", SecretInput{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDel_ThenGetNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "pw")
	_, err := f.vault.Add(ctx, "web", "example", SecretInput{}, &bytes.Buffer{})
	require.NoError(t, err)

	require.NoError(t, f.vault.Del("web", "example"))
	_, _, err = f.vault.Get(ctx, "web", "example", true)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestList_FilterSuppressesOthers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "p1", "p2", "p3")
	for _, g := range []string{"g1", "g2", "g3"} {
		_, err := f.vault.Add(ctx, g, "entry", SecretInput{}, &bytes.Buffer{})
		require.NoError(t, err)
	}

	got, err := f.vault.List([]string{"g1", "g3"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "g1", got[0].Name)
	assert.Equal(t, "g3", got[1].Name)
}
