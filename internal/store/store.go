// Package store implements the directory-backed entry store: a root
// location holding a key-id marker and one subdirectory per group, each
// entry persisted as a single armored ciphertext file.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mdeous/passtis/internal/gpg"
)

// keyIDFile is the identity marker; its presence is what makes a
// directory a store.
const keyIDFile = ".key-id"

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// Store is an opened password store rooted at a directory.
type Store struct {
	dir    string
	keyID  string
	engine gpg.Engine
	log    *zap.SugaredLogger
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger attaches a logger; mutations are logged at debug.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Store) { s.log = log }
}

// Init creates a new store at dir, protected by the identity keyID. The
// identity must be known to the engine and ultimately trusted; validation
// happens before any filesystem state is created, so a failed init leaves
// nothing behind. Fails with ErrAlreadyExists if dir exists.
func Init(ctx context.Context, dir, keyID string, engine gpg.Engine, opts ...Option) (*Store, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("%w: directory %s", ErrAlreadyExists, dir)
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	if _, err := gpg.Validate(ctx, engine, keyID); err != nil {
		return nil, err
	}
	if err := os.Mkdir(dir, dirPerm); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, keyIDFile), []byte(keyID), filePerm); err != nil {
		return nil, err
	}
	return newStore(dir, keyID, engine, opts), nil
}

// Open opens an existing store. Fails with ErrNotAStore when dir does not
// exist or carries no key-id marker.
func Open(dir string, engine gpg.Engine, opts ...Option) (*Store, error) {
	raw, err := os.ReadFile(filepath.Join(dir, keyIDFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotAStore, dir)
	}
	keyID := strings.TrimSpace(string(raw))
	if keyID == "" {
		return nil, fmt.Errorf("%w: empty key id marker in %s", ErrNotAStore, dir)
	}
	return newStore(dir, keyID, engine, opts), nil
}

func newStore(dir, keyID string, engine gpg.Engine, opts []Option) *Store {
	s := &Store{dir: dir, keyID: keyID, engine: engine, log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// KeyID returns the identity reference the store encrypts to.
func (s *Store) KeyID() string { return s.keyID }

// Add creates a new entry. Fails with ErrAlreadyExists if (group, name) is
// taken; the group directory is created lazily on first use.
func (s *Store) Add(ctx context.Context, group, name string, payload Payload) error {
	path, err := s.entryPath(group, name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: entry %s/%s", ErrAlreadyExists, group, name)
	} else if !os.IsNotExist(err) {
		return err
	}
	groupDir := filepath.Dir(path)
	if err := os.MkdirAll(groupDir, dirPerm); err != nil {
		return err
	}
	s.log.Debugw("adding entry", "group", group, "name", name)
	return s.writeEntry(ctx, path, payload)
}

// Get decrypts and returns an entry's payload.
func (s *Store) Get(ctx context.Context, group, name string) (Payload, error) {
	path, err := s.entryPath(group, name)
	if err != nil {
		return Payload{}, err
	}
	ciphertext, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %s/%s", ErrNotFound, group, name)
	}
	plaintext, err := s.engine.Decrypt(ctx, ciphertext)
	if err != nil {
		return Payload{}, err
	}
	return decodePayload(plaintext)
}

// Edit overlays update onto an existing entry and atomically replaces its
// file. Fails with ErrNotFound if the entry does not exist.
func (s *Store) Edit(ctx context.Context, group, name string, update Update) error {
	current, err := s.Get(ctx, group, name)
	if err != nil {
		return err
	}
	path, err := s.entryPath(group, name)
	if err != nil {
		return err
	}
	s.log.Debugw("editing entry", "group", group, "name", name)
	return s.writeEntry(ctx, path, current.merge(update))
}

// Delete removes an entry file. The group directory persists even when it
// becomes empty.
func (s *Store) Delete(group, name string) error {
	path, err := s.entryPath(group, name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, group, name)
	}
	s.log.Debugw("deleting entry", "group", group, "name", name)
	return os.Remove(path)
}

// GroupListing is one group with its entry names, both sorted.
type GroupListing struct {
	Name    string
	Entries []string
}

// List returns all groups and their entries, lexicographically sorted.
// When groups is non-empty only matching groups are returned; the others
// are wholly suppressed.
func (s *Store) List(groups []string) ([]GroupListing, error) {
	wanted := make(map[string]bool, len(groups))
	for _, g := range groups {
		wanted[g] = true
	}
	dirents, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []GroupListing
	for _, d := range dirents {
		if !d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			continue
		}
		if len(wanted) > 0 && !wanted[d.Name()] {
			continue
		}
		entries, err := s.listGroup(d.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, GroupListing{Name: d.Name(), Entries: entries})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) listGroup(group string) ([]string, error) {
	dirents, err := os.ReadDir(filepath.Join(s.dir, group))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, d := range dirents {
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			continue
		}
		names = append(names, d.Name())
	}
	sort.Strings(names)
	return names, nil
}

// writeEntry encrypts the payload and writes it through a uuid-named temp
// file followed by a rename, so a crash mid-write can never leave a
// partial ciphertext under the entry name.
func (s *Store) writeEntry(ctx context.Context, path string, payload Payload) error {
	plaintext, err := encodePayload(payload)
	if err != nil {
		return err
	}
	ciphertext, err := s.engine.Encrypt(ctx, plaintext, s.keyID)
	if err != nil {
		return err
	}
	tmp := filepath.Join(filepath.Dir(path), "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, ciphertext, filePerm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (s *Store) entryPath(group, name string) (string, error) {
	if err := validateName(group); err != nil {
		return "", fmt.Errorf("group: %w", err)
	}
	if err := validateName(name); err != nil {
		return "", fmt.Errorf("entry: %w", err)
	}
	return filepath.Join(s.dir, group, name), nil
}

// validateName rejects names that cannot serve as file names inside the
// store subtree: empty strings, path separators, dot traversal and
// leading dots (reserved for the marker and temp files).
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	}
	for i := 0; i < len(name); i++ {
		if os.IsPathSeparator(name[i]) {
			return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
		}
	}
	return nil
}
