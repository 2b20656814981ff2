package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ErrPersistence wraps failures to write the state file. These are surfaced
// loudly by the CLI: they risk losing a mutation the user believes happened.
var ErrPersistence = errors.New("cannot persist desktop state")

// Store reads and writes the persisted desktop state. Saves are atomic
// (write a sibling temp file, then rename), so a reader never observes a
// half-written file.
type Store struct {
	path            string
	defaultDesktops int
}

// DefaultPath returns the standard state file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "vdesk", "state.json"), nil
}

// NewStore creates a store over the given file. defaultDesktops is the
// desktop count used when no usable state file exists.
func NewStore(path string, defaultDesktops int) *Store {
	if defaultDesktops < 1 {
		defaultDesktops = 1
	}
	return &Store{path: path, defaultDesktops: defaultDesktops}
}

// Path returns the state file location.
func (st *Store) Path() string {
	return st.path
}

// Load reads the state file. A missing or unparseable file yields the
// default state, never an error: the tool must stay usable on a fresh
// install and after file corruption.
func (st *Store) Load() *State {
	data, err := os.ReadFile(st.path)
	if err != nil {
		return New(st.defaultDesktops)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return New(st.defaultDesktops)
	}
	s.normalize(st.defaultDesktops)
	return &s
}

// Save writes the state atomically, creating the containing directory if
// needed.
func (st *Store) Save(s *State) error {
	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrPersistence, dir, err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersistence, err)
	}

	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, tmp, err)
	}
	if err := os.Rename(tmp, st.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: rename %s: %v", ErrPersistence, st.path, err)
	}
	return nil
}

// WithLock runs fn while holding an exclusive advisory lock scoped to this
// state file. Two overlapping invocations would otherwise each load the old
// state and the second save would silently discard the first mutation; the
// flock serializes the whole load-mutate-save sequence.
func (st *Store) WithLock(fn func() error) error {
	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrPersistence, dir, err)
	}

	f, err := os.OpenFile(st.path+".lock", os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("%w: open lock file: %v", ErrPersistence, err)
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return fmt.Errorf("%w: acquire lock: %v", ErrPersistence, err)
	}
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)

	return fn()
}
