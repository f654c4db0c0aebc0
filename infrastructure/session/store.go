package session

import (
	"os"
	"path/filepath"
	"strings"

	apperrors "mirror-client/pkg/errors"
)

// Store persists the session identifier under a fixed key. Exactly one
// string value is ever stored; it has no expiry.
type Store interface {
	// Load returns the stored identifier and whether one exists.
	Load() (string, bool)
	// Save persists the identifier, replacing any previous value.
	Save(id string) error
}

// FileStore keeps the identifier in a single file, the local analog of
// an origin-scoped browser storage key.
type FileStore struct {
	path string
}

// NewFileStore creates a store at the given path. An empty path places
// the file under the user config directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, apperrors.NewStorageError("no user config directory").WithCause(err)
		}
		path = filepath.Join(dir, "mirror", "session_id")
	}
	return &FileStore{path: path}, nil
}

// Load implements Store.
func (s *FileStore) Load() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	id := strings.TrimSpace(string(data))
	return id, id != ""
}

// Save implements Store.
func (s *FileStore) Save(id string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperrors.NewStorageError("failed to create session directory").WithCause(err)
	}
	if err := os.WriteFile(s.path, []byte(id+"\n"), 0o600); err != nil {
		return apperrors.NewStorageError("failed to write session file").WithCause(err)
	}
	return nil
}
