package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FileStore persists artifacts on the local filesystem. Scope is a directory
// path; name is a file inside it. Directories are created on demand.
type FileStore struct {
	// Perm is the file mode used for new files (default 0o644).
	Perm os.FileMode
}

// NewFileStore returns a FileStore with default permissions.
func NewFileStore() *FileStore { return &FileStore{Perm: 0o644} }

// Save writes data to scope/name, creating scope if needed.
func (f *FileStore) Save(scope, name string, data []byte) error {
	if err := os.MkdirAll(scope, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", scope, err)
	}
	perm := f.Perm
	if perm == 0 {
		perm = 0o644
	}
	return os.WriteFile(filepath.Join(scope, name), data, perm)
}

// Get reads scope/name or returns ErrNotFound.
func (f *FileStore) Get(scope, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(scope, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// List returns the sorted regular file names directly inside scope.
func (f *FileStore) List(scope string) ([]string, error) {
	entries, err := os.ReadDir(scope)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes scope/name or returns ErrNotFound.
func (f *FileStore) Delete(scope, name string) error {
	err := os.Remove(filepath.Join(scope, name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
