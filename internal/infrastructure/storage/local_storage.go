package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotLocal is returned for locations outside the local store
var ErrNotLocal = errors.New("location is not a local file")

// LocalStorage keeps files in one directory, addressed as <prefix>/<name>
type LocalStorage struct {
	dir    string
	prefix string
}

// NewLocalStorage creates a LocalStorage rooted at dir
func NewLocalStorage(dir, prefix string) *LocalStorage {
	return &LocalStorage{dir: dir, prefix: "/" + strings.Trim(prefix, "/")}
}

// Put writes data to dir/name and returns its location
func (l *LocalStorage) Put(name string, data []byte) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == "/" || base != name {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(l.dir, base), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return l.prefix + "/" + base, nil
}

// Owns reports whether location addresses this store
func (l *LocalStorage) Owns(location string) bool {
	return strings.HasPrefix(location, l.prefix+"/")
}

// Path maps a location to its file, rejecting anything that escapes dir
func (l *LocalStorage) Path(location string) (string, error) {
	if !l.Owns(location) {
		return "", ErrNotLocal
	}
	name := strings.TrimPrefix(location, l.prefix+"/")
	if name == "" || filepath.Base(name) != name || name == ".." {
		return "", ErrNotLocal
	}
	return filepath.Join(l.dir, name), nil
}

// Delete removes the file behind location. A missing file is not an error.
func (l *LocalStorage) Delete(location string) error {
	p, err := l.Path(location)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove report file: %w", err)
	}
	return nil
}
