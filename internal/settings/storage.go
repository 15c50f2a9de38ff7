package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage is string-keyed, string-valued local persistence. Implementations
// are synchronous; callers treat any error as a StorageError condition.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// StorageError wraps a failed read/write against local storage.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// FileStorage keeps one file per key under a directory, written
// atomically via tmp+rename with 0600 permissions.
type FileStorage struct {
	Dir string
}

// DefaultDir resolves the per-user storage directory.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "canvascan"), nil
}

func (f *FileStorage) path(key string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, key)
	return filepath.Join(f.Dir, name+".json")
}

func (f *FileStorage) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

func (f *FileStorage) Set(key, value string) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return err
	}
	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (f *FileStorage) Remove(key string) error {
	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemStorage is an in-process Storage for tests.
type MemStorage struct {
	Values map[string]string
	// FailWrites simulates quota/disabled storage.
	FailWrites bool
}

func (m *MemStorage) Get(key string) (string, bool, error) {
	v, ok := m.Values[key]
	return v, ok, nil
}

func (m *MemStorage) Set(key, value string) error {
	if m.FailWrites {
		return fmt.Errorf("storage disabled")
	}
	if m.Values == nil {
		m.Values = map[string]string{}
	}
	m.Values[key] = value
	return nil
}

func (m *MemStorage) Remove(key string) error {
	delete(m.Values, key)
	return nil
}
