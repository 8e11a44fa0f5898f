// Package prefs provides durable key/value storage for visitor preferences.
// Callers use the Bool, Int and Put helpers, which never fail: an unavailable
// store reads as the fallback and drops writes.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrUnavailable is returned by stores that cannot be used.
var ErrUnavailable = errors.New("preference storage unavailable")

// Store is a string key/value preference store.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// MemoryStore keeps preferences for the process lifetime.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// FileStore keeps preferences in a YAML map file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by path. The file is created on first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) read() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return values, nil
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// String returns the stored value, or fallback when unset or unreadable.
func String(s Store, key, fallback string) string {
	if s == nil {
		return fallback
	}
	v, ok, err := s.Get(key)
	if err != nil || !ok {
		return fallback
	}
	return v
}

// Bool reads a "true"/"false" value. Anything other than "true" is false.
func Bool(s Store, key string, fallback bool) bool {
	if s == nil {
		return fallback
	}
	v, ok, err := s.Get(key)
	if err != nil || !ok {
		return fallback
	}
	return v == "true"
}

// Int reads an integer value. Zero and unparseable values read as fallback.
func Int(s Store, key string, fallback int) int {
	n, err := strconv.Atoi(String(s, key, ""))
	if err != nil || n == 0 {
		return fallback
	}
	return n
}

// Put writes a value and discards any error.
func Put(s Store, key, value string) {
	if s == nil {
		return
	}
	_ = s.Set(key, value)
}

// PutBool writes "true" or "false".
func PutBool(s Store, key string, value bool) {
	Put(s, key, strconv.FormatBool(value))
}
