// Package prefs is a small scoped key/value store for UI preferences such as the theme.
// Values are JSON encoded and persisted to <dir>/<scope>.prefs.json on every change.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	errMissingDirectory = errors.New("prefs: directory is required")
	errMissingScope     = errors.New("prefs: scope is required")
)

// Store holds one scope's preferences. Operations never return errors: failures are logged and
// reported as false.
type Store struct {
	mu     sync.Mutex
	path   string
	scope  string
	values map[string]json.RawMessage
	logger *zap.Logger
}

// Open loads the scope's file, creating dir if needed. A missing file is an empty scope; an
// unreadable or corrupt one is logged and replaced on the next write.
func Open(dir, scope string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errMissingDirectory
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return nil, errMissingScope
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("prefs: create directory: %w", err)
	}

	store := &Store{
		path:   filepath.Join(dir, scope+".prefs.json"),
		scope:  scope,
		values: make(map[string]json.RawMessage),
		logger: logger,
	}

	data, err := os.ReadFile(store.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		store.warn("open", "read_failed", "", err)
	default:
		if err := json.Unmarshal(data, &store.values); err != nil {
			store.warn("open", "decode_failed", "", err)
			store.values = make(map[string]json.RawMessage)
		}
	}
	return store, nil
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Get decodes the value under key into dest. It reports false when the key is absent or the
// stored value does not decode into dest.
func (s *Store) Get(key string, dest any) bool {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.warn("get", "decode_failed", key, err)
		return false
	}
	return true
}

// GetString is Get for string values.
func (s *Store) GetString(key string) (string, bool) {
	var value string
	ok := s.Get(key, &value)
	return value, ok
}

func (s *Store) Set(key string, value any) bool {
	encoded, err := json.Marshal(value)
	if err != nil {
		s.warn("set", "encode_failed", key, err)
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	previous, existed := s.values[key]
	s.values[key] = encoded
	if err := s.persist(); err != nil {
		if existed {
			s.values[key] = previous
		} else {
			delete(s.values, key)
		}
		s.warn("set", "write_failed", key, err)
		return false
	}
	return true
}

// Remove deletes key. Removing an absent key succeeds.
func (s *Store) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous, existed := s.values[key]
	if !existed {
		return true
	}
	delete(s.values, key)
	if err := s.persist(); err != nil {
		s.values[key] = previous
		s.warn("remove", "write_failed", key, err)
		return false
	}
	return true
}

// Clear removes every key in the scope.
func (s *Store) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.values
	s.values = make(map[string]json.RawMessage)
	if err := s.persist(); err != nil {
		s.values = previous
		s.warn("clear", "write_failed", "", err)
		return false
	}
	return true
}

// Keys lists stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// persist writes the scope through a temp file and rename. Callers hold mu.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	temp, err := os.CreateTemp(filepath.Dir(s.path), "."+s.scope+".prefs-*.tmp")
	if err != nil {
		return err
	}
	tempPath := temp.Name()
	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	return nil
}

func (s *Store) warn(operation, reason, key string, err error) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.String("scope", s.scope),
	}
	if key != "" {
		fields = append(fields, zap.String("key", key))
	}
	fields = append(fields, zap.Error(err))
	s.logger.Warn("preference operation failed", fields...)
}
