package platform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// kvStore is a single-file JSON key-value store, the shape of browser local
// storage. Reads of a missing file or key return an empty value.
type kvStore struct {
	path string
}

func newKVStore(path string) *kvStore {
	return &kvStore{path: path}
}

func (s *kvStore) Get(key string) (string, error) {
	values, err := s.load()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (s *kvStore) Set(key, value string) error {
	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value

	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal key-value store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write key-value store: %w", err)
	}
	return nil
}

func (s *kvStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key-value store: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse key-value store: %w", err)
	}
	return values, nil
}

// secureStore keeps one 0600 file per credential, standing in for the OS
// secure-storage accessor of a native runtime.
type secureStore struct {
	dir string
}

func newSecureStore(dir string) *secureStore {
	return &secureStore{dir: dir}
}

func (s *secureStore) Get(key string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential %s: %w", key, err)
	}
	return string(data), nil
}

func (s *secureStore) Set(key, value string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create secure store dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, key), []byte(value), 0o600); err != nil {
		return fmt.Errorf("failed to write credential %s: %w", key, err)
	}
	return nil
}
