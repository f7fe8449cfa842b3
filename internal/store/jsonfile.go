package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// JSONFileBackend stores the ledger as a single JSON document.
type JSONFileBackend struct {
	path string
}

// NewJSONFileBackend returns a backend for path, creating it as an empty
// object if it does not exist.
func NewJSONFileBackend(path string) (*JSONFileBackend, error) {
	b := &JSONFileBackend{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := b.Save(Tallies{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return b, nil
}

// Path returns the absolute location of the ledger file when resolvable.
func (b *JSONFileBackend) Path() string {
	if abs, err := filepath.Abs(b.path); err == nil {
		return abs
	}
	return b.path
}

func (b *JSONFileBackend) Load() (Tallies, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(Tallies), nil
		}
		return nil, fmt.Errorf("read %s: %w", b.path, err)
	}

	tallies := make(Tallies)
	if err := json.Unmarshal(data, &tallies); err != nil {
		return nil, fmt.Errorf("decode %s: %w", b.path, err)
	}
	if tallies == nil {
		tallies = make(Tallies)
	}
	return tallies, nil
}

// Save rewrites the whole file through a temp file and rename so readers
// never observe a partial document.
func (b *JSONFileBackend) Save(t Tallies) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(b.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("rename to %s: %w", b.path, err)
	}
	return nil
}
