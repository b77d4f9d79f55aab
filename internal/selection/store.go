package selection

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Store persists the last-selected grid between runs as a small JSON
// key-value file. Absence of the file is not an error; the bridge simply
// starts with no remembered grid.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

const lastGridKey = "lastSelectedGrid"

// NewStore loads the store at path, creating state lazily on first write.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, values: map[string]string{}}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	if s.path == "" {
		return errors.New("selection store path required")
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, &s.values)
}

// LastGridID returns the grid remembered from the previous run, if any.
func (s *Store) LastGridID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[lastGridKey]
}

// SetLastGridID records the grid and writes the file through.
func (s *Store) SetLastGridID(gridID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values[lastGridKey] == gridID {
		return nil
	}
	s.values[lastGridKey] = gridID
	payload, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, payload, 0o644)
}
