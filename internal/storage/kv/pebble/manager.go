package pebble

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/LeJamon/goAMMd/internal/storage/kv"
)

// Manager opens pebble databases under a common base directory, one
// subdirectory per name.
type Manager struct {
	mu   sync.Mutex
	path string
	dbs  map[string]*pebble.DB
}

func NewManager(path string) *Manager {
	return &Manager{
		path: path,
		dbs:  make(map[string]*pebble.DB),
	}
}

func (m *Manager) OpenDB(name string) (kv.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if db, ok := m.dbs[name]; ok {
		return NewDB(db), nil
	}

	dbPath := filepath.Join(m.path, name+".db")
	db, err := pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble database %q: %w", name, err)
	}

	m.dbs[name] = db
	return NewDB(db), nil
}

func (m *Manager) CloseDB(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, ok := m.dbs[name]
	if !ok {
		return fmt.Errorf("database %q is not open", name)
	}
	delete(m.dbs, name)
	return db.Close()
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for name, db := range m.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close database %q: %w", name, err)
		}
		delete(m.dbs, name)
	}
	return firstErr
}
