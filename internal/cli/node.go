package cli

import (
	"fmt"

	"github.com/LeJamon/goAMMd/internal/config"
	"github.com/LeJamon/goAMMd/internal/state"
	"github.com/LeJamon/goAMMd/internal/storage/kv"
	"github.com/LeJamon/goAMMd/internal/storage/kv/leveldb"
	"github.com/LeJamon/goAMMd/internal/storage/kv/pebble"
)

// stateDBName is the key-value database holding pool ledger records.
const stateDBName = "state"

// openStateStore opens the configured key-value backend and wraps it in
// the pool state store. The returned closer shuts the backend down.
func openStateStore(cfg *config.Config) (*state.Store, func() error, error) {
	var mgr kv.Manager
	switch cfg.Storage.Backend {
	case "pebble":
		mgr = pebble.NewManager(cfg.Storage.Path)
	case "leveldb":
		mgr = leveldb.NewManager(cfg.Storage.Path)
	case "memory":
		mgr = kv.NewMemoryManager()
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	db, err := mgr.OpenDB(stateDBName)
	if err != nil {
		mgr.Close()
		return nil, nil, fmt.Errorf("failed to open state database: %w", err)
	}
	if cfg.Storage.Compression {
		db = kv.NewCompressedDB(db)
	}

	store, err := state.NewStore(db, cfg.Storage.CacheSize)
	if err != nil {
		mgr.Close()
		return nil, nil, err
	}
	return store, mgr.Close, nil
}
