package state

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ugorji/go/codec"

	"github.com/LeJamon/goAMMd/internal/core/dec"
	"github.com/LeJamon/goAMMd/internal/storage/kv"
)

var (
	ErrPoolNotFound     = errors.New("pool not found")
	ErrPositionNotFound = errors.New("liquidity position not found")
)

const defaultPoolCacheSize = 1024

// Store is the sole reader and writer of pool ledger records. A small
// LRU fronts pool reads; every write goes through the cache so cached
// entries never go stale.
type Store struct {
	db     kv.DB
	handle codec.MsgpackHandle
	pools  *lru.Cache[string, Pool]
}

func NewStore(db kv.DB, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = defaultPoolCacheSize
	}
	cache, err := lru.New[string, Pool](cacheSize)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, pools: cache}
	s.handle.Canonical = true
	return s, nil
}

func poolKey(pair string) []byte {
	return []byte("pool/" + pair)
}

func positionKey(pair, account string) []byte {
	return []byte("position/" + pair + "/" + account)
}

func positionPrefix(pair string) string {
	return "position/" + pair + "/"
}

func (s *Store) encode(v interface{}) ([]byte, error) {
	var buf []byte
	if err := codec.NewEncoderBytes(&buf, &s.handle).Encode(v); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *Store) decode(data []byte, v interface{}) error {
	return codec.NewDecoderBytes(data, &s.handle).Decode(v)
}

// GetPool returns a copy of the pool record for pair.
func (s *Store) GetPool(ctx context.Context, pair string) (*Pool, error) {
	if p, ok := s.pools.Get(pair); ok {
		return &p, nil
	}

	data, err := s.db.Read(ctx, poolKey(pair))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, pair)
		}
		return nil, err
	}

	var p Pool
	if err := s.decode(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode pool %s: %w", pair, err)
	}
	migratePool(&p)

	s.pools.Add(pair, p)
	return &p, nil
}

// migratePool upgrades records written before volume tracking existed.
func migratePool(p *Pool) {
	if p.Version == 0 {
		p.BaseVolume = dec.Zero
		p.QuoteVolume = dec.Zero
		p.Version = poolRecordVersion
	}
}

// PoolExists reports whether a pool record exists for pair.
func (s *Store) PoolExists(ctx context.Context, pair string) (bool, error) {
	if _, ok := s.pools.Get(pair); ok {
		return true, nil
	}
	_, err := s.db.Read(ctx, poolKey(pair))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SavePool persists the pool record and refreshes the cache.
func (s *Store) SavePool(ctx context.Context, p *Pool) error {
	p.Version = poolRecordVersion
	data, err := s.encode(p)
	if err != nil {
		return fmt.Errorf("failed to encode pool %s: %w", p.TokenPair, err)
	}
	if err := s.db.Write(ctx, poolKey(p.TokenPair), data); err != nil {
		return err
	}
	s.pools.Add(p.TokenPair, *p)
	return nil
}

// Pools returns every pool record in pair order.
func (s *Store) Pools(ctx context.Context) ([]Pool, error) {
	prefix := []byte("pool/")
	end := append([]byte("pool/"), 0xff)

	it, err := s.db.Iterator(ctx, prefix, end)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []Pool
	for it.Next() {
		var p Pool
		if err := s.decode(it.Value(), &p); err != nil {
			return nil, fmt.Errorf("failed to decode pool %s: %w", it.Key(), err)
		}
		migratePool(&p)
		out = append(out, p)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPosition returns a copy of the account's position in pair.
func (s *Store) GetPosition(ctx context.Context, pair, account string) (*LiquidityPosition, error) {
	data, err := s.db.Read(ctx, positionKey(pair, account))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s in %s", ErrPositionNotFound, account, pair)
		}
		return nil, err
	}

	var lp LiquidityPosition
	if err := s.decode(data, &lp); err != nil {
		return nil, fmt.Errorf("failed to decode position %s/%s: %w", pair, account, err)
	}
	return &lp, nil
}

// SavePosition persists the position record.
func (s *Store) SavePosition(ctx context.Context, lp *LiquidityPosition) error {
	lp.Version = positionRecordVersion
	data, err := s.encode(lp)
	if err != nil {
		return fmt.Errorf("failed to encode position %s/%s: %w", lp.TokenPair, lp.Account, err)
	}
	return s.db.Write(ctx, positionKey(lp.TokenPair, lp.Account), data)
}

// DeletePosition removes the account's position in pair.
func (s *Store) DeletePosition(ctx context.Context, pair, account string) error {
	return s.db.Delete(ctx, positionKey(pair, account))
}

// Positions returns up to limit positions of a pool in account order,
// starting after cursor (an account name returned by a previous page,
// empty for the first page). The returned cursor is empty once the
// final page has been read.
func (s *Store) Positions(ctx context.Context, pair, cursor string, limit int) ([]LiquidityPosition, string, error) {
	if limit <= 0 {
		return nil, "", fmt.Errorf("positions limit must be positive, got %d", limit)
	}

	prefix := positionPrefix(pair)
	start := []byte(prefix)
	if cursor != "" {
		// Resume just past the cursor account.
		start = append([]byte(prefix+cursor), 0x00)
	}
	end := append([]byte(prefix), 0xff)

	it, err := s.db.Iterator(ctx, start, end)
	if err != nil {
		return nil, "", err
	}
	defer it.Close()

	var out []LiquidityPosition
	for len(out) < limit && it.Next() {
		var lp LiquidityPosition
		if err := s.decode(it.Value(), &lp); err != nil {
			return nil, "", fmt.Errorf("failed to decode position %s: %w", it.Key(), err)
		}
		out = append(out, lp)
	}
	if err := it.Error(); err != nil {
		return nil, "", err
	}

	next := ""
	if len(out) == limit && it.Next() {
		next = out[len(out)-1].Account
	}
	return out, next, nil
}
