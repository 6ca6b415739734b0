package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// Store writes and reads history records through database/sql.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the history database and bootstraps the schema.
// Supported drivers are "sqlite" and "postgres".
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var driverName string
	switch driver {
	case "sqlite":
		driverName = "sqlite"
	case "postgres":
		driverName = "postgres"
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDriver, driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if driver == "sqlite" {
		// One connection keeps in-memory databases alive and avoids
		// SQLITE_BUSY on concurrent writers.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return ErrStoreClosed
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) migrate(ctx context.Context) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == "postgres" {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS actions (
			id %s,
			action_ts BIGINT NOT NULL,
			account TEXT NOT NULL,
			name TEXT NOT NULL,
			payload TEXT NOT NULL,
			result TEXT NOT NULL,
			applied BOOLEAN NOT NULL,
			message TEXT NOT NULL DEFAULT ''
		)`, idColumn),
		`CREATE INDEX IF NOT EXISTS idx_actions_account ON actions (account, id)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS fills (
			id %s,
			action_ts BIGINT NOT NULL,
			token_pair TEXT NOT NULL,
			account TEXT NOT NULL,
			symbol_in TEXT NOT NULL,
			amount_in TEXT NOT NULL,
			symbol_out TEXT NOT NULL,
			amount_out TEXT NOT NULL
		)`, idColumn),
		`CREATE INDEX IF NOT EXISTS idx_fills_pair ON fills (token_pair, id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to bootstrap history schema: %w", err)
		}
	}
	return nil
}

// rebind converts ? placeholders to the $n form postgres expects.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RecordAction appends one applied action and its outcome.
func (s *Store) RecordAction(ctx context.Context, rec *ActionRecord) error {
	if s.db == nil {
		return ErrStoreClosed
	}
	query := s.rebind(`INSERT INTO actions (action_ts, account, name, payload, result, applied, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query,
		rec.Timestamp, rec.Account, rec.Name, rec.Payload, rec.Result, rec.Applied, rec.Message); err != nil {
		return fmt.Errorf("failed to record action: %w", err)
	}
	return nil
}

// RecordFill appends one executed swap.
func (s *Store) RecordFill(ctx context.Context, fill *SwapFill) error {
	if s.db == nil {
		return ErrStoreClosed
	}
	query := s.rebind(`INSERT INTO fills (action_ts, token_pair, account, symbol_in, amount_in, symbol_out, amount_out)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query,
		fill.Timestamp, fill.TokenPair, fill.Account, fill.SymbolIn, fill.AmountIn, fill.SymbolOut, fill.AmountOut); err != nil {
		return fmt.Errorf("failed to record fill: %w", err)
	}
	return nil
}

// Actions returns a page of action records, newest first.
func (s *Store) Actions(ctx context.Context, q ActionQuery) ([]ActionRecord, error) {
	if s.db == nil {
		return nil, ErrStoreClosed
	}
	if q.Limit <= 0 {
		return nil, ErrInvalidLimit
	}

	query := `SELECT id, action_ts, account, name, payload, result, applied, message FROM actions`
	args := []interface{}{}
	if q.Account != "" {
		query += ` WHERE account = ?`
		args = append(args, q.Account)
	}
	query += ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer rows.Close()

	var records []ActionRecord
	for rows.Next() {
		var rec ActionRecord
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Account, &rec.Name,
			&rec.Payload, &rec.Result, &rec.Applied, &rec.Message); err != nil {
			return nil, fmt.Errorf("failed to scan action row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Fills returns a page of swap fills, newest first.
func (s *Store) Fills(ctx context.Context, q FillQuery) ([]SwapFill, error) {
	if s.db == nil {
		return nil, ErrStoreClosed
	}
	if q.Limit <= 0 {
		return nil, ErrInvalidLimit
	}

	query := `SELECT id, action_ts, token_pair, account, symbol_in, amount_in, symbol_out, amount_out FROM fills`
	args := []interface{}{}
	if q.TokenPair != "" {
		query += ` WHERE token_pair = ?`
		args = append(args, q.TokenPair)
	}
	query += ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fills: %w", err)
	}
	defer rows.Close()

	var fills []SwapFill
	for rows.Next() {
		var f SwapFill
		if err := rows.Scan(&f.ID, &f.Timestamp, &f.TokenPair, &f.Account,
			&f.SymbolIn, &f.AmountIn, &f.SymbolOut, &f.AmountOut); err != nil {
			return nil, fmt.Errorf("failed to scan fill row: %w", err)
		}
		fills = append(fills, f)
	}
	return fills, rows.Err()
}

// ActionCount returns the number of recorded actions.
func (s *Store) ActionCount(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, ErrStoreClosed
	}
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM actions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count actions: %w", err)
	}
	return count, nil
}
