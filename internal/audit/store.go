package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/wajahat414/Forex-Order-Managment-Service/internal/order"
)

// Store records every order the pipeline has consumed together with its
// terminal outcome. Its primary key doubles as the intake dedup check:
// an order_id that has already been recorded is reported as a duplicate
// so the pipeline honors the consume-exactly-once lifecycle.
type Store struct {
	db *sql.DB
}

// Outcome is a previously recorded terminal result for an order
type Outcome struct {
	OrderID             string
	ClientID            string
	Symbol              string
	Status              order.Status
	Reason              string
	FirstSeenUnixMillis int64
}

// Open creates or opens the audit store at path
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// migrate creates the necessary tables
func (s *Store) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS processed_orders (
			order_id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			status TEXT NOT NULL,
			reason TEXT NOT NULL,
			first_seen_unix_millis INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_processed_orders_client
			ON processed_orders(client_id)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// Record stores the terminal outcome for an order. It returns
// duplicate=true without modifying the row when the order_id was already
// recorded.
func (s *Store) Record(ctx context.Context, req order.OrderRequest, status order.Status, reason string, nowUnixMillis int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO processed_orders
			(order_id, client_id, symbol, status, reason, first_seen_unix_millis)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.OrderID, req.ClientID, req.Symbol, string(status), reason, nowUnixMillis,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record order outcome: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return rows == 0, nil
}

// Seen reports whether an order_id has already been consumed
func (s *Store) Seen(ctx context.Context, orderID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM processed_orders WHERE order_id = ?`, orderID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query processed orders: %w", err)
	}
	return true, nil
}

// Outcome returns the recorded result for an order_id
func (s *Store) Outcome(ctx context.Context, orderID string) (Outcome, bool, error) {
	var o Outcome
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT order_id, client_id, symbol, status, reason, first_seen_unix_millis
		 FROM processed_orders WHERE order_id = ?`, orderID,
	).Scan(&o.OrderID, &o.ClientID, &o.Symbol, &status, &o.Reason, &o.FirstSeenUnixMillis)
	if err == sql.ErrNoRows {
		return Outcome{}, false, nil
	}
	if err != nil {
		return Outcome{}, false, fmt.Errorf("failed to query order outcome: %w", err)
	}
	o.Status = order.Status(status)
	return o, true, nil
}

// Close closes the store
func (s *Store) Close() error {
	return s.db.Close()
}
