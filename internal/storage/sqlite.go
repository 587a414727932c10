// Package storage persists the catalog, the supplier registry and pending
// orders in SQLite. It is the external collaborator behind dispatch boards.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"order-intake/internal/config"
	"order-intake/internal/intake/dispatch"
	"order-intake/internal/intake/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var (
	_ dispatch.CatalogWriter    = (*SQLiteStorage)(nil)
	_ dispatch.OrderWriter      = (*SQLiteStorage)(nil)
	_ dispatch.SupplierRegistry = (*SQLiteStorage)(nil)
)

// SQLiteStorage implements the catalog, supplier and order collaborators.
type SQLiteStorage struct {
	db       *sql.DB
	log      zerolog.Logger
	defaults config.SupplierConfig

	// one writer at a time
	writeMu sync.Mutex

	cacheMu      sync.RWMutex
	catalogCache []model.CatalogItem
	cacheValid   bool
}

// NewSQLiteStorage opens (creating if needed) the database at dbPath and
// applies the schema.
func NewSQLiteStorage(ctx context.Context, dbPath string, defaults config.SupplierConfig, logger zerolog.Logger) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStorage{db: db, log: logger, defaults: defaults}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS suppliers (
		name TEXT PRIMARY KEY,
		payment_method TEXT NOT NULL DEFAULT '',
		order_type TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_items (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		supplier_name TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_catalog_items_supplier ON catalog_items(supplier_name)`,
	`CREATE TABLE IF NOT EXISTS pending_orders (
		id TEXT PRIMARY KEY,
		supplier_name TEXT NOT NULL,
		store_tag TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pending_order_lines (
		order_id TEXT NOT NULL,
		line_no INTEGER NOT NULL,
		item_id TEXT NOT NULL,
		item_name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		supplier_name TEXT NOT NULL DEFAULT '',
		quantity REAL NOT NULL,
		PRIMARY KEY (order_id, line_no),
		FOREIGN KEY (order_id) REFERENCES pending_orders(id) ON DELETE CASCADE
	)`,
}

func (s *SQLiteStorage) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range schema {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStorage) invalidateCatalog() {
	s.cacheMu.Lock()
	s.catalogCache = nil
	s.cacheValid = false
	s.cacheMu.Unlock()
}

func (s *SQLiteStorage) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
