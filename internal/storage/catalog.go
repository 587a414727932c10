package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"order-intake/internal/intake/model"
)

// ListCatalog returns the catalog in insertion order. The result is cached
// until the next catalog write and is a fresh copy on every call, so callers
// may hold pointers into it for the lifetime of a parse.
func (s *SQLiteStorage) ListCatalog(ctx context.Context) ([]model.CatalogItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.cacheMu.RLock()
	if s.cacheValid {
		out := append(make([]model.CatalogItem, 0, len(s.catalogCache)), s.catalogCache...)
		s.cacheMu.RUnlock()
		return out, nil
	}
	s.cacheMu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, supplier_name
		FROM catalog_items
		ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]model.CatalogItem, 0)
	for rows.Next() {
		var it model.CatalogItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.SupplierName); err != nil {
			return nil, fmt.Errorf("failed to scan catalog item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog: %w", err)
	}

	s.cacheMu.Lock()
	s.catalogCache = items
	s.cacheValid = true
	s.cacheMu.Unlock()

	return append(make([]model.CatalogItem, 0, len(items)), items...), nil
}

// CreateItem adds req to the catalog. An item with the same name (case
// insensitive) and supplier is returned as is instead of being duplicated.
// The supplier is registered with defaults when unknown.
func (s *SQLiteStorage) CreateItem(ctx context.Context, req model.NewCatalogItem) (model.CatalogItem, error) {
	if err := validateContext(ctx); err != nil {
		return model.CatalogItem{}, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.SupplierName = strings.TrimSpace(req.SupplierName)
	req.Category = strings.TrimSpace(req.Category)
	if err := validateNewItem(req); err != nil {
		return model.CatalogItem{}, err
	}
	if req.Category == "" {
		req.Category = model.DefaultCategory
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.CatalogItem{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	item, created, err := s.insertItemTx(ctx, tx, req)
	if err != nil {
		return model.CatalogItem{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.CatalogItem{}, fmt.Errorf("failed to commit catalog item: %w", err)
	}
	if created {
		s.invalidateCatalog()
		s.log.Info().Str("item", item.ID).Str("name", item.Name).Str("supplier", item.SupplierName).Msg("catalog item stored")
	}
	return item, nil
}

// ImportItems stores a batch of catalog rows in one transaction. Rows that
// already exist are skipped. It returns how many rows were new.
func (s *SQLiteStorage) ImportItems(ctx context.Context, reqs []model.NewCatalogItem) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	for i := range reqs {
		reqs[i].Name = strings.TrimSpace(reqs[i].Name)
		reqs[i].SupplierName = strings.TrimSpace(reqs[i].SupplierName)
		reqs[i].Category = strings.TrimSpace(reqs[i].Category)
		if reqs[i].Category == "" {
			reqs[i].Category = model.DefaultCategory
		}
		if err := validateNewItem(reqs[i]); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	n := 0
	for _, req := range reqs {
		_, created, err := s.insertItemTx(ctx, tx, req)
		if err != nil {
			return 0, err
		}
		if created {
			n++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	if n > 0 {
		s.invalidateCatalog()
	}
	s.log.Info().Int("rows", len(reqs)).Int("created", n).Msg("catalog import")
	return n, nil
}

func (s *SQLiteStorage) insertItemTx(ctx context.Context, tx *sql.Tx, req model.NewCatalogItem) (model.CatalogItem, bool, error) {
	var existing model.CatalogItem
	err := tx.QueryRowContext(ctx, `
		SELECT id, name, category, supplier_name
		FROM catalog_items
		WHERE lower(name) = lower(?) AND supplier_name = ?
		ORDER BY seq LIMIT 1`, req.Name, req.SupplierName).
		Scan(&existing.ID, &existing.Name, &existing.Category, &existing.SupplierName)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return model.CatalogItem{}, false, fmt.Errorf("failed to look up catalog item: %w", err)
	}

	if _, err := s.ensureSupplierTx(ctx, tx, req.SupplierName); err != nil {
		return model.CatalogItem{}, false, err
	}

	item := model.CatalogItem{
		ID:           model.NewID(),
		Name:         req.Name,
		Category:     req.Category,
		SupplierName: req.SupplierName,
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO catalog_items (id, name, category, supplier_name)
		VALUES (?, ?, ?, ?)`, item.ID, item.Name, item.Category, item.SupplierName); err != nil {
		return model.CatalogItem{}, false, fmt.Errorf("failed to insert catalog item: %w", err)
	}
	return item, true, nil
}
