package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"order-intake/internal/intake/model"
)

func (s *SQLiteStorage) SupplierExists(ctx context.Context, name string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM suppliers WHERE name = ?`, strings.TrimSpace(name)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query supplier: %w", err)
	}
	return n > 0, nil
}

// RegisterSupplier inserts name with the configured payment method and order
// type. Registering an existing supplier returns the stored row.
func (s *SQLiteStorage) RegisterSupplier(ctx context.Context, name string) (model.Supplier, error) {
	if err := validateContext(ctx); err != nil {
		return model.Supplier{}, err
	}
	name = strings.TrimSpace(name)
	if err := validateString(name, "name"); err != nil {
		return model.Supplier{}, err
	}
	if name == model.NewItemsSupplier {
		return model.Supplier{}, fmt.Errorf("%w: %q", ErrReservedName, name)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Supplier{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sup, err := s.ensureSupplierTx(ctx, tx, name)
	if err != nil {
		return model.Supplier{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Supplier{}, fmt.Errorf("failed to commit supplier: %w", err)
	}
	return sup, nil
}

func (s *SQLiteStorage) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, payment_method, order_type
		FROM suppliers
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]model.Supplier, 0)
	for rows.Next() {
		var sp model.Supplier
		if err := rows.Scan(&sp.Name, &sp.PaymentMethod, &sp.OrderType); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (s *SQLiteStorage) ensureSupplierTx(ctx context.Context, tx *sql.Tx, name string) (model.Supplier, error) {
	var sp model.Supplier
	err := tx.QueryRowContext(ctx, `
		SELECT name, payment_method, order_type FROM suppliers WHERE name = ?`, name).
		Scan(&sp.Name, &sp.PaymentMethod, &sp.OrderType)
	if err == nil {
		return sp, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Supplier{}, fmt.Errorf("failed to look up supplier: %w", err)
	}

	sp = model.Supplier{
		Name:          name,
		PaymentMethod: s.defaults.PaymentMethod,
		OrderType:     s.defaults.OrderType,
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO suppliers (name, payment_method, order_type) VALUES (?, ?, ?)`,
		sp.Name, sp.PaymentMethod, sp.OrderType); err != nil {
		return model.Supplier{}, fmt.Errorf("failed to insert supplier: %w", err)
	}
	s.log.Info().Str("supplier", name).Msg("supplier stored")
	return sp, nil
}
