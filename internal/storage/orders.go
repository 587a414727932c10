package storage

import (
	"context"
	"fmt"
	"time"

	"order-intake/internal/intake/model"
)

// CreatePendingOrder writes the order header and its lines atomically.
func (s *SQLiteStorage) CreatePendingOrder(ctx context.Context, order model.PendingOrder) (model.PendingOrder, error) {
	if err := validateContext(ctx); err != nil {
		return model.PendingOrder{}, err
	}
	if err := validateOrder(order); err != nil {
		return model.PendingOrder{}, err
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.PendingOrder{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pending_orders (id, supplier_name, store_tag, created_at)
		VALUES (?, ?, ?, ?)`,
		order.ID, order.SupplierName, order.StoreTag, order.CreatedAt); err != nil {
		return model.PendingOrder{}, fmt.Errorf("failed to insert pending order: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pending_order_lines (order_id, line_no, item_id, item_name, category, supplier_name, quantity)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return model.PendingOrder{}, fmt.Errorf("failed to prepare order lines: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, l := range order.Lines {
		if _, err := stmt.ExecContext(ctx, order.ID, i, l.Item.ID, l.Item.Name, l.Item.Category, l.Item.SupplierName, l.Quantity); err != nil {
			return model.PendingOrder{}, fmt.Errorf("failed to insert order line %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return model.PendingOrder{}, fmt.Errorf("failed to commit pending order: %w", err)
	}
	s.log.Info().Str("order", order.ID).Str("supplier", order.SupplierName).Int("lines", len(order.Lines)).Msg("pending order stored")
	return order, nil
}

// ListPendingOrders returns orders newest first, lines in card order.
func (s *SQLiteStorage) ListPendingOrders(ctx context.Context) ([]model.PendingOrder, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, supplier_name, store_tag, created_at
		FROM pending_orders
		ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending orders: %w", err)
	}
	orders := make([]model.PendingOrder, 0)
	index := make(map[string]int)
	for rows.Next() {
		var o model.PendingOrder
		if err := rows.Scan(&o.ID, &o.SupplierName, &o.StoreTag, &o.CreatedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan pending order: %w", err)
		}
		o.Lines = make([]model.OrderLine, 0)
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending orders: %w", err)
	}

	lrows, err := s.db.QueryContext(ctx, `
		SELECT order_id, item_id, item_name, category, supplier_name, quantity
		FROM pending_order_lines
		ORDER BY order_id, line_no`)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer func() { _ = lrows.Close() }()
	for lrows.Next() {
		var (
			orderID string
			l       model.OrderLine
		)
		if err := lrows.Scan(&orderID, &l.Item.ID, &l.Item.Name, &l.Item.Category, &l.Item.SupplierName, &l.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Lines = append(orders[i].Lines, l)
		}
	}
	return orders, lrows.Err()
}
