package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"order-intake/internal/intake/model"
)

var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrInvalidItem  = errors.New("invalid catalog item")
	ErrInvalidOrder = errors.New("invalid pending order")
	ErrReservedName = errors.New("supplier name is reserved")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateNewItem(req model.NewCatalogItem) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidItem)
	}
	if strings.TrimSpace(req.SupplierName) == "" || req.SupplierName == model.NewItemsSupplier {
		return fmt.Errorf("%w: supplier %q", ErrInvalidItem, req.SupplierName)
	}
	return nil
}

func validateOrder(o model.PendingOrder) error {
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("%w: id is empty", ErrInvalidOrder)
	}
	if strings.TrimSpace(o.SupplierName) == "" || o.SupplierName == model.NewItemsSupplier {
		return fmt.Errorf("%w: supplier %q", ErrInvalidOrder, o.SupplierName)
	}
	if len(o.Lines) == 0 {
		return fmt.Errorf("%w: no lines", ErrInvalidOrder)
	}
	for i, l := range o.Lines {
		if l.Item.ID == "" {
			return fmt.Errorf("%w: line %d has no catalog item", ErrInvalidOrder, i)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: line %d quantity %v", ErrInvalidOrder, i, l.Quantity)
		}
	}
	return nil
}
