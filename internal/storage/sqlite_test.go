package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-intake/internal/config"
	"order-intake/internal/intake/model"
)

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "data", "intake.db")
	s, err := NewSQLiteStorage(ctx, dbPath, config.SupplierConfig{PaymentMethod: "Cash", OrderType: "Delivery"}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateItemRegistersSupplier(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()

	item, err := s.CreateItem(ctx, model.NewCatalogItem{Name: " Tomato ", SupplierName: "Green Farm"})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Tomato", item.Name)
	assert.Equal(t, model.DefaultCategory, item.Category)

	ok, err := s.SupplierExists(ctx, "Green Farm")
	require.NoError(t, err)
	assert.True(t, ok)

	sups, err := s.ListSuppliers(ctx)
	require.NoError(t, err)
	require.Len(t, sups, 1)
	assert.Equal(t, model.Supplier{Name: "Green Farm", PaymentMethod: "Cash", OrderType: "Delivery"}, sups[0])
}

func TestCreateItemIsIdempotentPerSupplier(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()

	a, err := s.CreateItem(ctx, model.NewCatalogItem{Name: "Eggs", Category: "Dairy", SupplierName: "A"})
	require.NoError(t, err)
	b, err := s.CreateItem(ctx, model.NewCatalogItem{Name: "eggs", Category: "Dairy", SupplierName: "A"})
	require.NoError(t, err)
	c, err := s.CreateItem(ctx, model.NewCatalogItem{Name: "Eggs", Category: "Dairy", SupplierName: "B"})
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)

	items, err := s.ListCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCreateItemValidation(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateItem(ctx, model.NewCatalogItem{Name: "", SupplierName: "A"})
	assert.ErrorIs(t, err, ErrInvalidItem)
	_, err = s.CreateItem(ctx, model.NewCatalogItem{Name: "Tomato", SupplierName: model.NewItemsSupplier})
	assert.ErrorIs(t, err, ErrInvalidItem)
	//nolint:staticcheck // nil context is the point of the test
	_, err = s.CreateItem(nil, model.NewCatalogItem{Name: "Tomato", SupplierName: "A"})
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestListCatalogKeepsInsertionOrderAndCopies(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()

	n, err := s.ImportItems(ctx, []model.NewCatalogItem{
		{Name: "Zucchini", SupplierName: "A"},
		{Name: "Apple", SupplierName: "B"},
		{Name: "Milk", SupplierName: "A", Category: "Dairy"},
		{Name: "apple", SupplierName: "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	first, err := s.ListCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, []string{"Zucchini", "Apple", "Milk"}, []string{first[0].Name, first[1].Name, first[2].Name})

	first[0].Name = "changed"
	second, err := s.ListCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Zucchini", second[0].Name)

	_, err = s.CreateItem(ctx, model.NewCatalogItem{Name: "Bread", SupplierName: "C"})
	require.NoError(t, err)
	third, err := s.ListCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 4)
	assert.Equal(t, "Bread", third[3].Name)
}

func TestImportItemsRejectsBadRowAtomically(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()

	_, err := s.ImportItems(ctx, []model.NewCatalogItem{
		{Name: "Tomato", SupplierName: "A"},
		{Name: "Onion", SupplierName: ""},
	})
	require.ErrorIs(t, err, ErrInvalidItem)

	items, err := s.ListCatalog(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRegisterSupplier(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()

	sp, err := s.RegisterSupplier(ctx, "Fish Co")
	require.NoError(t, err)
	assert.Equal(t, "Cash", sp.PaymentMethod)

	again, err := s.RegisterSupplier(ctx, "Fish Co")
	require.NoError(t, err)
	assert.Equal(t, sp, again)

	_, err = s.RegisterSupplier(ctx, model.NewItemsSupplier)
	assert.ErrorIs(t, err, ErrReservedName)
	_, err = s.RegisterSupplier(ctx, "  ")
	assert.ErrorIs(t, err, ErrEmptyString)

	ok, err := s.SupplierExists(ctx, "Nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPendingOrderRoundTrip(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()

	tomato, err := s.CreateItem(ctx, model.NewCatalogItem{Name: "Tomato", Category: "Veg", SupplierName: "A"})
	require.NoError(t, err)
	onion, err := s.CreateItem(ctx, model.NewCatalogItem{Name: "Onion", Category: "Veg", SupplierName: "A"})
	require.NoError(t, err)

	created := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	order := model.PendingOrder{
		ID:           model.NewID(),
		SupplierName: "A",
		StoreTag:     "central",
		CreatedAt:    created,
		Lines: []model.OrderLine{
			{Item: onion, Quantity: 2},
			{Item: tomato, Quantity: 5.5},
		},
	}
	saved, err := s.CreatePendingOrder(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, order.ID, saved.ID)

	orders, err := s.ListPendingOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	got := orders[0]
	assert.Equal(t, "A", got.SupplierName)
	assert.Equal(t, "central", got.StoreTag)
	assert.True(t, created.Equal(got.CreatedAt))
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "Onion", got.Lines[0].Item.Name)
	assert.InDelta(t, 5.5, got.Lines[1].Quantity, 1e-9)
}

func TestPendingOrderValidation(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()

	cases := map[string]model.PendingOrder{
		"no id":       {SupplierName: "A", Lines: []model.OrderLine{{Item: model.CatalogItem{ID: "x"}, Quantity: 1}}},
		"new items":   {ID: "o1", SupplierName: model.NewItemsSupplier, Lines: []model.OrderLine{{Item: model.CatalogItem{ID: "x"}, Quantity: 1}}},
		"no lines":    {ID: "o1", SupplierName: "A"},
		"unresolved":  {ID: "o1", SupplierName: "A", Lines: []model.OrderLine{{Quantity: 1}}},
		"zero amount": {ID: "o1", SupplierName: "A", Lines: []model.OrderLine{{Item: model.CatalogItem{ID: "x"}}}},
	}
	for name, o := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.CreatePendingOrder(ctx, o)
			assert.ErrorIs(t, err, ErrInvalidOrder)
		})
	}
}
