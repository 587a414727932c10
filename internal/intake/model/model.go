package model

import (
	"time"

	"github.com/google/uuid"
)

// NewItemsSupplier marks a card whose supplier is still unknown. Such a card
// can never be turned into an order.
const NewItemsSupplier = "New Items"

// DefaultCategory is used for catalog entries created from lines that carried
// no category of their own.
const DefaultCategory = "Uncategorized"

type CatalogItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	SupplierName string `json:"supplierName"`
}

// ParsedLine is one input line resolved against the catalog.
// When MatchedItem is set, ResolvedSupplier and ResolvedCategory mirror it.
type ParsedLine struct {
	ID               string       `json:"id"`
	RawText          string       `json:"rawText"`
	ExtractedName    string       `json:"extractedName"`
	Quantity         float64      `json:"quantity"`
	Unit             string       `json:"unit,omitempty"`
	MatchedItem      *CatalogItem `json:"matchedItem,omitempty"` // borrowed from the catalog snapshot
	MatchStage       string       `json:"matchStage,omitempty"`  // exact | overlap | substring | similarity | contains
	Score            float64      `json:"score,omitempty"`       // similarity for the edit-distance stage
	ResolvedSupplier string       `json:"resolvedSupplier,omitempty"`
	ResolvedCategory string       `json:"resolvedCategory,omitempty"`
}

// Matched reports whether the line resolved to a catalog entry.
func (l ParsedLine) Matched() bool { return l.MatchedItem != nil }

type DispatchCard struct {
	ID           string       `json:"id"`
	SupplierName string       `json:"supplierName"`
	Items        []ParsedLine `json:"items"`
}

// Unresolved reports whether the card still sits in the "New Items" bucket.
func (c DispatchCard) Unresolved() bool { return c.SupplierName == NewItemsSupplier }

type Supplier struct {
	Name          string `json:"name"`
	PaymentMethod string `json:"paymentMethod"`
	OrderType     string `json:"orderType"`
}

// NewCatalogItem is a creation request for an item not yet in the catalog.
type NewCatalogItem struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	SupplierName string `json:"supplierName"`
}

type OrderLine struct {
	Item     CatalogItem `json:"item"`
	Quantity float64     `json:"quantity"`
}

type PendingOrder struct {
	ID           string      `json:"id"`
	SupplierName string      `json:"supplierName"`
	StoreTag     string      `json:"storeTag,omitempty"`
	Lines        []OrderLine `json:"lines"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// NewID returns an opaque identifier for lines, cards and orders.
func NewID() string { return uuid.NewString() }
