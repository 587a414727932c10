package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"order-intake/internal/intake/model"
)

// CatalogWriter creates catalog entries for lines that matched nothing.
type CatalogWriter interface {
	CreateItem(ctx context.Context, req model.NewCatalogItem) (model.CatalogItem, error)
}

// OrderWriter persists a dispatched card as a pending order.
type OrderWriter interface {
	CreatePendingOrder(ctx context.Context, order model.PendingOrder) (model.PendingOrder, error)
}

// SupplierRegistry knows which suppliers exist and registers new ones with
// their defaults.
type SupplierRegistry interface {
	SupplierExists(ctx context.Context, name string) (bool, error)
	RegisterSupplier(ctx context.Context, name string) (model.Supplier, error)
}

type Collaborators struct {
	Catalog   CatalogWriter
	Orders    OrderWriter
	Suppliers SupplierRegistry
}

// Board is the editable working set of dispatch cards for one session.
//
// Every mutation holds the board lock until it is finished, external writes
// included, so an item is always in exactly one card. A mutation that needs
// an external write is applied only after that write succeeds.
type Board struct {
	ID string

	mu     sync.Mutex
	cards  []model.DispatchCard
	collab Collaborators
	log    zerolog.Logger
}

func NewBoard(cards []model.DispatchCard, collab Collaborators, logger zerolog.Logger) *Board {
	id := model.NewID()
	return &Board{
		ID:     id,
		cards:  cloneCards(cards),
		collab: collab,
		log:    logger.With().Str("board", id).Logger(),
	}
}

// Cards returns a copy of the working set.
func (b *Board) Cards() []model.DispatchCard {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneCards(b.cards)
}

func (b *Board) Card(cardID string) (model.DispatchCard, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ci, err := b.cardIndex(cardID)
	if err != nil {
		return model.DispatchCard{}, err
	}
	return cloneCard(b.cards[ci]), nil
}

// AddCard opens an empty card for supplier, registering the supplier first
// when it is unknown.
func (b *Board) AddCard(ctx context.Context, supplier string) (model.DispatchCard, error) {
	supplier = strings.TrimSpace(supplier)
	if supplier == "" {
		return model.DispatchCard{}, ErrInvalidSupplier
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureSupplier(ctx, supplier); err != nil {
		return model.DispatchCard{}, err
	}
	card := model.DispatchCard{ID: model.NewID(), SupplierName: supplier, Items: []model.ParsedLine{}}
	b.cards = append(b.cards, card)
	return cloneCard(card), nil
}

// RenameSupplier changes the card supplier. Unknown suppliers are registered
// before the rename is applied.
func (b *Board) RenameSupplier(ctx context.Context, cardID, supplier string) error {
	supplier = strings.TrimSpace(supplier)
	if supplier == "" {
		return ErrInvalidSupplier
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	ci, err := b.cardIndex(cardID)
	if err != nil {
		return err
	}
	if err := b.ensureSupplier(ctx, supplier); err != nil {
		return err
	}
	b.log.Debug().Str("card", cardID).Str("from", b.cards[ci].SupplierName).Str("to", supplier).Msg("rename supplier")
	b.cards[ci].SupplierName = supplier
	return nil
}

// MoveItem takes an item out of one card and appends it to another. Moving
// into "New Items" clears the item supplier; moving an unmatched item into a
// supplier card creates its catalog entry first.
func (b *Board) MoveItem(ctx context.Context, itemID, fromCardID, toCardID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	from, err := b.cardIndex(fromCardID)
	if err != nil {
		return err
	}
	to, err := b.cardIndex(toCardID)
	if err != nil {
		return err
	}
	ii, err := itemIndex(b.cards[from], itemID)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}
	line, err := b.accept(ctx, b.cards[from].Items[ii], b.cards[to].SupplierName)
	if err != nil {
		return err
	}
	b.cards[from].Items = removeAt(b.cards[from].Items, ii)
	b.cards[to].Items = append(b.cards[to].Items, line)
	b.log.Debug().Str("item", itemID).Str("from", fromCardID).Str("to", toCardID).Msg("move item")
	return nil
}

// ReorderItem moves an item to position pos within its card.
func (b *Board) ReorderItem(cardID, itemID string, pos int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	ci, err := b.cardIndex(cardID)
	if err != nil {
		return err
	}
	items := b.cards[ci].Items
	ii, err := itemIndex(b.cards[ci], itemID)
	if err != nil {
		return err
	}
	if pos < 0 || pos >= len(items) {
		return fmt.Errorf("%w: %d", ErrInvalidPosition, pos)
	}
	line := items[ii]
	items = removeAt(items, ii)
	items = append(items[:pos], append([]model.ParsedLine{line}, items[pos:]...)...)
	b.cards[ci].Items = items
	return nil
}

func (b *Board) SetQuantity(cardID, itemID string, qty float64) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	ci, err := b.cardIndex(cardID)
	if err != nil {
		return err
	}
	ii, err := itemIndex(b.cards[ci], itemID)
	if err != nil {
		return err
	}
	b.cards[ci].Items[ii].Quantity = qty
	return nil
}

func (b *Board) DeleteItem(cardID, itemID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	ci, err := b.cardIndex(cardID)
	if err != nil {
		return err
	}
	ii, err := itemIndex(b.cards[ci], itemID)
	if err != nil {
		return err
	}
	b.cards[ci].Items = removeAt(b.cards[ci].Items, ii)
	return nil
}

// AddItem appends a line (picked from the catalog or typed as a new item) to
// the end of a card and returns it as stored.
func (b *Board) AddItem(ctx context.Context, cardID string, line model.ParsedLine) (model.ParsedLine, error) {
	if line.Quantity <= 0 {
		return model.ParsedLine{}, ErrInvalidQuantity
	}
	if line.ID == "" {
		line.ID = model.NewID()
	}
	if line.ExtractedName == "" && line.MatchedItem != nil {
		line.ExtractedName = line.MatchedItem.Name
	}
	if line.RawText == "" {
		line.RawText = line.ExtractedName
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	ci, err := b.cardIndex(cardID)
	if err != nil {
		return model.ParsedLine{}, err
	}
	line, err = b.accept(ctx, line, b.cards[ci].SupplierName)
	if err != nil {
		return model.ParsedLine{}, err
	}
	b.cards[ci].Items = append(b.cards[ci].Items, line)
	return line, nil
}

// Discard drops a card and its items from the working set.
func (b *Board) Discard(cardID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	ci, err := b.cardIndex(cardID)
	if err != nil {
		return err
	}
	b.cards = append(b.cards[:ci], b.cards[ci+1:]...)
	return nil
}

// Dispatch converts a card into a pending order and removes it from the
// board. The card must have items and a resolved supplier; otherwise
// ErrPrecondition is returned before anything is written.
func (b *Board) Dispatch(ctx context.Context, cardID, storeTag string) (model.PendingOrder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ci, err := b.cardIndex(cardID)
	if err != nil {
		return model.PendingOrder{}, err
	}
	card := b.cards[ci]
	if card.Unresolved() || strings.TrimSpace(card.SupplierName) == "" {
		return model.PendingOrder{}, fmt.Errorf("%w: %w", ErrPrecondition, ErrUnresolvedSupplier)
	}
	if len(card.Items) == 0 {
		return model.PendingOrder{}, fmt.Errorf("%w: %w", ErrPrecondition, ErrEmptyCard)
	}

	// each confirmed catalog creation is kept on the card, so a retry after a
	// later failure does not create the same item twice
	for i, line := range card.Items {
		if line.Matched() {
			continue
		}
		accepted, err := b.accept(ctx, line, card.SupplierName)
		if err != nil {
			return model.PendingOrder{}, err
		}
		b.cards[ci].Items[i] = accepted
	}

	card = b.cards[ci]
	order := model.PendingOrder{
		ID:           model.NewID(),
		SupplierName: card.SupplierName,
		StoreTag:     strings.TrimSpace(storeTag),
		Lines:        make([]model.OrderLine, 0, len(card.Items)),
		CreatedAt:    time.Now().UTC(),
	}
	for _, line := range card.Items {
		order.Lines = append(order.Lines, model.OrderLine{Item: *line.MatchedItem, Quantity: line.Quantity})
	}
	saved, err := b.collab.Orders.CreatePendingOrder(ctx, order)
	if err != nil {
		b.log.Error().Err(err).Str("card", cardID).Msg("create pending order")
		return model.PendingOrder{}, fmt.Errorf("%w: create pending order: %w", ErrCollaborator, err)
	}
	b.cards = append(b.cards[:ci], b.cards[ci+1:]...)
	b.log.Info().
		Str("card", cardID).
		Str("supplier", saved.SupplierName).
		Str("order", saved.ID).
		Int("lines", len(saved.Lines)).
		Msg("card dispatched")
	return saved, nil
}

// accept prepares line for a card owned by supplier. It works on a copy so
// nothing changes when the catalog write fails.
func (b *Board) accept(ctx context.Context, line model.ParsedLine, supplier string) (model.ParsedLine, error) {
	if supplier == model.NewItemsSupplier {
		line.ResolvedSupplier = ""
		return line, nil
	}
	if !line.Matched() {
		name := line.ExtractedName
		if name == "" {
			name = line.RawText
		}
		category := line.ResolvedCategory
		if category == "" {
			category = model.DefaultCategory
		}
		item, err := b.collab.Catalog.CreateItem(ctx, model.NewCatalogItem{
			Name:         name,
			Category:     category,
			SupplierName: supplier,
		})
		if err != nil {
			b.log.Error().Err(err).Str("name", name).Str("supplier", supplier).Msg("create catalog item")
			return model.ParsedLine{}, fmt.Errorf("%w: create catalog item %q: %w", ErrCollaborator, name, err)
		}
		line.MatchedItem = &item
		line.ResolvedCategory = item.Category
		b.log.Info().Str("item", item.ID).Str("name", item.Name).Str("supplier", supplier).Msg("catalog item created")
	}
	line.ResolvedSupplier = supplier
	return line, nil
}

func (b *Board) ensureSupplier(ctx context.Context, name string) error {
	if name == model.NewItemsSupplier {
		return nil
	}
	ok, err := b.collab.Suppliers.SupplierExists(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: lookup supplier %q: %w", ErrCollaborator, name, err)
	}
	if ok {
		return nil
	}
	if _, err := b.collab.Suppliers.RegisterSupplier(ctx, name); err != nil {
		return fmt.Errorf("%w: register supplier %q: %w", ErrCollaborator, name, err)
	}
	b.log.Info().Str("supplier", name).Msg("supplier registered")
	return nil
}

func (b *Board) cardIndex(cardID string) (int, error) {
	for i := range b.cards {
		if b.cards[i].ID == cardID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
}

func itemIndex(card model.DispatchCard, itemID string) (int, error) {
	for i := range card.Items {
		if card.Items[i].ID == itemID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
}

func removeAt(items []model.ParsedLine, i int) []model.ParsedLine {
	out := make([]model.ParsedLine, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func cloneCard(c model.DispatchCard) model.DispatchCard {
	c.Items = append(make([]model.ParsedLine, 0, len(c.Items)), c.Items...)
	return c
}

func cloneCards(cards []model.DispatchCard) []model.DispatchCard {
	out := make([]model.DispatchCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, cloneCard(c))
	}
	return out
}
