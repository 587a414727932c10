package service

import "order-intake/internal/intake/model"

// Group partitions parsed lines into one card per resolved supplier, in order
// of first appearance, followed by a single "New Items" card for lines with
// no supplier. Empty cards are never produced. Lines are copied into the
// cards; the input slice is left untouched.
func Group(lines []model.ParsedLine) []model.DispatchCard {
	var (
		cards    = make([]model.DispatchCard, 0)
		bySupp   = make(map[string]int)
		newItems []model.ParsedLine
	)
	for _, l := range lines {
		if l.ResolvedSupplier == "" || l.ResolvedSupplier == model.NewItemsSupplier {
			newItems = append(newItems, l)
			continue
		}
		i, ok := bySupp[l.ResolvedSupplier]
		if !ok {
			i = len(cards)
			bySupp[l.ResolvedSupplier] = i
			cards = append(cards, model.DispatchCard{
				ID:           model.NewID(),
				SupplierName: l.ResolvedSupplier,
			})
		}
		cards[i].Items = append(cards[i].Items, l)
	}
	if len(newItems) > 0 {
		cards = append(cards, model.DispatchCard{
			ID:           model.NewID(),
			SupplierName: model.NewItemsSupplier,
			Items:        newItems,
		})
	}
	return cards
}
