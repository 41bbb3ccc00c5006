package purchase

import (
	"strings"

	"github.com/Veraticus/shop-diary/internal/model"
)

// candidates returns the entities whose name contains query, ignoring case.
// An empty query matches nothing.
func candidates[T any](query string, entities []T, name func(T) string) []T {
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)

	var matches []T
	for _, e := range entities {
		if strings.Contains(strings.ToLower(name(e)), needle) {
			matches = append(matches, e)
		}
	}
	return matches
}

// exactMatch finds the first entity whose name equals text, ignoring case
// and surrounding space.
func exactMatch[T any](text string, entities []T, name func(T) string) (T, bool) {
	text = strings.TrimSpace(text)
	for _, e := range entities {
		if strings.EqualFold(strings.TrimSpace(name(e)), text) {
			return e, true
		}
	}
	var zero T
	return zero, false
}

func itemName(i model.Item) string { return i.Name }
func shopName(s model.Shop) string { return s.Name }

// MatchItems returns the items whose name contains query as a
// case-insensitive substring, in their original order.
func MatchItems(query string, items []model.Item) []model.Item {
	return candidates(query, items, itemName)
}

// MatchShops returns the shops whose name contains query as a
// case-insensitive substring, in their original order.
func MatchShops(query string, shops []model.Shop) []model.Shop {
	return candidates(query, shops, shopName)
}

// ResolveItem turns unbound item text into a reference. A name already on
// record resolves to it, so the matched item is returned too.
func ResolveItem(text string, items []model.Item) (model.EntityRef, *model.Item) {
	if item, ok := exactMatch(text, items, itemName); ok {
		return model.Known(item.ID, item.Name), &item
	}
	return model.NewByName(strings.TrimSpace(text)), nil
}

// ResolveShop turns unbound shop text into a reference.
func ResolveShop(text string, shops []model.Shop) model.EntityRef {
	if shop, ok := exactMatch(text, shops, shopName); ok {
		return model.Known(shop.ID, shop.Name)
	}
	return model.NewByName(strings.TrimSpace(text))
}
