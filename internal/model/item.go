// Package model defines the core domain models used throughout the application.
package model

import "time"

// DefaultUnit is the unit of measure used when none is given.
const DefaultUnit = "kg"

// Item is something that gets bought repeatedly, like sugar or milk.
type Item struct {
	LastPrice         *float64   `json:"lastPrice,omitempty"`
	LastPurchasedDate *time.Time `json:"lastPurchasedDate,omitempty"`
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Unit              string     `json:"unit"`
}

// HasPriceHistory reports whether a previous price is recorded. A zero
// price counts as no history.
func (i *Item) HasPriceHistory() bool {
	return i.LastPrice != nil && *i.LastPrice != 0
}

// ItemUpdate carries the fields to change on a stored item.
// Nil fields are left untouched.
type ItemUpdate struct {
	LastPrice         *float64
	LastPurchasedDate *time.Time
	Unit              *string
}

// UnitOrDefault returns unit, or DefaultUnit when unit is blank.
func UnitOrDefault(unit string) string {
	if unit == "" {
		return DefaultUnit
	}
	return unit
}
