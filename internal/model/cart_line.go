package model

import "github.com/shopspring/decimal"

// CartLine pairs a menu item snapshot with a quantity.
// The item is copied when the line is created; later menu edits do not
// change what is already in a cart.
type CartLine struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
}

// Subtotal returns unit price times quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
