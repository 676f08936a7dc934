package billing

import (
	"github.com/google/uuid"

	"github.com/mamadbah2/salonpos/internal/domain/models"
)

// CartEntry is one line in a cart, addressed by a stable id.
type CartEntry struct {
	EntryID string               `json:"entry_id"`
	Item    models.OrderLineItem `json:"item"`
}

// Cart is an immutable till state. Every change goes through Reduce.
type Cart struct {
	Entries  []CartEntry `json:"entries"`
	Discount Paise       `json:"discount"`
}

// CartAction is a typed change to a cart.
type CartAction interface {
	apply(Cart) Cart
}

// AddItem adds a line, merging it into an existing line for the same item at
// the same price.
type AddItem struct {
	EntryID string
	Item    models.OrderLineItem
}

// RemoveItem drops a line.
type RemoveItem struct{ EntryID string }

// SetQuantity replaces a line's quantity. Zero or less removes the line.
type SetQuantity struct {
	EntryID  string
	Quantity int
}

// SetDiscount replaces the cart discount.
type SetDiscount struct{ Amount Paise }

// ClearCart empties the cart.
type ClearCart struct{}

// Reduce applies a to c and returns the new cart. c is left untouched.
func Reduce(c Cart, a CartAction) Cart {
	return a.apply(c)
}

// NewCart folds items into a cart.
func NewCart(items []models.OrderLineItem) Cart {
	c := Cart{}
	for _, item := range items {
		c = Reduce(c, AddItem{Item: item})
	}
	return c
}

// Lines returns the cart's line items.
func (c Cart) Lines() []models.OrderLineItem {
	out := make([]models.OrderLineItem, 0, len(c.Entries))
	for _, e := range c.Entries {
		out = append(out, e.Item)
	}
	return out
}

func (c Cart) clone() Cart {
	entries := make([]CartEntry, len(c.Entries))
	copy(entries, c.Entries)
	return Cart{Entries: entries, Discount: c.Discount}
}

func (a AddItem) apply(c Cart) Cart {
	next := c.clone()
	item := a.Item
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	for i, e := range next.Entries {
		if e.Item.Kind == item.Kind && e.Item.ItemID == item.ItemID && e.Item.Price == item.Price && e.Item.StylistID == item.StylistID {
			next.Entries[i].Item.Quantity += item.Quantity
			return next
		}
	}
	id := a.EntryID
	if id == "" {
		id = uuid.NewString()
	}
	next.Entries = append(next.Entries, CartEntry{EntryID: id, Item: item})
	return next
}

func (a RemoveItem) apply(c Cart) Cart {
	next := Cart{Discount: c.Discount, Entries: make([]CartEntry, 0, len(c.Entries))}
	for _, e := range c.Entries {
		if e.EntryID != a.EntryID {
			next.Entries = append(next.Entries, e)
		}
	}
	return next
}

func (a SetQuantity) apply(c Cart) Cart {
	if a.Quantity <= 0 {
		return RemoveItem{EntryID: a.EntryID}.apply(c)
	}
	next := c.clone()
	for i, e := range next.Entries {
		if e.EntryID == a.EntryID {
			next.Entries[i].Item.Quantity = a.Quantity
		}
	}
	return next
}

func (a SetDiscount) apply(c Cart) Cart {
	next := c.clone()
	next.Discount = maxPaise(0, a.Amount)
	return next
}

func (ClearCart) apply(Cart) Cart {
	return Cart{}
}
