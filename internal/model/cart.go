package model

import (
	"github.com/google/uuid"
)

var cartItemNamespace = uuid.MustParse("6f1c1d2e-8a43-4a0e-9d0c-3c4b1f2e7a55")

// MaxLineQuantity caps a single cart line; merges and updates saturate at it.
const MaxLineQuantity = 99

// CartItemID derives the opaque line id from the (product, variant) pair.
func CartItemID(productID uuid.UUID, variantID *uuid.UUID) string {
	key := productID.String() + "/"
	if variantID != nil {
		key += variantID.String()
	}
	return uuid.NewSHA1(cartItemNamespace, []byte(key)).String()
}

// CartItem is one pending selection. Name, price, image and size are captured when the line is added.
type CartItem struct {
	ID        string     `json:"id"`
	ProductID uuid.UUID  `json:"productId"`
	VariantID *uuid.UUID `json:"variantId,omitempty"`
	Quantity  int        `json:"quantity"`
	Name      string     `json:"name,omitempty"`
	Price     int64      `json:"price,omitempty"`
	Image     string     `json:"image,omitempty"`
	Size      string     `json:"size,omitempty"`
}

// LineTotal is price * quantity.
func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Cart is the whole cart value; it is owned by the request and written back as one unit.
type Cart struct {
	Items []CartItem `json:"items"`
}

type CartTotals struct {
	Subtotal  int64 `json:"subtotal"`
	Shipping  int64 `json:"shipping"`
	Total     int64 `json:"total"`
	ItemCount int   `json:"item_count"`
}

func (c *Cart) index(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Line looks up a line by id.
func (c *Cart) Line(id string) (CartItem, bool) {
	if i := c.index(id); i >= 0 {
		return c.Items[i], true
	}
	return CartItem{}, false
}

// Merge adds the line, summing quantities when the same product/variant is already present.
// The resulting quantity stays within [1, MaxLineQuantity].
func (c *Cart) Merge(item CartItem) CartItem {
	item.ID = CartItemID(item.ProductID, item.VariantID)
	item.Quantity = clampQuantity(item.Quantity)
	if i := c.index(item.ID); i >= 0 {
		if item.Quantity > MaxLineQuantity-c.Items[i].Quantity {
			c.Items[i].Quantity = MaxLineQuantity
		} else {
			c.Items[i].Quantity += item.Quantity
		}
		return c.Items[i]
	}
	c.Items = append(c.Items, item)
	return item
}

// SetQuantity clamps quantity to [1, MaxLineQuantity]. It returns false when the line does not exist.
func (c *Cart) SetQuantity(id string, quantity int) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.Items[i].Quantity = clampQuantity(quantity)
	return true
}

func clampQuantity(q int) int {
	switch {
	case q < 1:
		return 1
	case q > MaxLineQuantity:
		return MaxLineQuantity
	}
	return q
}

// Remove deletes the line if present.
func (c *Cart) Remove(id string) {
	if i := c.index(id); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Count is the total quantity across lines.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Totals aggregates the lines; shipping is flat and only charged on a non-empty subtotal.
func (c *Cart) Totals(flatShipping int64) CartTotals {
	var t CartTotals
	for _, it := range c.Items {
		t.Subtotal += it.LineTotal()
		t.ItemCount += it.Quantity
	}
	if t.Subtotal > 0 {
		t.Shipping = flatShipping
	}
	t.Total = t.Subtotal + t.Shipping
	return t
}
