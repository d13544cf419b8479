package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Cart is the single mutable pending selection each user owns. The version
// field backs compare-and-swap writes so concurrent edits never lose updates.
type Cart struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	User      bson.ObjectID `bson:"user" json:"user"`
	Items     []CartItem    `bson:"items" json:"items"`
	Version   int64         `bson:"version" json:"-"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}

type CartItem struct {
	Product  bson.ObjectID `bson:"product" json:"product"`
	Quantity int           `bson:"quantity" json:"quantity"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartItemView is a cart line resolved against the live catalog.
type CartItemView struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// CartView is the projection returned to clients and pushed on cartUpdated.
// Totals are derived from live product prices at read time, never stored.
type CartView struct {
	ID          string         `json:"id,omitempty"`
	Items       []CartItemView `json:"items"`
	TotalAmount float64        `json:"totalAmount"`
	TotalItems  int            `json:"totalItems"`
}

// EmptyCartView is what a user without a cart document sees.
func EmptyCartView() CartView {
	return CartView{Items: []CartItemView{}}
}

// BuildCartView resolves cart lines against the supplied products. Lines
// whose product has disappeared from the catalog are skipped rather than
// failing the whole read.
func BuildCartView(cart *Cart, products map[string]Product) CartView {
	view := CartView{
		ID:    cart.ID.Hex(),
		Items: []CartItemView{},
	}

	for _, item := range cart.Items {
		product, ok := products[item.Product.Hex()]
		if !ok {
			continue
		}
		subtotal := product.Price * float64(item.Quantity)
		view.Items = append(view.Items, CartItemView{
			Product:  product,
			Quantity: item.Quantity,
			Subtotal: subtotal,
		})
		view.TotalAmount += subtotal
		view.TotalItems += item.Quantity
	}

	return view
}

// ProductIDs returns the distinct product references in the cart.
func (c *Cart) ProductIDs() []bson.ObjectID {
	seen := make(map[string]bool, len(c.Items))
	ids := make([]bson.ObjectID, 0, len(c.Items))
	for _, item := range c.Items {
		if !seen[item.Product.Hex()] {
			seen[item.Product.Hex()] = true
			ids = append(ids, item.Product)
		}
	}
	return ids
}

// AddItem sums quantities when the product is already a line item, otherwise
// appends a new line. Returns false when quantity is below the floor of 1.
func (c *Cart) AddItem(productID bson.ObjectID, quantity int) bool {
	if quantity < 1 {
		return false
	}
	for i := range c.Items {
		if c.Items[i].Product == productID {
			c.Items[i].Quantity += quantity
			return true
		}
	}
	c.Items = append(c.Items, CartItem{Product: productID, Quantity: quantity})
	return true
}

// SetItemQuantity replaces a line's quantity exactly. Returns false when the
// line does not exist; quantities below 1 must be rejected by the caller
// before reaching here.
func (c *Cart) SetItemQuantity(productID bson.ObjectID, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].Product == productID {
			c.Items[i].Quantity = quantity
			return true
		}
	}
	return false
}

// RemoveItem deletes a line if present. Removal is idempotent, so a missing
// line is not an error.
func (c *Cart) RemoveItem(productID bson.ObjectID) {
	for i := range c.Items {
		if c.Items[i].Product == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}
