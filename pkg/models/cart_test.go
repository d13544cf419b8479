package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestCartAddItemSumsQuantities(t *testing.T) {
	productID := bson.NewObjectID()
	cart := &Cart{User: bson.NewObjectID()}

	require.True(t, cart.AddItem(productID, 2))
	require.True(t, cart.AddItem(productID, 3))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCartAddItemAppendsNewLine(t *testing.T) {
	cart := &Cart{}
	first := bson.NewObjectID()
	second := bson.NewObjectID()

	require.True(t, cart.AddItem(first, 1))
	require.True(t, cart.AddItem(second, 4))

	require.Len(t, cart.Items, 2)
	assert.Equal(t, first, cart.Items[0].Product)
	assert.Equal(t, second, cart.Items[1].Product)
}

func TestCartAddItemRejectsQuantityBelowOne(t *testing.T) {
	cart := &Cart{}

	assert.False(t, cart.AddItem(bson.NewObjectID(), 0))
	assert.False(t, cart.AddItem(bson.NewObjectID(), -3))
	assert.Empty(t, cart.Items)
}

func TestCartSetItemQuantityReplacesExactly(t *testing.T) {
	productID := bson.NewObjectID()
	cart := &Cart{Items: []CartItem{{Product: productID, Quantity: 2}}}

	require.True(t, cart.SetItemQuantity(productID, 7))
	assert.Equal(t, 7, cart.Items[0].Quantity)

	assert.False(t, cart.SetItemQuantity(bson.NewObjectID(), 1))
}

func TestCartRemoveItemIsIdempotent(t *testing.T) {
	productID := bson.NewObjectID()
	cart := &Cart{Items: []CartItem{{Product: productID, Quantity: 2}}}

	cart.RemoveItem(productID)
	assert.Empty(t, cart.Items)

	// Removing again is not an error.
	cart.RemoveItem(productID)
	assert.Empty(t, cart.Items)
}

func TestBuildCartViewComputesTotalsFromLivePrices(t *testing.T) {
	bananas := Product{ID: bson.NewObjectID(), Name: "Fresh Bananas", Price: 2.99, IsActive: true}
	apples := Product{ID: bson.NewObjectID(), Name: "Organic Apples", Price: 4.49, IsActive: true}

	cart := &Cart{
		ID: bson.NewObjectID(),
		Items: []CartItem{
			{Product: bananas.ID, Quantity: 3},
			{Product: apples.ID, Quantity: 1},
		},
	}

	view := BuildCartView(cart, map[string]Product{
		bananas.ID.Hex(): bananas,
		apples.ID.Hex():  apples,
	})

	require.Len(t, view.Items, 2)
	assert.InDelta(t, 3*2.99+4.49, view.TotalAmount, 1e-9)
	assert.Equal(t, 4, view.TotalItems)
	assert.InDelta(t, 8.97, view.Items[0].Subtotal, 1e-9)
}

func TestBuildCartViewSkipsVanishedProducts(t *testing.T) {
	known := Product{ID: bson.NewObjectID(), Price: 1.99}
	cart := &Cart{
		ID: bson.NewObjectID(),
		Items: []CartItem{
			{Product: known.ID, Quantity: 2},
			{Product: bson.NewObjectID(), Quantity: 5},
		},
	}

	view := BuildCartView(cart, map[string]Product{known.ID.Hex(): known})

	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.TotalItems)
	assert.InDelta(t, 3.98, view.TotalAmount, 1e-9)
}

func TestEmptyCartView(t *testing.T) {
	view := EmptyCartView()

	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.TotalAmount)
	assert.Zero(t, view.TotalItems)
}

func TestCartProductIDsDeduplicates(t *testing.T) {
	productID := bson.NewObjectID()
	other := bson.NewObjectID()
	cart := &Cart{Items: []CartItem{
		{Product: productID, Quantity: 1},
		{Product: other, Quantity: 1},
		{Product: productID, Quantity: 2},
	}}

	ids := cart.ProductIDs()
	assert.Len(t, ids, 2)
}
