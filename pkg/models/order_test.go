package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestFreezeOrderItemsUsesLivePricesOnly(t *testing.T) {
	product := Product{ID: bson.NewObjectID(), Name: "Whole Milk", Price: 3.49}

	// The client claims a lower price; the frozen line must ignore it.
	frozen, missing := FreezeOrderItems(
		[]CreateOrderItem{{Product: product.ID.Hex(), Quantity: 2, Price: 0.01}},
		map[string]Product{product.ID.Hex(): product},
	)

	require.Empty(t, missing)
	require.Len(t, frozen, 1)
	assert.InDelta(t, 3.49, frozen[0].Price, 1e-9)
	assert.Equal(t, 2, frozen[0].Quantity)
}

func TestFreezeOrderItemsReportsMissingProduct(t *testing.T) {
	unknown := bson.NewObjectID().Hex()

	frozen, missing := FreezeOrderItems(
		[]CreateOrderItem{{Product: unknown, Quantity: 1}},
		map[string]Product{},
	)

	assert.Nil(t, frozen)
	assert.Equal(t, unknown, missing)
}

func TestOrderTotalCheckoutScenario(t *testing.T) {
	// 3 x 2.99 + 1 x 4.49, plus the flat delivery fee and 8% tax on the
	// item subtotal.
	items := []OrderItem{
		{Product: bson.NewObjectID(), Quantity: 3, Price: 2.99},
		{Product: bson.NewObjectID(), Quantity: 1, Price: 4.49},
	}

	subtotal := Subtotal(items)
	require.InDelta(t, 13.46, subtotal, 1e-9)

	total := OrderTotal(subtotal)
	assert.InDelta(t, 13.46+2.99+13.46*0.08, total, 1e-9)
}

func TestAmountMatchesWithinTolerance(t *testing.T) {
	assert.True(t, AmountMatches(17.5268, 17.5268))
	assert.True(t, AmountMatches(17.53, 17.5268))
	assert.False(t, AmountMatches(18.00, 17.5268))
	assert.False(t, AmountMatches(0, 17.5268))
}

func TestOrderPriceInvariantUnderCatalogChange(t *testing.T) {
	product := Product{ID: bson.NewObjectID(), Name: "Greek Yogurt", Price: 5.99}
	catalog := map[string]Product{product.ID.Hex(): product}

	frozen, missing := FreezeOrderItems(
		[]CreateOrderItem{{Product: product.ID.Hex(), Quantity: 1}},
		catalog,
	)
	require.Empty(t, missing)

	order := Order{Items: frozen}

	// The catalog price changes after the order exists.
	product.Price = 9.99
	catalog[product.ID.Hex()] = product

	view := BuildOrderView(order, catalog)
	require.Len(t, view.ResolvedItems, 1)
	assert.InDelta(t, 5.99, view.ResolvedItems[0].Price, 1e-9)
	assert.InDelta(t, 9.99, view.ResolvedItems[0].Product.Price, 1e-9)
}

func TestBuildOrderViewToleratesDeletedProducts(t *testing.T) {
	order := Order{Items: []OrderItem{{Product: bson.NewObjectID(), Quantity: 2, Price: 1.99}}}

	view := BuildOrderView(order, map[string]Product{})

	require.Len(t, view.ResolvedItems, 1)
	assert.Nil(t, view.ResolvedItems[0].Product)
	assert.InDelta(t, 1.99, view.ResolvedItems[0].Price, 1e-9)
}

func TestStatusTransitionsForwardOnly(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusConfirmed))
	assert.True(t, CanTransition(OrderStatusConfirmed, OrderStatusPreparing))
	assert.True(t, CanTransition(OrderStatusPreparing, OrderStatusShipping))
	assert.True(t, CanTransition(OrderStatusShipping, OrderStatusDelivered))

	// No skipping ahead, no moving backwards.
	assert.False(t, CanTransition(OrderStatusPending, OrderStatusShipping))
	assert.False(t, CanTransition(OrderStatusDelivered, OrderStatusPending))
	assert.False(t, CanTransition(OrderStatusShipping, OrderStatusConfirmed))
}

func TestCancellationReachableFromNonTerminalStates(t *testing.T) {
	for _, from := range []string{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusShipping,
	} {
		assert.True(t, CanTransition(from, OrderStatusCancelled), "from %s", from)
	}

	assert.False(t, CanTransition(OrderStatusDelivered, OrderStatusCancelled))
	assert.False(t, CanTransition(OrderStatusCancelled, OrderStatusPending))
}

func TestAllowedTransitionsTerminalStatesEmpty(t *testing.T) {
	assert.Empty(t, AllowedTransitions(OrderStatusDelivered))
	assert.Empty(t, AllowedTransitions(OrderStatusCancelled))
	assert.NotEmpty(t, AllowedTransitions(OrderStatusPending))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "admin@quickcart.com", NormalizeEmail("  Admin@QuickCart.COM "))
}
