package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	PaymentMethodRazorpay = "razorpay"
	PaymentMethodCOD      = "cod"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"

	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusShipping  = "shipping"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Checkout pricing: flat delivery fee plus 8% tax on the item subtotal.
const (
	DeliveryFee = 2.99
	TaxRate     = 0.08

	// AmountTolerance absorbs float rounding between client and server when
	// comparing the claimed order total against the recomputed one.
	AmountTolerance = 0.01
)

// OrderItem freezes the product price at order-creation time. Historical
// orders must never re-derive prices from the live catalog.
type OrderItem struct {
	Product  bson.ObjectID `bson:"product" json:"product"`
	Quantity int           `bson:"quantity" json:"quantity"`
	Price    float64       `bson:"price" json:"price"`
}

type ShippingAddress struct {
	FullName string `bson:"full_name" json:"fullName" binding:"required"`
	Email    string `bson:"email" json:"email" binding:"required,email"`
	Phone    string `bson:"phone" json:"phone" binding:"required"`
	Address  string `bson:"address" json:"address" binding:"required"`
	City     string `bson:"city" json:"city" binding:"required"`
	State    string `bson:"state" json:"state" binding:"required"`
	ZipCode  string `bson:"zip_code" json:"zipCode" binding:"required"`
}

// Order is an immutable financial record snapshotted from a cart at checkout.
// Only status and paymentStatus may change after creation.
type Order struct {
	ID                bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	User              bson.ObjectID   `bson:"user" json:"user"`
	Items             []OrderItem     `bson:"items" json:"items"`
	ShippingAddress   ShippingAddress `bson:"shipping_address" json:"shippingAddress"`
	PaymentMethod     string          `bson:"payment_method" json:"paymentMethod"`
	PaymentStatus     string          `bson:"payment_status" json:"paymentStatus"`
	Status            string          `bson:"status" json:"status"`
	TotalAmount       float64         `bson:"total_amount" json:"totalAmount"`
	RazorpayPaymentID string          `bson:"razorpay_payment_id,omitempty" json:"razorpayPaymentId,omitempty"`
	Notes             string          `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt         time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `bson:"updated_at" json:"updated_at"`
}

type CreateOrderItem struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	// Price is accepted for wire compatibility but ignored: the server
	// freezes prices from the live catalog.
	Price float64 `json:"price"`
}

type CreateOrderRequest struct {
	Items             []CreateOrderItem `json:"items" binding:"required,dive"`
	ShippingAddress   ShippingAddress   `json:"shippingAddress" binding:"required"`
	PaymentMethod     string            `json:"paymentMethod" binding:"required,oneof=razorpay cod"`
	TotalAmount       float64           `json:"totalAmount" binding:"required"`
	Notes             string            `json:"notes"`
	RazorpayOrderID   string            `json:"razorpayOrderId"`
	RazorpayPaymentID string            `json:"razorpayPaymentId"`
	RazorpaySignature string            `json:"razorpaySignature"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed preparing shipping delivered cancelled"`
}

// statusTransitions is the forward-only fulfilment graph. Cancellation is the
// single back-edge, reachable from every non-terminal state.
var statusTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusShipping, OrderStatusCancelled},
	OrderStatusShipping:  {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from the given one.
func AllowedTransitions(from string) []string {
	return statusTransitions[from]
}

// FreezeOrderItems converts requested lines into order items priced from the
// live catalog, ignoring any client-supplied prices. The second return value
// is the hex id of the first product missing from the lookup, if any.
func FreezeOrderItems(items []CreateOrderItem, products map[string]Product) ([]OrderItem, string) {
	frozen := make([]OrderItem, 0, len(items))
	for _, item := range items {
		product, ok := products[item.Product]
		if !ok {
			return nil, item.Product
		}
		frozen = append(frozen, OrderItem{
			Product:  product.ID,
			Quantity: item.Quantity,
			Price:    product.Price,
		})
	}
	return frozen, ""
}

// Subtotal sums quantity x frozen price across the order lines.
func Subtotal(items []OrderItem) float64 {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal
}

// OrderTotal applies the delivery fee and tax to an item subtotal.
func OrderTotal(subtotal float64) float64 {
	return subtotal + DeliveryFee + subtotal*TaxRate
}

// AmountMatches compares a client-claimed total against the server-computed
// one within the rounding tolerance.
func AmountMatches(claimed, computed float64) bool {
	return math.Abs(claimed-computed) <= AmountTolerance
}

func (o *Order) SetTimestamps() {
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
}

// OrderItemView is an order line with its product resolved for display. The
// price shown is always the frozen one.
type OrderItemView struct {
	Product  *Product `json:"product,omitempty"`
	Quantity int      `json:"quantity"`
	Price    float64  `json:"price"`
}

// OrderOwner is the identity projection attached to admin order listings.
type OrderOwner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderView is an order with items (and, for admins, the owner) resolved.
type OrderView struct {
	Order
	ResolvedItems []OrderItemView `json:"resolvedItems"`
	Owner         *OrderOwner     `json:"owner,omitempty"`
}

// BuildOrderView resolves order lines against the supplied products. Missing
// products leave the line's product nil; the frozen price still renders.
func BuildOrderView(order Order, products map[string]Product) OrderView {
	view := OrderView{Order: order, ResolvedItems: make([]OrderItemView, 0, len(order.Items))}
	for _, item := range order.Items {
		line := OrderItemView{Quantity: item.Quantity, Price: item.Price}
		if product, ok := products[item.Product.Hex()]; ok {
			p := product
			line.Product = &p
		}
		view.ResolvedItems = append(view.ResolvedItems, line)
	}
	return view
}
