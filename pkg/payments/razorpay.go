package payments

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	"github.com/quickcart-grocery/api/pkg/global"
)

var (
	ErrNotConfigured       = errors.New("payment provider credentials not configured")
	ErrProviderFailure     = errors.New("payment provider request failed")
	ErrSignatureMismatch   = errors.New("payment signature verification failed")
	ErrMissingConfirmation = errors.New("missing payment confirmation fields")
)

// PaymentConfirmation is the client-forwarded proof of a completed checkout.
// The signature is verified server-side against the provider secret; the
// token itself is never trusted on its own.
type PaymentConfirmation struct {
	OrderID   string
	PaymentID string
	Signature string
}

func client() (*razorpay.Client, error) {
	cfg := global.GetConfig()
	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		return nil, ErrNotConfigured
	}
	return razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret), nil
}

// CreatePaymentOrder mints a provider-hosted order reference for the given
// amount (in the provider's smallest currency unit) and returns the raw
// provider response for checkout-widget consumption.
func CreatePaymentOrder(amount float64) (map[string]interface{}, error) {
	rzp, err := client()
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":          int64(math.Round(amount)),
		"currency":        "INR",
		"receipt":         fmt.Sprintf("rcpt_%s", uuid.NewString()),
		"payment_capture": 1,
	}

	order, err := rzp.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	return order, nil
}

// VerifyPayment checks the provider signature over (orderID, paymentID).
func VerifyPayment(confirmation PaymentConfirmation) error {
	if confirmation.OrderID == "" || confirmation.PaymentID == "" || confirmation.Signature == "" {
		return ErrMissingConfirmation
	}

	cfg := global.GetConfig()
	if cfg.RazorpayKeySecret == "" {
		return ErrNotConfigured
	}

	params := map[string]interface{}{
		"razorpay_order_id":   confirmation.OrderID,
		"razorpay_payment_id": confirmation.PaymentID,
	}
	if !utils.VerifyPaymentSignature(params, confirmation.Signature, cfg.RazorpayKeySecret) {
		return ErrSignatureMismatch
	}

	return nil
}
