package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickcart-grocery/api/pkg/global"
)

func configureTestSecret(t *testing.T, secret string) {
	t.Helper()
	previous := global.GetConfig()
	global.SetConfig(&global.Config{RazorpayKeyID: "rzp_test_key", RazorpayKeySecret: secret})
	t.Cleanup(func() { global.SetConfig(previous) })
}

func signConfirmation(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentAcceptsValidSignature(t *testing.T) {
	configureTestSecret(t, "provider-secret")

	confirmation := PaymentConfirmation{
		OrderID:   "order_MHfqT1nGkrqOcV",
		PaymentID: "pay_MHfqa8xGkNeWbs",
	}
	confirmation.Signature = signConfirmation(confirmation.OrderID, confirmation.PaymentID, "provider-secret")

	require.NoError(t, VerifyPayment(confirmation))
}

func TestVerifyPaymentRejectsTamperedSignature(t *testing.T) {
	configureTestSecret(t, "provider-secret")

	confirmation := PaymentConfirmation{
		OrderID:   "order_MHfqT1nGkrqOcV",
		PaymentID: "pay_MHfqa8xGkNeWbs",
		Signature: signConfirmation("order_MHfqT1nGkrqOcV", "pay_someoneelse", "provider-secret"),
	}

	assert.ErrorIs(t, VerifyPayment(confirmation), ErrSignatureMismatch)
}

func TestVerifyPaymentRejectsWrongSecret(t *testing.T) {
	configureTestSecret(t, "provider-secret")

	confirmation := PaymentConfirmation{
		OrderID:   "order_MHfqT1nGkrqOcV",
		PaymentID: "pay_MHfqa8xGkNeWbs",
		Signature: signConfirmation("order_MHfqT1nGkrqOcV", "pay_MHfqa8xGkNeWbs", "other-secret"),
	}

	assert.ErrorIs(t, VerifyPayment(confirmation), ErrSignatureMismatch)
}

func TestVerifyPaymentRequiresAllFields(t *testing.T) {
	configureTestSecret(t, "provider-secret")

	assert.ErrorIs(t, VerifyPayment(PaymentConfirmation{}), ErrMissingConfirmation)
	assert.ErrorIs(t, VerifyPayment(PaymentConfirmation{OrderID: "order_x"}), ErrMissingConfirmation)
	assert.ErrorIs(t, VerifyPayment(PaymentConfirmation{OrderID: "order_x", PaymentID: "pay_x"}), ErrMissingConfirmation)
}

func TestCreatePaymentOrderWithoutCredentials(t *testing.T) {
	previous := global.GetConfig()
	global.SetConfig(&global.Config{})
	t.Cleanup(func() { global.SetConfig(previous) })

	order, err := CreatePaymentOrder(1746)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, order)
}
