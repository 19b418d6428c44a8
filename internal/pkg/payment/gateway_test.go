package payment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitiatePaymentIssuesUniqueOrders(t *testing.T) {
	g := NewGateway("secret")

	first, err := g.InitiatePayment(1, 2, 2900)
	require.NoError(t, err)
	second, err := g.InitiatePayment(1, 2, 2900)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first.ID, "order_"))
	assert.NotEqual(t, first.ID, second.ID)
	assert.EqualValues(t, 2900, first.AmountCents)
}

func TestVerifyPaymentRoundTrip(t *testing.T) {
	g := NewGateway("secret")

	sig := Sign("secret", "order_abc", "pay_123")
	assert.True(t, g.VerifyPayment("order_abc", "pay_123", sig))
}

func TestVerifyPaymentRejectsTampering(t *testing.T) {
	g := NewGateway("secret")
	sig := Sign("secret", "order_abc", "pay_123")

	assert.False(t, g.VerifyPayment("order_xyz", "pay_123", sig), "different order")
	assert.False(t, g.VerifyPayment("order_abc", "pay_999", sig), "different payment")
	assert.False(t, g.VerifyPayment("order_abc", "pay_123", "deadbeef"), "garbage signature")
	assert.False(t, g.VerifyPayment("order_abc", "pay_123", ""), "empty signature")

	wrongSecret := Sign("other-secret", "order_abc", "pay_123")
	assert.False(t, g.VerifyPayment("order_abc", "pay_123", wrongSecret))
}
