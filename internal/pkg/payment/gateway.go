package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"github.com/menupilot/menupilot/internal/pkg/env"
)

// Order is a charge initiated with the external payment collaborator.
type Order struct {
	ID          string
	AmountCents int64
}

// Gateway is the narrow interface to the payment provider. The state machine
// only knows initiate and verify; everything provider-specific stays behind
// this boundary.
type Gateway interface {
	InitiatePayment(restaurantID, planID uint, amountCents int64) (*Order, error)
	// VerifyPayment reports whether the capture callback matches the charge.
	VerifyPayment(orderID, paymentID, signature string) bool
}

// hmacGateway issues synthetic order ids and verifies captures with an
// HMAC-SHA256 signature over "orderID|paymentID". Stands in for a real
// provider while keeping the capture guard honest.
type hmacGateway struct {
	secret string
}

// NewGatewayFromEnv creates the gateway with the PAYMENT_SECRET key.
func NewGatewayFromEnv() Gateway {
	return NewGateway(env.GetEnv("PAYMENT_SECRET", "dev-payment-secret"))
}

// NewGateway creates a gateway with an explicit signing secret.
func NewGateway(secret string) Gateway {
	return &hmacGateway{secret: secret}
}

func (g *hmacGateway) InitiatePayment(restaurantID, planID uint, amountCents int64) (*Order, error) {
	return &Order{
		ID:          "order_" + uuid.NewString(),
		AmountCents: amountCents,
	}, nil
}

func (g *hmacGateway) VerifyPayment(orderID, paymentID, signature string) bool {
	sig := strings.TrimSpace(signature)
	if sig == "" || orderID == "" || paymentID == "" {
		return false
	}
	decoded, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hmac.Equal(mac.Sum(nil), decoded)
}

// Sign computes the capture signature for an order/payment pair. Used by the
// simulated checkout flow and by tests.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
