package models

import "time"

const (
	PaymentOrderStatusPending  = "pending"
	PaymentOrderStatusCaptured = "captured"
	PaymentOrderStatusFailed   = "failed"
)

// PaymentOrder is the pending charge created when a plan is assigned. The
// payment gateway reports back with the order id and a signature; the
// PAYMENT_PENDING -> ACTIVE transition only fires when both match.
type PaymentOrder struct {
	ID           string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`
	PlanID       uint      `gorm:"not null" json:"plan_id"`
	DurationDays int       `gorm:"not null" json:"duration_days"`
	AmountCents  int64     `gorm:"not null" json:"amount_cents"`
	Status       string    `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	CapturedAt   *time.Time `gorm:"type:timestamp;default:null" json:"captured_at,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
