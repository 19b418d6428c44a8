package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	SubscriptionStatusTrial          = "trial"
	SubscriptionStatusPaymentPending = "payment_pending"
	SubscriptionStatusActive         = "active"
	SubscriptionStatusSuspended      = "suspended"
	SubscriptionStatusExpired        = "expired"
)

// Restaurant is a tenant. PlanID stays nil until a platform operator assigns
// a plan; SubscriptionEndsAt is nil only while no plan is assigned or the
// tenant is still in trial.
type Restaurant struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	Slug                  string         `gorm:"type:varchar(100);not null;uniqueIndex" json:"slug" validate:"required,min=2,max=100,slug_safe"`
	Name                  string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	PlanID                *uint          `gorm:"index" json:"plan_id"`
	Plan                  *Plan          `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	SubscriptionStatus    string         `gorm:"type:varchar(32);not null;default:'trial';index" json:"subscription_status" validate:"oneof=trial payment_pending active suspended expired"`
	SubscriptionType      string         `gorm:"type:varchar(16);default:null" json:"subscription_type"`
	SubscriptionStartedAt *time.Time     `gorm:"type:timestamp;default:null" json:"subscription_started_at"`
	SubscriptionEndsAt    *time.Time     `gorm:"type:timestamp;default:null;index" json:"subscription_ends_at"`
	CreatedAt             time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Restaurant) Validate() error {
	v := validator.New()
	_ = v.RegisterValidation("slug_safe", validateSlug)

	return v.Struct(r)
}

func validateSlug(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}

// IsInGoodStanding reports whether the subscription entitles features at all.
func (r *Restaurant) IsInGoodStanding() bool {
	return r.SubscriptionStatus == SubscriptionStatusActive || r.SubscriptionStatus == SubscriptionStatusTrial
}

// IsPastWindow reports whether an assigned subscription window has elapsed.
func (r *Restaurant) IsPastWindow(now time.Time) bool {
	return r.SubscriptionEndsAt != nil && now.After(*r.SubscriptionEndsAt)
}

// IsWriteLocked reports whether tenant-scoped mutations must be refused.
// Reads stay open so the account can still be diagnosed.
func (r *Restaurant) IsWriteLocked() bool {
	return r.SubscriptionStatus == SubscriptionStatusSuspended || r.SubscriptionStatus == SubscriptionStatusExpired
}

// IsValidSubscriptionStatus reports whether s is one of the known statuses.
func IsValidSubscriptionStatus(s string) bool {
	switch s {
	case SubscriptionStatusTrial, SubscriptionStatusPaymentPending, SubscriptionStatusActive,
		SubscriptionStatusSuspended, SubscriptionStatusExpired:
		return true
	}
	return false
}
