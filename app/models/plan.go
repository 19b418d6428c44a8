package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	PlanIntervalMonthly = "monthly"
	PlanIntervalYearly  = "yearly"
)

// Plan is a billing plan from the platform catalog. Feature flags and limits
// are a closed field set on purpose: unknown keys coming from clients must not
// be able to toggle entitlements.
type Plan struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name" validate:"required,min=2,max=100"`
	PriceCents       int64     `gorm:"not null;default:0" json:"price_cents" validate:"gte=0"`
	Interval         string    `gorm:"type:varchar(16);not null;default:'monthly'" json:"interval" validate:"oneof=monthly yearly"`
	FeatureARModels  bool      `gorm:"not null;default:false" json:"feature_ar_models"`
	FeatureKDS       bool      `gorm:"not null;default:false" json:"feature_kds"`
	FeatureAnalytics bool      `gorm:"not null;default:false" json:"feature_analytics"`
	MaxDishes        int       `gorm:"not null;default:0" json:"max_dishes" validate:"gte=0"`
	MaxStaff         int       `gorm:"not null;default:0" json:"max_staff" validate:"gte=0"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Plan) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
