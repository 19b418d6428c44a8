package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Dish is a quota-constrained tenant resource. Only active, non-deleted
// dishes count toward the plan's max_dishes limit.
type Dish struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RestaurantID uint           `gorm:"not null;index:idx_dishes_restaurant_active,priority:1" json:"restaurant_id" validate:"required"`
	Name         string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=1,max=150"`
	Description  string         `gorm:"type:text" json:"description" validate:"max=2000"`
	PriceCents   int64          `gorm:"not null;default:0" json:"price_cents" validate:"gte=0"`
	IsActive     bool           `gorm:"not null;default:true;index:idx_dishes_restaurant_active,priority:2" json:"is_active"`
	HasARModel   bool           `gorm:"not null;default:false" json:"has_ar_model"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (d *Dish) Validate() error {
	v := validator.New()

	return v.Struct(d)
}
