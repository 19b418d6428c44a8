package repository

import (
	"github.com/menupilot/menupilot/app/models"
	"gorm.io/gorm"
)

// paymentOrderRepository implements the PaymentOrderRepository interface
type paymentOrderRepository struct {
	db *gorm.DB
}

// NewPaymentOrderRepository creates a new payment order repository instance
func NewPaymentOrderRepository(db *gorm.DB) PaymentOrderRepository {
	return &paymentOrderRepository{db: db}
}

func (r *paymentOrderRepository) Create(order *models.PaymentOrder) error {
	return r.db.Create(order).Error
}

func (r *paymentOrderRepository) GetByID(id string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.db.Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *paymentOrderRepository) GetPendingByRestaurantID(restaurantID uint) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.db.Where("restaurant_id = ? AND status = ?", restaurantID, models.PaymentOrderStatusPending).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *paymentOrderRepository) Update(order *models.PaymentOrder) error {
	return r.db.Save(order).Error
}
