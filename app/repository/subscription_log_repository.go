package repository

import (
	"github.com/menupilot/menupilot/app/models"
	"gorm.io/gorm"
)

// subscriptionLogRepository implements the SubscriptionLogRepository interface
type subscriptionLogRepository struct {
	db *gorm.DB
}

// NewSubscriptionLogRepository creates a new audit journal repository instance
func NewSubscriptionLogRepository(db *gorm.DB) SubscriptionLogRepository {
	return &subscriptionLogRepository{db: db}
}

func (r *subscriptionLogRepository) Append(entry *models.SubscriptionLog) error {
	return r.db.Create(entry).Error
}

// ListResolved returns entries newest first, joined with restaurant name,
// actor username and plan name for the operations dashboard.
func (r *subscriptionLogRepository) ListResolved(offset, limit int) ([]models.SubscriptionLogView, error) {
	var views []models.SubscriptionLogView
	err := r.db.Model(&models.SubscriptionLog{}).
		Select("subscription_logs.*, restaurants.name AS restaurant_name, users.name AS performed_by_name, plans.name AS plan_name").
		Joins("LEFT JOIN restaurants ON restaurants.id = subscription_logs.restaurant_id").
		Joins("LEFT JOIN users ON users.id = subscription_logs.performed_by").
		Joins("LEFT JOIN plans ON plans.id = subscription_logs.plan_id").
		Order("subscription_logs.created_at DESC, subscription_logs.id DESC").
		Offset(offset).Limit(limit).
		Scan(&views).Error
	return views, err
}

func (r *subscriptionLogRepository) CountByRestaurantID(restaurantID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.SubscriptionLog{}).
		Where("restaurant_id = ?", restaurantID).
		Count(&count).Error
	return count, err
}
