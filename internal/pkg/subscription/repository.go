package subscription

import (
	"time"

	"github.com/menupilot/menupilot/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the subscription state machine.
// Transition writes pair the tenant mutation with its audit entry in one
// transaction: a transition whose log entry cannot be appended is not
// committed.
type Repository interface {
	GetRestaurant(id uint) (*models.Restaurant, error)
	GetPlan(id uint) (*models.Plan, error)
	CountActiveDishes(restaurantID uint) (int64, error)
	CountActiveStaff(restaurantID uint) (int64, error)
	CreateRestaurant(restaurant *models.Restaurant, entry *models.SubscriptionLog) error
	SaveTransition(restaurant *models.Restaurant, entry *models.SubscriptionLog) error
	// ExpireRestaurant applies the expiry transition only if the tenant is
	// still active, so concurrent sweeps stay idempotent.
	ExpireRestaurant(restaurantID uint, entry *models.SubscriptionLog) (bool, error)
	ListExpiredActive(limit int) ([]models.Restaurant, error)
	CreatePaymentOrder(order *models.PaymentOrder) error
	GetPaymentOrder(id string) (*models.PaymentOrder, error)
	CapturePayment(order *models.PaymentOrder, restaurant *models.Restaurant, entry *models.SubscriptionLog) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a subscription repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetRestaurant(id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.Preload("Plan").First(&restaurant, id).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *gormRepository) GetPlan(id uint) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *gormRepository) CountActiveDishes(restaurantID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Dish{}).
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) CountActiveStaff(restaurantID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) CreateRestaurant(restaurant *models.Restaurant, entry *models.SubscriptionLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(restaurant).Error; err != nil {
			return err
		}
		entry.RestaurantID = restaurant.ID
		return tx.Create(entry).Error
	})
}

func (r *gormRepository) SaveTransition(restaurant *models.Restaurant, entry *models.SubscriptionLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Plan rows are never written through a transition, even when the
		// association is loaded.
		if err := tx.Omit(clause.Associations).Save(restaurant).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

func (r *gormRepository) ExpireRestaurant(restaurantID uint, entry *models.SubscriptionLog) (bool, error) {
	expired := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Restaurant{}).
			Where("id = ? AND subscription_status = ?", restaurantID, models.SubscriptionStatusActive).
			Update("subscription_status", models.SubscriptionStatusExpired)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		expired = true
		return tx.Create(entry).Error
	})
	return expired, err
}

func (r *gormRepository) ListExpiredActive(limit int) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.
		Where("subscription_status = ? AND subscription_ends_at IS NOT NULL AND subscription_ends_at < ?",
			models.SubscriptionStatusActive, time.Now()).
		Limit(limit).
		Find(&restaurants).Error
	return restaurants, err
}

func (r *gormRepository) CreatePaymentOrder(order *models.PaymentOrder) error {
	return r.db.Create(order).Error
}

func (r *gormRepository) GetPaymentOrder(id string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.db.Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) CapturePayment(order *models.PaymentOrder, restaurant *models.Restaurant, entry *models.SubscriptionLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(restaurant).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}
