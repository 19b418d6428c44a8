package repository

import (
	"time"

	"github.com/menupilot/menupilot/app/models"
	"gorm.io/gorm"
)

// restaurantRepository implements the RestaurantRepository interface
type restaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository creates a new restaurant repository instance
func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) Create(restaurant *models.Restaurant) error {
	return r.db.Create(restaurant).Error
}

func (r *restaurantRepository) GetByID(id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.Preload("Plan").First(&restaurant, id).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) GetBySlug(slug string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.Preload("Plan").Where("slug = ?", slug).First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) Update(restaurant *models.Restaurant) error {
	return r.db.Save(restaurant).Error
}

func (r *restaurantRepository) List(offset, limit int) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.Preload("Plan").Offset(offset).Limit(limit).Order("created_at DESC").Find(&restaurants).Error
	return restaurants, err
}

func (r *restaurantRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Restaurant{}).Count(&count).Error
	return count, err
}

func (r *restaurantRepository) ListExpiredActive(limit int) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.
		Where("subscription_status = ? AND subscription_ends_at IS NOT NULL AND subscription_ends_at < ?",
			models.SubscriptionStatusActive, time.Now()).
		Limit(limit).
		Find(&restaurants).Error
	return restaurants, err
}
