package repository

import (
	"github.com/menupilot/menupilot/app/models"
	"gorm.io/gorm"
)

// dishRepository implements the DishRepository interface
type dishRepository struct {
	db *gorm.DB
}

// NewDishRepository creates a new dish repository instance
func NewDishRepository(db *gorm.DB) DishRepository {
	return &dishRepository{db: db}
}

func (r *dishRepository) GetByID(id uint) (*models.Dish, error) {
	var dish models.Dish
	err := r.db.First(&dish, id).Error
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

func (r *dishRepository) GetByRestaurantID(restaurantID uint, offset, limit int) ([]models.Dish, error) {
	var dishes []models.Dish
	err := r.db.Where("restaurant_id = ?", restaurantID).
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&dishes).Error
	return dishes, err
}

func (r *dishRepository) Update(dish *models.Dish) error {
	return r.db.Save(dish).Error
}

func (r *dishRepository) Delete(id uint) error {
	return r.db.Delete(&models.Dish{}, id).Error
}

func (r *dishRepository) CountActiveByRestaurantID(restaurantID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Dish{}).
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Count(&count).Error
	return count, err
}
