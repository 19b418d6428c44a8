package repository

import (
	"strings"
	"time"

	"github.com/menupilot/menupilot/app/models"
	"gorm.io/gorm"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByAPIKeyHash resolves an API key hash to its user.
func (r *userRepository) GetByAPIKeyHash(hash string) (*models.User, error) {
	trimmed := strings.TrimSpace(hash)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user models.User
	err := r.db.Where("api_key_hash = ?", trimmed).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) GetByRestaurantID(restaurantID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("restaurant_id = ?", restaurantID).Order("created_at ASC").Find(&users).Error
	return users, err
}

func (r *userRepository) CountActiveStaffByRestaurantID(restaurantID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Count(&count).Error
	return count, err
}

// TouchAPIKeyUsage refreshes the last-used timestamp best-effort.
func (r *userRepository) TouchAPIKeyUsage(userID uint) error {
	now := time.Now()
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"api_key_last_used_at": now}).Error
}
