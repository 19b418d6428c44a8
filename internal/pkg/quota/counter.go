package quota

import (
	"fmt"
	"time"

	"github.com/menupilot/menupilot/app/models"
	"github.com/menupilot/menupilot/internal/pkg/cache"
	"github.com/menupilot/menupilot/internal/pkg/entitlements"
	"gorm.io/gorm"
)

const (
	cacheKeyDishCount  = "quota:%d:dishes"
	cacheKeyStaffCount = "quota:%d:staff"
	cacheExpiration    = 10 * time.Minute
)

// Usage returns the live counts of quota-constrained resources for a tenant.
// Counts are cached in redis and invalidated on every create, delete or
// (de)activation of a counted resource; the database stays the source of
// truth, a cold cache just recounts.
func (s *Service) Usage(restaurantID uint) (entitlements.Usage, error) {
	dishes, err := s.countWithCache(fmt.Sprintf(cacheKeyDishCount, restaurantID), func() (int64, error) {
		return countActiveDishes(s.db, restaurantID)
	})
	if err != nil {
		return entitlements.Usage{}, err
	}

	staff, err := s.countWithCache(fmt.Sprintf(cacheKeyStaffCount, restaurantID), func() (int64, error) {
		return countActiveStaff(s.db, restaurantID)
	})
	if err != nil {
		return entitlements.Usage{}, err
	}

	return entitlements.Usage{DishCount: int(dishes), StaffCount: int(staff)}, nil
}

func (s *Service) countWithCache(key string, count func() (int64, error)) (int64, error) {
	if s.cached {
		if val, err := cache.GetInt(key); err == nil {
			return int64(val), nil
		}
	}
	n, err := count()
	if err != nil {
		return 0, err
	}
	if s.cached {
		_ = cache.Set(key, n, cacheExpiration)
	}
	return n, nil
}

// InvalidateUsage drops the cached counters for a tenant.
func (s *Service) InvalidateUsage(restaurantID uint) {
	if !s.cached {
		return
	}
	_ = cache.Delete(fmt.Sprintf(cacheKeyDishCount, restaurantID))
	_ = cache.Delete(fmt.Sprintf(cacheKeyStaffCount, restaurantID))
}

func countActiveDishes(db *gorm.DB, restaurantID uint) (int64, error) {
	var count int64
	err := db.Model(&models.Dish{}).
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Count(&count).Error
	return count, err
}

func countActiveStaff(db *gorm.DB, restaurantID uint) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Count(&count).Error
	return count, err
}
