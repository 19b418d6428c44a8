package quota

import (
	"errors"

	"github.com/menupilot/menupilot/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrRestaurantNotFound is returned when an admission targets an unknown tenant.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// Service enforces resource quotas at the point of creation. The count check
// and the creation commit as one atomic unit per (tenant, kind): admissions
// take a per-tenant lock in process and a FOR UPDATE lock on the tenant row
// in the transaction, so two concurrent requests can never jointly overshoot
// the limit.
type Service struct {
	db     *gorm.DB
	locks  *keyedMutex
	cached bool
}

// NewService creates a quota service. cached enables the redis usage cache;
// tests run without it.
func NewService(db *gorm.DB, cached bool) *Service {
	return &Service{db: db, locks: newKeyedMutex(), cached: cached}
}

// AdmitDish admits a dish creation and runs create inside the admission
// transaction. Rejects with LimitReachedError at or over the plan limit,
// without side effects.
func (s *Service) AdmitDish(restaurantID uint, create func(tx *gorm.DB) error) error {
	unlock := s.locks.lock(restaurantID)
	defer unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		restaurant, err := lockRestaurant(tx, restaurantID)
		if err != nil {
			return err
		}
		current, err := countActiveDishes(tx, restaurantID)
		if err != nil {
			return err
		}
		if _, err := evaluate(KindDish, current, maxDishes(restaurant)); err != nil {
			return err
		}
		return create(tx)
	})
	if err != nil {
		return err
	}
	s.InvalidateUsage(restaurantID)
	return nil
}

// AdmitStaff admits a staff creation. Creation always proceeds; over quota
// the new user is persisted inactive and the returned decision carries the
// warning for the response payload.
func (s *Service) AdmitStaff(restaurantID uint, create func(tx *gorm.DB, decision Decision) error) (Decision, error) {
	unlock := s.locks.lock(restaurantID)
	defer unlock()

	var decision Decision
	err := s.db.Transaction(func(tx *gorm.DB) error {
		restaurant, err := lockRestaurant(tx, restaurantID)
		if err != nil {
			return err
		}
		current, err := countActiveStaff(tx, restaurantID)
		if err != nil {
			return err
		}
		decision, err = evaluate(KindStaff, current, maxStaff(restaurant))
		if err != nil {
			return err
		}
		return create(tx, decision)
	})
	if err != nil {
		return Decision{}, err
	}
	s.InvalidateUsage(restaurantID)
	return decision, nil
}

// ReadmitDish re-runs the dish admission for a reactivation. Reactivating is
// the same slot claim as creating, so it may be rejected while the tenant is
// still over quota.
func (s *Service) ReadmitDish(restaurantID, dishID uint) error {
	unlock := s.locks.lock(restaurantID)
	defer unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		restaurant, err := lockRestaurant(tx, restaurantID)
		if err != nil {
			return err
		}
		var dish models.Dish
		if err := tx.Where("id = ? AND restaurant_id = ?", dishID, restaurantID).First(&dish).Error; err != nil {
			return err
		}
		if dish.IsActive {
			return nil
		}
		current, err := countActiveDishes(tx, restaurantID)
		if err != nil {
			return err
		}
		if _, err := evaluate(KindDish, current, maxDishes(restaurant)); err != nil {
			return err
		}
		return tx.Model(&dish).Update("is_active", true).Error
	})
	if err != nil {
		return err
	}
	s.InvalidateUsage(restaurantID)
	return nil
}

// ReadmitStaff re-runs the staff admission for a reactivation. Unlike staff
// creation this is a hard check: an inactive user only becomes active when a
// slot is free.
func (s *Service) ReadmitStaff(restaurantID, userID uint) error {
	unlock := s.locks.lock(restaurantID)
	defer unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		restaurant, err := lockRestaurant(tx, restaurantID)
		if err != nil {
			return err
		}
		var user models.User
		if err := tx.Where("id = ? AND restaurant_id = ?", userID, restaurantID).First(&user).Error; err != nil {
			return err
		}
		if user.IsActive {
			return nil
		}
		current, err := countActiveStaff(tx, restaurantID)
		if err != nil {
			return err
		}
		if current >= int64(maxStaff(restaurant)) {
			return &LimitReachedError{Kind: KindStaff, Current: current, Max: maxStaff(restaurant)}
		}
		return tx.Model(&user).Update("is_active", true).Error
	})
	if err != nil {
		return err
	}
	s.InvalidateUsage(restaurantID)
	return nil
}

// lockRestaurant loads the tenant row under FOR UPDATE so concurrent
// admissions for the same tenant serialize at the database.
func lockRestaurant(tx *gorm.DB, restaurantID uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Plan").
		First(&restaurant, restaurantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return &restaurant, nil
}

func maxDishes(r *models.Restaurant) int {
	if r.Plan == nil {
		return 0
	}
	return r.Plan.MaxDishes
}

func maxStaff(r *models.Restaurant) int {
	if r.Plan == nil {
		return 0
	}
	return r.Plan.MaxStaff
}
