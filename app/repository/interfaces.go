package repository

import (
	"github.com/menupilot/menupilot/app/models"
	"gorm.io/gorm"
)

// PlanRepository defines the interface for plan catalog operations
type PlanRepository interface {
	Create(plan *models.Plan) error
	GetByID(id uint) (*models.Plan, error)
	GetAll() ([]models.Plan, error)
	Update(plan *models.Plan) error
	Delete(id uint) error
	CountReferencingRestaurants(planID uint) (int64, error)
}

// RestaurantRepository defines the interface for tenant registry operations
type RestaurantRepository interface {
	Create(restaurant *models.Restaurant) error
	GetByID(id uint) (*models.Restaurant, error)
	GetBySlug(slug string) (*models.Restaurant, error)
	Update(restaurant *models.Restaurant) error
	List(offset, limit int) ([]models.Restaurant, error)
	Count() (int64, error)
	// ListExpiredActive returns active tenants whose subscription window has
	// elapsed, for the lifecycle sweep.
	ListExpiredActive(limit int) ([]models.Restaurant, error)
}

// DishRepository defines the interface for dish operations
type DishRepository interface {
	GetByID(id uint) (*models.Dish, error)
	GetByRestaurantID(restaurantID uint, offset, limit int) ([]models.Dish, error)
	Update(dish *models.Dish) error
	Delete(id uint) error
	CountActiveByRestaurantID(restaurantID uint) (int64, error)
}

// UserRepository defines the interface for staff/operator operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	GetByRestaurantID(restaurantID uint) ([]models.User, error)
	CountActiveStaffByRestaurantID(restaurantID uint) (int64, error)
	TouchAPIKeyUsage(userID uint) error
}

// SubscriptionLogRepository defines the interface for the audit journal.
// Append-only: there is deliberately no update or delete.
type SubscriptionLogRepository interface {
	Append(entry *models.SubscriptionLog) error
	ListResolved(offset, limit int) ([]models.SubscriptionLogView, error)
	CountByRestaurantID(restaurantID uint) (int64, error)
}

// PaymentOrderRepository defines the interface for pending charge records
type PaymentOrderRepository interface {
	Create(order *models.PaymentOrder) error
	GetByID(id string) (*models.PaymentOrder, error)
	GetPendingByRestaurantID(restaurantID uint) (*models.PaymentOrder, error)
	Update(order *models.PaymentOrder) error
}

// Repositories contains all repository instances
type Repositories struct {
	Plan            PlanRepository
	Restaurant      RestaurantRepository
	Dish            DishRepository
	User            UserRepository
	SubscriptionLog SubscriptionLogRepository
	PaymentOrder    PaymentOrderRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Plan:            NewPlanRepository(db),
		Restaurant:      NewRestaurantRepository(db),
		Dish:            NewDishRepository(db),
		User:            NewUserRepository(db),
		SubscriptionLog: NewSubscriptionLogRepository(db),
		PaymentOrder:    NewPaymentOrderRepository(db),
	}
}
