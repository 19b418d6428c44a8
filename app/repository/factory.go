package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetPlanRepository returns the plan repository instance
func (f *Factory) GetPlanRepository() PlanRepository {
	return f.GetRepositories().Plan
}

// GetRestaurantRepository returns the restaurant repository instance
func (f *Factory) GetRestaurantRepository() RestaurantRepository {
	return f.GetRepositories().Restaurant
}

// GetDishRepository returns the dish repository instance
func (f *Factory) GetDishRepository() DishRepository {
	return f.GetRepositories().Dish
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetSubscriptionLogRepository returns the audit journal repository instance
func (f *Factory) GetSubscriptionLogRepository() SubscriptionLogRepository {
	return f.GetRepositories().SubscriptionLog
}

// GetPaymentOrderRepository returns the payment order repository instance
func (f *Factory) GetPaymentOrderRepository() PaymentOrderRepository {
	return f.GetRepositories().PaymentOrder
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
