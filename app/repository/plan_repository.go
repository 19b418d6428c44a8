package repository

import (
	"github.com/menupilot/menupilot/app/models"
	"gorm.io/gorm"
)

// planRepository implements the PlanRepository interface
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(plan *models.Plan) error {
	return r.db.Create(plan).Error
}

func (r *planRepository) GetByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) GetAll() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Order("price_cents ASC").Find(&plans).Error
	return plans, err
}

func (r *planRepository) Update(plan *models.Plan) error {
	return r.db.Save(plan).Error
}

func (r *planRepository) Delete(id uint) error {
	return r.db.Delete(&models.Plan{}, id).Error
}

// CountReferencingRestaurants counts tenants currently assigned to the plan.
// Plan deletion must be refused while this is non-zero.
func (r *planRepository) CountReferencingRestaurants(planID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Restaurant{}).Where("plan_id = ?", planID).Count(&count).Error
	return count, err
}
