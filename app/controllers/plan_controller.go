package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/menupilot/menupilot/app/models"
	"github.com/menupilot/menupilot/app/repository"
)

type planRequest struct {
	Name             string `json:"name"`
	PriceCents       int64  `json:"price_cents"`
	Interval         string `json:"interval"`
	FeatureARModels  bool   `json:"feature_ar_models"`
	FeatureKDS       bool   `json:"feature_kds"`
	FeatureAnalytics bool   `json:"feature_analytics"`
	MaxDishes        int    `json:"max_dishes"`
	MaxStaff         int    `json:"max_staff"`
}

func (r *planRequest) apply(plan *models.Plan) {
	plan.Name = strings.TrimSpace(r.Name)
	plan.PriceCents = r.PriceCents
	plan.Interval = strings.ToLower(strings.TrimSpace(r.Interval))
	plan.FeatureARModels = r.FeatureARModels
	plan.FeatureKDS = r.FeatureKDS
	plan.FeatureAnalytics = r.FeatureAnalytics
	plan.MaxDishes = r.MaxDishes
	plan.MaxStaff = r.MaxStaff
}

// HandleListPlans returns the plan catalog.
func HandleListPlans(c *fiber.Ctx) error {
	plans, err := repository.GetGlobalFactory().GetPlanRepository().GetAll()
	if err != nil {
		return respondSubscriptionError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "plans": plans})
}

// HandleCreatePlan adds a plan to the catalog.
func HandleCreatePlan(c *fiber.Ctx) error {
	var req planRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	plan := &models.Plan{}
	req.apply(plan)
	if err := plan.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	if err := repository.GetGlobalFactory().GetPlanRepository().Create(plan); err != nil {
		return respondSubscriptionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "plan": plan})
}

// HandleUpdatePlan edits a plan. Edits apply prospectively; tenants already
// on the plan see the new flags and limits on their next resolve.
func HandleUpdatePlan(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid plan id"})
	}

	var req planRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	repo := repository.GetGlobalFactory().GetPlanRepository()
	plan, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Plan not found"})
		}
		return respondSubscriptionError(c, err)
	}

	req.apply(plan)
	if err := plan.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	if err := repo.Update(plan); err != nil {
		return respondSubscriptionError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "plan": plan})
}

// HandleDeletePlan removes a plan from the catalog. Refused while any tenant
// still references the plan.
func HandleDeletePlan(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid plan id"})
	}

	repo := repository.GetGlobalFactory().GetPlanRepository()
	if _, err := repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Plan not found"})
		}
		return respondSubscriptionError(c, err)
	}

	refs, err := repo.CountReferencingRestaurants(id)
	if err != nil {
		return respondSubscriptionError(c, err)
	}
	if refs > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":       "plan_in_use",
			"message":     "Plan is referenced by existing restaurants",
			"restaurants": refs,
		})
	}

	if err := repo.Delete(id); err != nil {
		return respondSubscriptionError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Plan deleted"})
}
