package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/menupilot/menupilot/app/models"
	"github.com/menupilot/menupilot/app/repository"
	"github.com/menupilot/menupilot/internal/pkg/quota"
	"github.com/menupilot/menupilot/internal/pkg/usercontext"
)

// HandleCreateStaff creates a staff user through the admission controller.
// Staff admission never hard-rejects: over quota the user is persisted
// inactive and the response carries a warning.
func HandleCreateStaff(c *fiber.Ctx) error {
	restaurantID := usercontext.GetRestaurantID(c)

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	user := &models.User{
		RestaurantID: &restaurantID,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Role:         models.RoleStaff,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return respondSubscriptionError(c, err)
	}
	if err := user.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	decision, err := QuotaService().AdmitStaff(restaurantID, func(tx *gorm.DB, d quota.Decision) error {
		user.IsActive = !d.Inactive
		return tx.Create(user).Error
	})
	if err != nil {
		return respondSubscriptionError(c, err)
	}

	resp := fiber.Map{"success": true, "user": user}
	if decision.Warning != "" {
		resp["warning"] = decision.Warning
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleListStaff lists the tenant's staff users.
func HandleListStaff(c *fiber.Ctx) error {
	restaurantID := usercontext.GetRestaurantID(c)

	users, err := repository.GetGlobalFactory().GetUserRepository().GetByRestaurantID(restaurantID)
	if err != nil {
		return respondSubscriptionError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "users": users})
}

// HandleActivateStaff reactivates a staff user. Unlike creation this is a
// hard admission check: it fails while the tenant is still over quota.
func HandleActivateStaff(c *fiber.Ctx) error {
	restaurantID := usercontext.GetRestaurantID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid user id"})
	}

	if err := QuotaService().ReadmitStaff(restaurantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "User not found"})
		}
		return respondSubscriptionError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "User activated"})
}

// HandleDeactivateStaff deactivates a staff user, freeing a quota slot.
func HandleDeactivateStaff(c *fiber.Ctx) error {
	restaurantID := usercontext.GetRestaurantID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid user id"})
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "User not found"})
		}
		return respondSubscriptionError(c, err)
	}
	if user.RestaurantID == nil || *user.RestaurantID != restaurantID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "User not found"})
	}

	user.IsActive = false
	if err := repo.Update(user); err != nil {
		return respondSubscriptionError(c, err)
	}
	QuotaService().InvalidateUsage(restaurantID)
	return c.JSON(fiber.Map{"success": true, "message": "User deactivated"})
}
