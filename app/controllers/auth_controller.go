package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/menupilot/menupilot/app/repository"
)

// HandleLogin verifies credentials and issues a fresh API key. The raw key
// is returned once; only its hash is stored.
func HandleLogin(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid credentials"})
		}
		return respondSubscriptionError(c, err)
	}
	if !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid credentials"})
	}
	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "User inactive"})
	}

	apiKey, err := user.IssueAPIKey()
	if err != nil {
		return respondSubscriptionError(c, err)
	}
	now := time.Now()
	user.LastLoginAt = &now
	if err := repo.Update(user); err != nil {
		return respondSubscriptionError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "api_key": apiKey, "user": user})
}
