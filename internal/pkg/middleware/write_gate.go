package middleware

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/menupilot/menupilot/app/models"
	"github.com/menupilot/menupilot/app/repository"
	"github.com/menupilot/menupilot/internal/pkg/entitlements"
	"github.com/menupilot/menupilot/internal/pkg/usercontext"
)

// SubscriptionGuard is the write gate: it blocks every mutating tenant-scoped
// request with 423 while the tenant is suspended or expired, before any
// domain logic runs. Reads pass so the account can still be diagnosed.
func SubscriptionGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet || c.Method() == fiber.MethodHead {
			return c.Next()
		}

		restaurantID := usercontext.GetRestaurantID(c)
		if restaurantID == 0 {
			return c.Next()
		}

		restaurant, err := repository.GetGlobalFactory().GetRestaurantRepository().GetByID(restaurantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "restaurant not found"})
			}
			log.Printf("write gate lookup failed for restaurant %d: %v", restaurantID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "subscription check failed"})
		}

		locked := restaurant.IsWriteLocked()
		// An elapsed window locks writes even before the sweep persisted the
		// expiry transition.
		if !locked && restaurant.SubscriptionStatus == models.SubscriptionStatusActive && restaurant.IsPastWindow(time.Now()) {
			locked = true
		}
		if locked {
			return c.Status(fiber.StatusLocked).JSON(fiber.Map{
				"error":   "subscription_locked",
				"message": "subscription is " + restaurant.SubscriptionStatus + ", writes are disabled",
				"status":  restaurant.SubscriptionStatus,
			})
		}
		return c.Next()
	}
}

// RequireFeature gates a feature-specific endpoint on the tenant's current
// entitlement, returning 403 with the missing feature named.
func RequireFeature(resolver *entitlements.Service, feature entitlements.Feature) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID := usercontext.GetRestaurantID(c)
		if restaurantID == 0 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "restaurant account required"})
		}

		err := resolver.RequireFeature(restaurantID, feature)
		if err == nil {
			return c.Next()
		}

		var notEntitled *entitlements.FeatureNotEntitledError
		switch {
		case errors.As(err, &notEntitled):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "feature_not_entitled",
				"message": "plan upgrade required",
				"feature": string(notEntitled.Feature),
			})
		case errors.Is(err, entitlements.ErrRestaurantNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "restaurant not found"})
		default:
			log.Printf("feature gate failed for restaurant %d: %v", restaurantID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "entitlement check failed"})
		}
	}
}
