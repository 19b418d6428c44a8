package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/menupilot/menupilot/internal/pkg/usercontext"
)

// HandleFeaturesCheck returns the full entitlement view for the caller's
// restaurant: plan, features, limits and current usage.
func HandleFeaturesCheck(c *fiber.Ctx) error {
	restaurantID := usercontext.GetRestaurantID(c)
	if restaurantID == 0 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Restaurant account required"})
	}

	ent, err := EntitlementService().ResolveForRestaurant(restaurantID)
	if err != nil {
		return respondSubscriptionError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":             true,
		"plan":                ent.Plan,
		"subscription_status": ent.Status,
		"features":            ent.Features,
		"limits":              ent.Limits,
		"usage":               ent.Usage,
	})
}

// HandlePublicFeatures returns only the feature map for a guest-facing menu
// page. Unknown slugs get an all-false map, never an error, so anonymous
// callers cannot probe which tenants exist.
func HandlePublicFeatures(c *fiber.Ctx) error {
	slug := c.Params("slug")
	features := EntitlementService().ResolvePublicBySlug(slug)

	return c.JSON(fiber.Map{
		"success":  true,
		"features": features,
	})
}
