package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/menupilot/menupilot/app/models"
	"github.com/menupilot/menupilot/app/repository"
	"github.com/menupilot/menupilot/internal/pkg/usercontext"
)

// HandleCreateRestaurant registers a new tenant. It starts in trial without
// a plan until an operator assigns one.
func HandleCreateRestaurant(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	restaurant := &models.Restaurant{
		Name: strings.TrimSpace(req.Name),
		Slug: strings.ToLower(strings.TrimSpace(req.Slug)),
	}
	if err := SubscriptionService().CreateRestaurant(restaurant, usercontext.GetUserID(c)); err != nil {
		if restaurant.Validate() != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
		}
		return respondSubscriptionError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "restaurant": restaurant})
}

// HandleListRestaurants lists tenants for the operations dashboard.
func HandleListRestaurants(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	repo := repository.GetGlobalFactory().GetRestaurantRepository()
	restaurants, err := repo.List(offset, limit)
	if err != nil {
		return respondSubscriptionError(c, err)
	}
	total, err := repo.Count()
	if err != nil {
		return respondSubscriptionError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "restaurants": restaurants, "total": total})
}

// HandleAssignPlan puts a restaurant on a plan and opens the pending charge.
func HandleAssignPlan(c *fiber.Ctx) error {
	var req struct {
		RestaurantID   uint `json:"restaurant_id"`
		PlanID         uint `json:"plan_id"`
		DurationInDays int  `json:"duration_in_days"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	order, err := SubscriptionService().AssignPlan(req.RestaurantID, req.PlanID, req.DurationInDays, usercontext.GetUserID(c))
	if err != nil {
		return respondSubscriptionError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "payment_order": order})
}

// HandleVerifyPayment applies the payment-captured callback from the gateway.
func HandleVerifyPayment(c *fiber.Ctx) error {
	var req struct {
		OrderID   string `json:"order_id"`
		PaymentID string `json:"payment_id"`
		Signature string `json:"signature"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	if err := SubscriptionService().ConfirmPayment(req.OrderID, req.PaymentID, req.Signature); err != nil {
		return respondSubscriptionError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Payment captured, subscription active"})
}

// HandleExtendSubscription lengthens the subscription window.
func HandleExtendSubscription(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid restaurant id"})
	}

	var req struct {
		ExtendByDays int `json:"extend_by_days"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	if err := SubscriptionService().Extend(id, req.ExtendByDays, usercontext.GetUserID(c)); err != nil {
		return respondSubscriptionError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Subscription extended"})
}

// HandleChangePlan swaps a restaurant's plan, blocked by the downgrade guard.
func HandleChangePlan(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid restaurant id"})
	}

	var req struct {
		PlanID uint `json:"plan_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	if err := SubscriptionService().ChangePlan(id, req.PlanID, usercontext.GetUserID(c)); err != nil {
		return respondSubscriptionError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Plan changed"})
}

// HandleSuspendRestaurant locks a tenant manually.
func HandleSuspendRestaurant(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid restaurant id"})
	}

	if err := SubscriptionService().Suspend(id, usercontext.GetUserID(c)); err != nil {
		return respondSubscriptionError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Restaurant suspended"})
}

// HandleResumeRestaurant lifts a suspension; the resulting status follows
// from the subscription window.
func HandleResumeRestaurant(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid restaurant id"})
	}

	if err := SubscriptionService().Resume(id, usercontext.GetUserID(c)); err != nil {
		return respondSubscriptionError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Restaurant resumed"})
}

// HandleUpdateRestaurantStatus is the operator override for the status field.
func HandleUpdateRestaurantStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid restaurant id"})
	}

	var req struct {
		SubscriptionStatus string `json:"subscription_status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	if err := SubscriptionService().ForceStatus(id, req.SubscriptionStatus, usercontext.GetUserID(c)); err != nil {
		return respondSubscriptionError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Status updated"})
}

// HandleGetSubscriptionLogs returns the audit journal newest first, resolved
// with restaurant and actor names for display.
func HandleGetSubscriptionLogs(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 100)
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	logs, err := repository.GetGlobalFactory().GetSubscriptionLogRepository().ListResolved(offset, limit)
	if err != nil {
		return respondSubscriptionError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "logs": logs})
}
