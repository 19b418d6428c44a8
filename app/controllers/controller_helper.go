package controllers

import (
	"errors"
	"log"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/menupilot/menupilot/app/repository"
	"github.com/menupilot/menupilot/internal/pkg/database"
	"github.com/menupilot/menupilot/internal/pkg/entitlements"
	"github.com/menupilot/menupilot/internal/pkg/payment"
	"github.com/menupilot/menupilot/internal/pkg/quota"
	"github.com/menupilot/menupilot/internal/pkg/subscription"
)

var (
	quotaService *quota.Service
	quotaOnce    sync.Once
)

// QuotaService returns the shared quota service. It must be shared so the
// per-tenant admission locks actually serialize sibling requests.
func QuotaService() *quota.Service {
	quotaOnce.Do(func() {
		quotaService = quota.NewService(database.GetDB(), true)
	})
	return quotaService
}

// EntitlementService builds the resolver over the shared repositories.
func EntitlementService() *entitlements.Service {
	return entitlements.NewService(
		repository.GetGlobalFactory().GetRestaurantRepository(),
		QuotaService(),
	)
}

// SubscriptionService builds the state machine over the shared DB handle.
func SubscriptionService() *subscription.Service {
	return subscription.NewServiceFromDB(database.GetDB(), payment.NewGatewayFromEnv())
}

// parseIDParam parses a positive numeric route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id parameter")
	}
	return uint(id), nil
}

// respondSubscriptionError maps state machine and quota errors onto the API
// error contract. Expected, caller-recoverable conditions map to 4xx and are
// not logged; anything else is a 500.
func respondSubscriptionError(c *fiber.Ctx, err error) error {
	var downgrade *subscription.DowngradeBlockedError
	var limit *quota.LimitReachedError

	switch {
	case errors.Is(err, subscription.ErrRestaurantNotFound),
		errors.Is(err, quota.ErrRestaurantNotFound),
		errors.Is(err, entitlements.ErrRestaurantNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Restaurant not found"})
	case errors.Is(err, subscription.ErrPlanNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Plan not found"})
	case errors.Is(err, subscription.ErrInvalidTransition):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_transition", "message": err.Error()})
	case errors.Is(err, subscription.ErrNoPendingPayment):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no_pending_payment", "message": err.Error()})
	case errors.Is(err, subscription.ErrPaymentVerificationFailed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "payment_verification_failed", "message": err.Error()})
	case errors.As(err, &downgrade):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":      "downgrade_blocked",
			"message":    downgrade.Error(),
			"dimensions": downgrade.Dimensions,
		})
	case errors.As(err, &limit):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "limit_reached",
			"message": limit.Error(),
			"kind":    string(limit.Kind),
			"current": limit.Current,
			"max":     limit.Max,
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Record not found"})
	}

	log.Printf("subscription engine error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Operation failed"})
}
