package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/menupilot/menupilot/app/models"
	"github.com/menupilot/menupilot/internal/pkg/entitlements"
	"github.com/menupilot/menupilot/internal/pkg/usercontext"
)

func withTenant(restaurantID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(usercontext.ContextKey, usercontext.UserContext{
			UserID:       1,
			RestaurantID: restaurantID,
			IsLoggedIn:   true,
		})
		return c.Next()
	}
}

func okHandler(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func TestSubscriptionGuardSkipsReads(t *testing.T) {
	app := fiber.New()
	app.Get("/dishes", withTenant(1), SubscriptionGuard(), okHandler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dishes", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestSubscriptionGuardSkipsPlatformOperators(t *testing.T) {
	app := fiber.New()
	// Operators carry no restaurant id; the gate does not apply to them.
	app.Post("/dishes", withTenant(0), SubscriptionGuard(), okHandler)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/dishes", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

type stubRestaurantRepo struct {
	restaurant *models.Restaurant
}

func (s *stubRestaurantRepo) Create(r *models.Restaurant) error { return nil }

func (s *stubRestaurantRepo) GetByID(id uint) (*models.Restaurant, error) {
	if s.restaurant != nil && s.restaurant.ID == id {
		return s.restaurant, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRestaurantRepo) GetBySlug(slug string) (*models.Restaurant, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRestaurantRepo) Update(r *models.Restaurant) error { return nil }

func (s *stubRestaurantRepo) List(offset, limit int) ([]models.Restaurant, error) { return nil, nil }

func (s *stubRestaurantRepo) Count() (int64, error) { return 0, nil }

func (s *stubRestaurantRepo) ListExpiredActive(limit int) ([]models.Restaurant, error) {
	return nil, nil
}

type zeroUsage struct{}

func (zeroUsage) Usage(restaurantID uint) (entitlements.Usage, error) {
	return entitlements.Usage{}, nil
}

func featureGateApp(restaurant *models.Restaurant, feature entitlements.Feature) *fiber.App {
	resolver := entitlements.NewService(&stubRestaurantRepo{restaurant: restaurant}, zeroUsage{})
	app := fiber.New()
	tenantID := uint(0)
	if restaurant != nil {
		tenantID = restaurant.ID
	}
	app.Post("/gated", withTenant(tenantID), RequireFeature(resolver, feature), okHandler)
	return app
}

func TestRequireFeatureAllowsEntitledTenant(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	restaurant := &models.Restaurant{
		ID:                 4,
		Plan:               &models.Plan{ID: 1, FeatureARModels: true},
		SubscriptionStatus: models.SubscriptionStatusActive,
		SubscriptionEndsAt: &future,
	}
	app := featureGateApp(restaurant, entitlements.FeatureARModels)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/gated", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestRequireFeatureRejectsMissingFeature(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	restaurant := &models.Restaurant{
		ID:                 4,
		Plan:               &models.Plan{ID: 1, FeatureARModels: false},
		SubscriptionStatus: models.SubscriptionStatusActive,
		SubscriptionEndsAt: &future,
	}
	app := featureGateApp(restaurant, entitlements.FeatureARModels)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/gated", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "feature_not_entitled", payload["error"])
	assert.Equal(t, "ar_models", payload["feature"])
}

func TestRequireFeatureRejectsSuspendedTenant(t *testing.T) {
	restaurant := &models.Restaurant{
		ID:                 4,
		Plan:               &models.Plan{ID: 1, FeatureARModels: true},
		SubscriptionStatus: models.SubscriptionStatusSuspended,
	}
	app := featureGateApp(restaurant, entitlements.FeatureARModels)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/gated", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireFeatureWithoutTenant(t *testing.T) {
	app := featureGateApp(nil, entitlements.FeatureARModels)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/gated", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
