package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menupilot/menupilot/internal/pkg/quota"
	"github.com/menupilot/menupilot/internal/pkg/subscription"
)

func TestParseIDParam(t *testing.T) {
	app := fiber.New()
	app.Get("/things/:id", func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := []struct {
		path string
		want int
	}{
		{path: "/things/42", want: fiber.StatusOK},
		{path: "/things/0", want: fiber.StatusBadRequest},
		{path: "/things/-3", want: fiber.StatusBadRequest},
		{path: "/things/abc", want: fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tt.want, resp.StatusCode, tt.path)
	}
}

func errorStatus(t *testing.T, err error) (int, map[string]any) {
	t.Helper()

	app := fiber.New()
	app.Get("/fail", func(c *fiber.Ctx) error {
		return respondSubscriptionError(c, err)
	})

	resp, reqErr := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.NoError(t, reqErr)

	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	return resp.StatusCode, payload
}

func TestRespondSubscriptionErrorMapping(t *testing.T) {
	status, payload := errorStatus(t, subscription.ErrRestaurantNotFound)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "not_found", payload["error"])

	status, payload = errorStatus(t, subscription.ErrInvalidTransition)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid_transition", payload["error"])

	status, payload = errorStatus(t, subscription.ErrPaymentVerificationFailed)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "payment_verification_failed", payload["error"])
}

func TestRespondSubscriptionErrorDowngradeBlocked(t *testing.T) {
	err := &subscription.DowngradeBlockedError{Dimensions: []subscription.DimensionExcess{
		{Dimension: "max_dishes", Current: 8, Limit: 5},
		{Dimension: "max_staff", Current: 4, Limit: 2},
	}}

	status, payload := errorStatus(t, err)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "downgrade_blocked", payload["error"])

	dims, ok := payload["dimensions"].([]any)
	require.True(t, ok)
	assert.Len(t, dims, 2)
}

func TestRespondSubscriptionErrorLimitReached(t *testing.T) {
	err := &quota.LimitReachedError{Kind: quota.KindDish, Current: 5, Max: 5}

	status, payload := errorStatus(t, err)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "limit_reached", payload["error"])
	assert.Equal(t, "dish", payload["kind"])
	assert.EqualValues(t, 5, payload["current"])
	assert.EqualValues(t, 5, payload["max"])
}
