package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/menupilot/menupilot/app/controllers"
	"github.com/menupilot/menupilot/internal/pkg/cache"
	"github.com/menupilot/menupilot/internal/pkg/entitlements"
	"github.com/menupilot/menupilot/internal/pkg/env"
	"github.com/menupilot/menupilot/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    newLimiterStorage(),
	}))

	v1 := api.Group("/v1")

	// Public: no API key required.
	v1.Post("/auth/login", controllers.HandleLogin)
	v1.Get("/features/public/:slug", controllers.HandlePublicFeatures)
	// Gateway callback authenticates via payment signature, not API key.
	v1.Post("/payments/verify", controllers.HandleVerifyPayment)

	auth := v1.Group("", middleware.APIKeyAuthMiddleware(), middleware.RequireAuth)
	auth.Get("/features/check", controllers.HandleFeaturesCheck)

	// Tenant routes sit behind the subscription write gate.
	tenant := auth.Group("", middleware.RequireTenant, middleware.SubscriptionGuard())
	tenant.Get("/dishes", controllers.HandleListDishes)
	tenant.Post("/dishes", controllers.HandleCreateDish)
	tenant.Patch("/dishes/:id/activate", controllers.HandleActivateDish)
	tenant.Patch("/dishes/:id/deactivate", controllers.HandleDeactivateDish)
	tenant.Delete("/dishes/:id", controllers.HandleDeleteDish)
	tenant.Get("/staff", controllers.HandleListStaff)
	tenant.Post("/staff", controllers.HandleCreateStaff)
	tenant.Patch("/staff/:id/activate", controllers.HandleActivateStaff)
	tenant.Patch("/staff/:id/deactivate", controllers.HandleDeactivateStaff)
	tenant.Post("/ar-models/:id/retry",
		middleware.RequireFeature(controllers.EntitlementService(), entitlements.FeatureARModels),
		controllers.HandleRetryARModel)

	platform := auth.Group("/platform", middleware.RequireAdmin)
	platform.Get("/restaurants", controllers.HandleListRestaurants)
	platform.Post("/restaurants", controllers.HandleCreateRestaurant)
	platform.Patch("/assign-plan", controllers.HandleAssignPlan)
	platform.Patch("/extend-subscription/:id", controllers.HandleExtendSubscription)
	platform.Patch("/change-plan/:id", controllers.HandleChangePlan)
	platform.Patch("/suspend-restaurant/:id", controllers.HandleSuspendRestaurant)
	platform.Patch("/resume-restaurant/:id", controllers.HandleResumeRestaurant)
	platform.Patch("/update-restaurant-status/:id", controllers.HandleUpdateRestaurantStatus)
	platform.Get("/subscription-logs", controllers.HandleGetSubscriptionLogs)
	platform.Get("/plans", controllers.HandleListPlans)
	platform.Post("/plans", controllers.HandleCreatePlan)
	platform.Put("/plans/:id", controllers.HandleUpdatePlan)
	platform.Delete("/plans/:id", controllers.HandleDeletePlan)
}

// newLimiterStorage backs the rate limiter with Redis so limits hold
// across instances. Reuses the cache connection settings, database 1.
func newLimiterStorage() fiber.Storage {
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if client := cache.GetClient(); client != nil {
		addr := client.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := client.Options().Password; p != "" {
			password = p
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
