package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/menupilot/menupilot/app/controllers"
	"github.com/menupilot/menupilot/app/repository"
	"github.com/menupilot/menupilot/internal/pkg/apidocs"
	"github.com/menupilot/menupilot/internal/pkg/cache"
	"github.com/menupilot/menupilot/internal/pkg/database"
	"github.com/menupilot/menupilot/internal/pkg/env"
	"github.com/menupilot/menupilot/internal/pkg/lifecycle"
	"github.com/menupilot/menupilot/internal/pkg/router"
)

func main() {
	app, scheduler := NewApplication()
	scheduler.Start()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		scheduler.Stop()
		_ = app.Shutdown()
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() (*fiber.App, *lifecycle.Scheduler) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	app := fiber.New(fiber.Config{
		AppName: "MenuPilot",
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	// SWAGGER / OPENAPI
	if err := apidocs.Validate(apidocs.DefaultSpecPath); err != nil {
		log.Printf("openapi document check failed: %v", err)
	}
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	scheduler := lifecycle.NewSchedulerFromEnv(controllers.SubscriptionService())

	return app, scheduler
}
