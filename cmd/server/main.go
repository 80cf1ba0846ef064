package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/arnold/taskboard-api/internal/access"
	"github.com/arnold/taskboard-api/internal/config"
	"github.com/arnold/taskboard-api/internal/database"
	"github.com/arnold/taskboard-api/internal/handlers"
	"github.com/arnold/taskboard-api/internal/hierarchy"
	"github.com/arnold/taskboard-api/internal/logging"
	"github.com/arnold/taskboard-api/internal/repository"
	"github.com/arnold/taskboard-api/internal/routes"
)

func main() {
	cfg, err := config.Load(".env", ".env.local")
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to build logger")
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}
	log.Info("Database connected and migrated")

	store := database.NewStore(db, log)
	repos := repository.NewSet(store, log, cfg.DefaultColumns)
	h := handlers.New(store, repos, access.New(store, hierarchy.New()), log, cfg.RequestTimeout)

	app := fiber.New(fiber.Config{
		AppName: "taskboard-api",
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
		Output: log.Writer(),
	}))
	app.Use(cors.New())

	if cfg.Metrics.Enabled {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}
	routes.Setup(app, h, cfg.JWTSecret)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("Server stopped")
		}
	}()
	log.WithField("port", cfg.Port).Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	if err := app.ShutdownWithTimeout(cfg.RequestTimeout); err != nil {
		log.WithError(err).Error("Server shutdown")
	}
	if err := database.Close(db); err != nil {
		log.WithError(err).Error("Close database")
	}
}
