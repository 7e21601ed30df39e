// Entry point: loads configuration, opens and bootstraps the database,
// wires repositories into handlers and starts the HTTP server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iliyamo/study-group-scheduler/internal/config"
	"github.com/iliyamo/study-group-scheduler/internal/database"
	"github.com/iliyamo/study-group-scheduler/internal/handler"
	"github.com/iliyamo/study-group-scheduler/internal/logger"
	"github.com/iliyamo/study-group-scheduler/internal/metrics"
	"github.com/iliyamo/study-group-scheduler/internal/middleware"
	"github.com/iliyamo/study-group-scheduler/internal/repository"
	"github.com/iliyamo/study-group-scheduler/internal/router"
)

func main() {
	logger.SetupDefault(os.Stdout)
	log := slog.Default()

	cfg := config.Load()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Error("open database", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Bootstrap(context.Background(), db); err != nil {
		log.Error("bootstrap database", slog.Any("err", err))
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	groups := repository.NewGroupRepo(db)
	locations := repository.NewLocationRepo(db)
	attendees := repository.NewAttendeeRepo(db)
	h := handler.NewGroupHandler(groups, locations, attendees, collector, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Metrics(collector))
	router.RegisterRoutes(e, h, registry)

	addr := ":" + cfg.Port
	log.Info("listening", slog.String("addr", addr), slog.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Error("server stopped", slog.Any("err", err))
		os.Exit(1)
	}
}
