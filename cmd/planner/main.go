package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"floorplanner/internal/common/config"
	"floorplanner/internal/common/middleware"
	"floorplanner/internal/planner/editor"
	"floorplanner/internal/planner/handlers"
	"floorplanner/internal/planner/metrics"
	"floorplanner/internal/planner/service"
	"floorplanner/internal/planner/store"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Planner Service
// ============================================================

func main() {
	cfg := config.Load()

	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := store.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Fatalf("init db: %v", err)
	}

	plans := service.NewPlans(repo, cfg.GridSpacing)
	sessions := service.NewSessionManager()
	ed := editor.New(editor.Defaults{
		WallThickness: cfg.WallThickness,
		DoorWidth:     cfg.DoorWidth,
	})
	plannerHandler := handlers.NewPlannerHandler(plans, sessions, ed, metrics.New())

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Planner Service",
		// id плана и токены сессий хранятся после ответа
		Immutable: true,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("PLANNER"))
	if cfg.EnableCORS {
		app.Use(middleware.CORS())
	}

	// ============================================================
	// Routes
	// ============================================================

	handlers.Register(app, plannerHandler)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Planner Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
