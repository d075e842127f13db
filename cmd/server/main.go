// Package main is the entry point for the RCU configuration sync server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/meokisama/toolkit-engine-sub005/internal/api"
	"github.com/meokisama/toolkit-engine-sub005/internal/config"
	"github.com/meokisama/toolkit-engine-sub005/internal/database"
	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
	"github.com/meokisama/toolkit-engine-sub005/internal/database/repositories"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/dali"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/export"
	importservice "github.com/meokisama/toolkit-engine-sub005/internal/services/import"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/progress"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/send"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/transfer"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	printBanner(cfg)

	db, err := database.Connect(database.Config{
		URL:         cfg.DatabaseURL,
		MaxIdleConn: 5,
		MaxOpenConn: 10,
		Debug:       cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close() }()

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migrations complete")

	// Repositories
	projectRepo := repositories.NewProjectRepository(db)
	unitRepo := repositories.NewUnitRepository(db)
	lightingRepo := repositories.NewLightingRepository(db)
	airconRepo := repositories.NewAirconRepository(db)
	dmxRepo := repositories.NewDmxRepository(db)
	curtainRepo := repositories.NewCurtainRepository(db)
	knxRepo := repositories.NewKnxRepository(db)
	sceneRepo := repositories.NewSceneRepository(db)
	scheduleRepo := repositories.NewScheduleRepository(db)
	multiSceneRepo := repositories.NewMultiSceneRepository(db)
	sequenceRepo := repositories.NewSequenceRepository(db)
	daliRepo := repositories.NewDaliRepository(db)

	// Controller client and services
	client := controller.New(controller.Config{
		Port:        cfg.ControllerPort,
		DialTimeout: cfg.ControllerDialTimeout,
	})

	transferService := transfer.NewService(
		client,
		lightingRepo, airconRepo, curtainRepo, knxRepo,
		sceneRepo, scheduleRepo, multiSceneRepo, sequenceRepo,
		cfg.PacingDelay,
	)
	sendService := send.NewService(
		client,
		lightingRepo, curtainRepo, knxRepo,
		sceneRepo, scheduleRepo, multiSceneRepo, sequenceRepo,
	)
	daliService := dali.NewService(client, daliRepo, dali.NewFileScanCache(cfg.ScanCacheDir), cfg.PacingDelay)
	exportService := export.NewService(
		projectRepo, unitRepo,
		lightingRepo, airconRepo, dmxRepo, curtainRepo, knxRepo,
		sceneRepo, scheduleRepo, multiSceneRepo, sequenceRepo,
	)
	importService := importservice.NewService(db)
	feed := progress.New()

	// Router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin, "http://localhost:3000", "http://localhost:4000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		Debug:            cfg.IsDevelopment(),
	})
	router.Use(corsMiddleware.Handler)

	router.Get("/health", healthCheckHandler)
	apiServer := api.NewServer(client, transferService, sendService, daliService, exportService, importService, feed)
	router.Mount("/", apiServer.Routes())

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on http://localhost:%s\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// healthCheckHandler returns the server health status.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := fmt.Sprintf(`{
  "status": "ok",
  "timestamp": "%s",
  "version": "%s"
}`, time.Now().UTC().Format(time.RFC3339), Version)

	_, _ = w.Write([]byte(response))
}

// printBanner prints the startup banner.
func printBanner(cfg *config.Config) {
	fmt.Println("============================================")
	fmt.Println("  RCU Configuration Sync Server")
	fmt.Printf("  Version: %s\n", Version)
	fmt.Printf("  Build:   %s\n", BuildTime)
	fmt.Printf("  Commit:  %s\n", GitCommit)
	fmt.Println("============================================")
	fmt.Printf("  Environment: %s\n", cfg.Env)
	fmt.Printf("  Port:        %s\n", cfg.Port)
	fmt.Printf("  Database:    %s\n", cfg.DatabaseURL)
	fmt.Printf("  Controller:  tcp/%d (pacing %s)\n", cfg.ControllerPort, cfg.PacingDelay)
	fmt.Println("============================================")
}
