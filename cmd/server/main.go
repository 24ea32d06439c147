package main

import (
	"alcyxob/golf-coach/internal/api"
	"alcyxob/golf-coach/internal/config"
	"alcyxob/golf-coach/internal/planner"
	"alcyxob/golf-coach/internal/repository/mongo"
	"alcyxob/golf-coach/internal/scheduler"
	"alcyxob/golf-coach/internal/service"
	"alcyxob/golf-coach/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title Golf Coach API
// @version 1.0
// @description API for coaches and players: annual training plans, daily sessions and the session library.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Golf Coach Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	repos := service.PlanRepositories{
		Users:       mongo.NewMongoUserRepository(appDB),
		Players:     mongo.NewMongoPlayerRepository(appDB),
		Plans:       mongo.NewMongoAnnualPlanRepository(appDB),
		Weeks:       mongo.NewMongoPeriodizationRepository(appDB),
		Tournaments: mongo.NewMongoTournamentRepository(appDB),
		Assignments: mongo.NewMongoDailyAssignmentRepository(appDB),
	}
	templateRepo := mongo.NewMongoSessionTemplateRepository(appDB)
	exportRepo := mongo.NewMongoExportRepository(appDB)
	tx := mongo.NewMongoTransactor(dbClient, cfg.Database.Transactions)
	if !cfg.Database.Transactions {
		log.Println("WARN: MongoDB transactions disabled; plan generation is not atomic.")
	}

	// --- Planner ---
	selector := planner.NewSelector(templateRepo, repos.Assignments, cfg.Planner.HistoryDays)
	generator := planner.NewGenerator(selector)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	planService := service.NewPlanService(repos, tx, planner.DefaultCatalog(), generator, service.PlanDefaults{
		ScoringAverage: cfg.Planner.DefaultScoringAverage,
		ClubSpeed:      cfg.Planner.DefaultClubSpeed,
	})
	services := api.Services{
		Auth:             service.NewAuthService(repos.Users, cfg.JWT.Secret, cfg.JWT.Expiration),
		Coach:            service.NewCoachService(repos.Users, repos.Players, repos.Plans),
		Plan:             planService,
		Adjustment:       service.NewAdjustmentService(repos.Users, repos.Plans, repos.Assignments, tx),
		SessionTemplates: service.NewSessionTemplateService(templateRepo),
		Export:           service.NewExportService(repos, exportRepo, fileStorage, cfg.Export.URLExpiry),
	}

	// --- Background Jobs ---
	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs = scheduler.New(planService, cfg.Scheduler.PlanRolloverSpec)
		if err := jobs.Start(); err != nil {
			log.Fatalf("FATAL: Could not start scheduler: %v", err)
		}
	}

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, services)

	// --- Start HTTP Server ---
	// WriteTimeout leaves room for plan generation, which writes a full year of assignments.
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if jobs != nil {
		jobs.Stop()
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
