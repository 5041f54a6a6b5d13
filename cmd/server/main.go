package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/topmart/Investment-Engine-Backend/internal/api"
	custommiddleware "github.com/topmart/Investment-Engine-Backend/internal/api/middleware"
	"github.com/topmart/Investment-Engine-Backend/internal/config"
	"github.com/topmart/Investment-Engine-Backend/internal/database"
	"github.com/topmart/Investment-Engine-Backend/internal/notify"
	"github.com/topmart/Investment-Engine-Backend/internal/repository"
	"github.com/topmart/Investment-Engine-Backend/internal/scheduler"
	"github.com/topmart/Investment-Engine-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	planRepo := repository.NewPlanRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	// Notifications go out by mail when SMTP is configured, otherwise to the log.
	var notifier service.Notifier = notify.LogNotifier{}
	if cfg.SMTP.Host != "" {
		notifier = notify.NewSMTPNotifier(cfg.SMTP, accountRepo.GetEmailOnUserID)
	}

	// Create services
	systemService := service.NewSystemService(db)
	planService := service.NewPlanService(planRepo)
	lifecycleService := service.NewLifecycleService(
		investmentRepo,
		planRepo,
		notifier,
		time.Now,
	)
	sweepService := service.NewSweepService(
		investmentRepo,
		alertRepo,
		accountRepo,
		notifier,
		time.Now,
		cfg.Scheduler.WorkerLimit,
		cfg.Scheduler.ItemTimeout,
	)

	// Start the background sweep scheduler
	sched := scheduler.New(sweepService, cfg.Scheduler)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	triggerAuth, err := custommiddleware.NewTriggerAuth(cfg.Trigger.FernetKey, cfg.Trigger.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to configure sweep trigger auth: %v", err)
	}

	// Create router
	router := api.NewRouter(systemService, planService, lifecycleService, sweepService, triggerAuth, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	sched.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
