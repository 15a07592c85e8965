package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/natovichat/rent-management-app/api/internal/config"
	"github.com/natovichat/rent-management-app/api/internal/database"
	"github.com/natovichat/rent-management-app/api/internal/handlers"
	"github.com/natovichat/rent-management-app/api/internal/logger"
	"github.com/natovichat/rent-management-app/api/internal/middleware"
	"github.com/natovichat/rent-management-app/api/internal/repository"
	"github.com/natovichat/rent-management-app/api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 60 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env)
	log.Info("Starting rent management API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	if cfg.Database.AutoMigrate {
		applied, err := db.Migrate(ctx)
		if err != nil {
			log.Fatal("Failed to apply migrations", err, nil)
		}
		log.Info("Migrations applied", map[string]interface{}{"applied": applied})
	}

	router := newRouter(cfg, db, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}

// newRouter wires repositories, services and handlers onto a gin engine.
// Middleware order: RequestID -> Logger -> Recovery -> CORS -> RateLimit.
func newRouter(cfg *config.Config, db *database.Database, log *logger.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))
	router.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))

	propertyRepo := repository.NewPropertyRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	incomeRepo := repository.NewIncomeRepository(db)
	mortgageRepo := repository.NewMortgageRepository(db)
	valuationRepo := repository.NewValuationRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	leaseRepo := repository.NewLeaseRepository(db)
	ownerRepo := repository.NewOwnerRepository(db)

	financial := services.NewFinancialService(services.FinancialRepositories{
		Properties: propertyRepo,
		Expenses:   expenseRepo,
		Income:     incomeRepo,
		Valuations: valuationRepo,
		Mortgages:  mortgageRepo,
		Units:      unitRepo,
	}, log)
	owners := services.NewOwnerService(ownerRepo, propertyRepo, db, log)

	handlers.RegisterRoutes(router, handlers.Handlers{
		Health: handlers.NewHealthHandler(db, cfg.Server.Env),
		Properties: handlers.NewPropertyHandler(
			services.NewPropertyService(propertyRepo, db, log),
			financial,
		),
		Assets: handlers.NewAssetHandler(
			services.NewMortgageService(mortgageRepo, propertyRepo, db, log),
			services.NewValuationService(valuationRepo, propertyRepo, db, log),
			services.NewUnitService(unitRepo, propertyRepo, db, log),
			owners,
		),
		Expenses: handlers.NewExpenseHandler(
			services.NewExpenseService(expenseRepo, propertyRepo, db, log),
			services.NewImportService(expenseRepo, propertyRepo, db, log),
			cfg.Import.MaxBytes,
		),
		Income: handlers.NewIncomeHandler(services.NewIncomeService(incomeRepo, propertyRepo, db, log)),
		Leasing: handlers.NewLeasingHandler(
			services.NewTenantService(tenantRepo, log),
			services.NewLeaseService(leaseRepo, unitRepo, tenantRepo, db, log),
			owners,
		),
		Financial: handlers.NewFinancialHandler(financial),
	})

	return router
}
