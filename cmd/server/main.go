/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll simulation server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env + environment)
  2. Parse command-line flags (override config)
  3. Build the zap logger
  4. Initialize SQLite store (unless persistence is disabled)
  5. Wire replayer, calculator, simulator and service
  6. Configure HTTP router and start server

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: APP_PORT, 8080)
  -db      SQLite database path (default: DB_PATH, payroll.db)
           Use ":memory:" for an in-memory database, "" to disable saving

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/payroll.db"

  # Simulate only, never save
  ./server -db=""

SEE ALSO:
  - config/config.go: Environment keys
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/config"
	"github.com/warp/payroll-engine/leave"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags
	port := flag.Int("port", cfg.App.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.Store.Path, "SQLite database path (empty disables saving)")
	flag.Parse()
	cfg.App.Port = *port
	cfg.Store.Path = *dbPath

	logger, err := newLogger(cfg.App)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Initialize store
	var store payroll.ResultStore
	if cfg.Store.Persistent() {
		s, err := sqlite.New(cfg.Store.Path)
		if err != nil {
			logger.Fatal("failed to initialize database", zap.String("path", cfg.Store.Path), zap.Error(err))
		}
		defer s.Close()
		store = s
	} else {
		logger.Info("persistence disabled, results will not be saved")
	}

	// Engine
	replayer := leave.NewReplayer(logger.Named("leave"))
	calculator := payroll.NewCalculator(cfg.Payroll.DayDivisor, logger.Named("payroll"))
	simulator := payroll.NewSimulator(replayer, calculator, cfg.Payroll.Workers, logger.Named("payroll"))
	service := payroll.NewService(simulator, store, logger.Named("payroll"))

	handler := api.NewHandler(replayer, calculator, service, logger.Named("api"))
	router := api.NewRouter(handler, cfg.App.AllowedOrigins)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			zap.Int("port", cfg.App.Port),
			zap.String("env", cfg.App.Env),
			zap.Bool("persistence", store != nil),
			zap.Int("workers", cfg.Payroll.Workers))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}

func newLogger(app config.AppConfig) (*zap.Logger, error) {
	level, err := app.Level()
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if app.IsDevelopment() {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
