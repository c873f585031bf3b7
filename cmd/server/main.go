/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the debt payoff planner server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and load config
  2. Open the plan history store (SQLite or Postgres)
  3. Select the schedule cache (memory or Redis)
  4. Create planner, API handler and router
  5. Start the retention scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config file (default: embedded defaults)
  -port    HTTP server port, overrides config
  -db      Database DSN, overrides config
           Use ":memory:" for an in-memory SQLite database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the retention scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (shutdown_timeout)
  4. Close cache and database connections

EXAMPLES:
  ./server -config=./planner.yaml
  ./server -db=":memory:" -port=3000

SEE ALSO:
  - config/default-config.yaml: every setting with its default
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/warp/debt-planner/advisor"
	"github.com/warp/debt-planner/api"
	"github.com/warp/debt-planner/cache"
	"github.com/warp/debt-planner/config"
	"github.com/warp/debt-planner/debts"
	"github.com/warp/debt-planner/payoff"
	"github.com/warp/debt-planner/planner"
	"github.com/warp/debt-planner/store/sqlstore"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "YAML config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dsn := flag.String("db", "", "Database DSN (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dsn != "" {
		cfg.Store.DSN = *dsn
	}

	// Initialize store
	store, err := sqlstore.New(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize cache
	var scheduleCache cache.Cache
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		rc, err := cache.NewRedis(context.Background(), cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.Cache.TTL)
		if err != nil {
			log.Printf("Warning: Redis unavailable, falling back to memory cache: %v", err)
			scheduleCache = cache.NewMemory(cfg.Cache.TTL)
		} else {
			defer rc.Close()
			scheduleCache = rc
		}
	default:
		scheduleCache = cache.NewMemory(cfg.Cache.TTL)
	}

	// Planner and handler
	strategy, err := payoff.ParseStrategy(cfg.Planner.DefaultStrategy)
	if err != nil {
		log.Fatalf("Invalid planner.default_strategy: %v", err)
	}
	p := planner.New(debts.NewMemory())
	p.Cache = scheduleCache
	p.Runs = store
	p.Strategy = strategy

	handler := api.NewHandler(p, store)
	handler.Language = advisor.ParseLanguage(cfg.Planner.DefaultLanguage)
	if cfg.Planner.HistoryLimit > 0 {
		handler.HistoryLimit = cfg.Planner.HistoryLimit
	}

	router := api.NewRouter(handler, cfg.Server.CORSOrigins)

	// Retention
	scheduler := api.NewRetentionScheduler(store, cfg.Retention.KeepFor)
	scheduler.CheckInterval = cfg.Retention.CheckInterval
	scheduler.Enabled = cfg.Retention.Enabled
	scheduler.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d (store=%s, cache=%s, strategy=%s)",
			cfg.Server.Port, cfg.Store.Driver, cfg.Cache.Backend, strategy)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
