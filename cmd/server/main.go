package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/restaurant-table-reservation/internal/config"      // Internal config loader
	"github.com/iliyamo/restaurant-table-reservation/internal/database"    // MySQL connection pool
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"     // HTTP handlers
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"  // Rate limiting and response cache
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"       // Event consumer
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"  // DB repositories
	"github.com/iliyamo/restaurant-table-reservation/internal/reservation" // Lifecycle actions
	"github.com/iliyamo/restaurant-table-reservation/internal/router"      // Route registration
	"github.com/iliyamo/restaurant-table-reservation/internal/service"     // AMQP event sink
)

func main() {
	// Load .env if present; real deployments set variables directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load() // Load environment config

	// Open the MySQL pool.  All reservation actions run inside transactions
	// started from this handle.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis backs rate limiting and the response cache.  A nil client
	// disables both and the server degrades gracefully.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}

	// Wire the reservation action layer: transactional unit of work, UTC
	// clock, AMQP event sink and the order number source.
	actions := reservation.NewActions(
		repository.NewUnitOfWork(db),
		reservation.SystemClock{},
		service.NewAMQPEventSink(cfg.AMQPURL),
		repository.NewOrderNumbers(),
	)

	// Background consumer mirrors every domain event into logs/reservations.log.
	go func() {
		if err := queue.StartEventsConsumer(); err != nil {
			log.Printf("events consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance

	// Handlers.
	authH := handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db))
	resH := handler.NewReservationHandler(actions, repository.NewReservationRepo(db), repository.NewTableRepo(db))

	// Optional cross-cutting middleware for the reservation routes.
	var extra []echo.MiddlewareFunc
	if rdb != nil {
		rlCfg := config.LoadRateLimitConfig()
		if rlCfg.Enabled {
			extra = append(extra, middleware.NewTokenBucket(rlCfg, rdb))
		}
		cacheCfg := config.LoadCacheConfig()
		if cacheCfg.Enabled {
			extra = append(extra, middleware.NewRedisCache(cacheCfg, rdb))
		}
	}

	router.RegisterRoutes(e)                                      // Health check
	router.RegisterAuth(e, authH, cfg.JWTSecret)                  // Auth endpoints
	router.RegisterReservations(e, resH, cfg.JWTSecret, extra...) // Lifecycle and reads

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
