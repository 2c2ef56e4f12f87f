package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/database"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/router"
)

func main() {
	// A .env file is a convenience for local development; in
	// production the variables come from the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and response cache disabled")
	}

	restaurantRepo := repository.NewRestaurantRepo(db)
	tableRepo := repository.NewTableRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	availabilityH := handler.NewAvailabilityHandler(restaurantRepo, tableRepo, reservationRepo)
	bookingH := handler.NewBookingHandler(restaurantRepo, tableRepo, reservationRepo)
	ownerTableH := handler.NewOwnerTableHandler(restaurantRepo, tableRepo)
	ownerScheduleH := handler.NewOwnerScheduleHandler(restaurantRepo)
	ownerReservationH := handler.NewOwnerReservationHandler(restaurantRepo, tableRepo, reservationRepo)

	e := echo.New()
	e.HideBanner = true

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, availabilityH, bookingH, cacheMW, rateMW)
	router.RegisterOwner(e, ownerTableH, ownerScheduleH, ownerReservationH, cfg.JWTSecret)

	// The notification consumer runs for the lifetime of the process
	// and reconnects to the broker on its own.
	go queue.StartNotificationConsumer()

	if cfg.SweepEvery > 0 {
		go runCompletionSweep(reservationRepo, cfg.SweepEvery)
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// runCompletionSweep periodically marks confirmed reservations whose
// end time has passed as COMPLETED.  Completion is derived state and
// never blocks a request path, so a missed tick only delays it.
func runCompletionSweep(repo *repository.ReservationRepo, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := repo.CompletePast(ctx, time.Now())
		cancel()
		if err != nil {
			log.Printf("completion sweep: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("completion sweep: %d reservations completed", n)
		}
	}
}
