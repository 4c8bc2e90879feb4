package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/enigma-dining/reservation-backend/internal/config"
	"github.com/enigma-dining/reservation-backend/internal/database"
	"github.com/enigma-dining/reservation-backend/internal/handler"
	"github.com/enigma-dining/reservation-backend/internal/queue"
	"github.com/enigma-dining/reservation-backend/internal/repository"
	"github.com/enigma-dining/reservation-backend/internal/router"
	"github.com/enigma-dining/reservation-backend/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the availability cache and the public rate limiter.
	// A nil client just disables both middlewares.
	rdb := config.NewRedisClient()

	// Repositories
	staffRepo := repository.NewStaffRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	tableRepo := repository.NewTableRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	menuRepo := repository.NewMenuRepo(db)
	manageTokenRepo := repository.NewManageTokenRepo(db)

	availability := service.NewAvailabilityService(tableRepo, reservationRepo, cfg.SlotMinutes)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, staffRepo, tokenRepo)
	adminReservations := handler.NewAdminReservationHandler(cfg, reservationRepo, tableRepo, customerRepo, menuRepo, manageTokenRepo, availability)
	adminTables := handler.NewAdminTableHandler(tableRepo)
	adminCustomers := handler.NewAdminCustomerHandler(cfg, customerRepo, reservationRepo, manageTokenRepo)
	availabilityHandler := handler.NewAvailabilityHandler(availability)
	publicReservations := handler.NewPublicReservationHandler(cfg, reservationRepo, manageTokenRepo)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminReservations, adminTables, adminCustomers, cfg.JWTSecret)
	router.RegisterPublic(e, availabilityHandler, publicReservations,
		config.LoadCacheConfig(), config.LoadRateLimitConfig(), rdb)

	// The no-show consumer runs for the lifetime of the process and
	// reconnects on broker failures.
	marker := &queue.NoShowMarker{Reservations: reservationRepo, Tokens: manageTokenRepo}
	go func() {
		if err := queue.StartNoShowConsumer(marker); err != nil {
			log.Printf("noshow-consumer stopped: %v", err)
		}
	}()

	// Expired self-service tokens are kept for thirty days and purged in
	// the background after that.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			n, err := manageTokenRepo.PurgeExpired(ctx, time.Now().UTC().AddDate(0, 0, -30))
			cancel()
			if err != nil {
				log.Printf("token purge: %v", err)
			} else if n > 0 {
				log.Printf("token purge: removed %d tokens", n)
			}
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
