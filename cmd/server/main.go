package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/westbethel/motel-booking/internal/availability"
	"github.com/westbethel/motel-booking/internal/billing"
	"github.com/westbethel/motel-booking/internal/booking"
	"github.com/westbethel/motel-booking/internal/config"
	"github.com/westbethel/motel-booking/internal/database"
	"github.com/westbethel/motel-booking/internal/handler"
	"github.com/westbethel/motel-booking/internal/middleware"
	"github.com/westbethel/motel-booking/internal/pricing"
	"github.com/westbethel/motel-booking/internal/queue"
	"github.com/westbethel/motel-booking/internal/repository"
	"github.com/westbethel/motel-booking/internal/router"
	qp "github.com/westbethel/motel-booking/internal/service/queue_publisher"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient() // nil disables caching and rate limiting
	if rdb == nil {
		log.Println("redis unavailable; availability cache and rate limiting disabled")
	}

	// Repositories
	propertyRepo := repository.NewPropertyRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	ratePlanRepo := repository.NewRatePlanRepo(db)
	guestRepo := repository.NewGuestRepo(db)
	addonRepo := repository.NewAddOnRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	// Engines
	availCache := availability.NewCache(config.LoadAvailabilityCacheConfig(), rdb)
	availEngine := availability.NewEngine(propertyRepo, roomRepo, bookingRepo, availCache)
	pricer := pricing.NewEngine(propertyRepo, roomRepo, ratePlanRepo, addonRepo, pricing.ZeroTaxPolicy{})
	bookingEngine := booking.NewEngine(
		booking.Limits{MaxRoomsPerBooking: cfg.MaxRoomsPerBooking, MaxStayNights: cfg.MaxStayNights},
		propertyRepo, guestRepo, roomRepo, bookingRepo, invoiceRepo,
		pricer, availCache, qp.PublishBookingConfirmed,
	)
	gateway := billing.NewSimulatedGateway(cfg.GatewayDeclineCode)
	settlement := billing.NewSettlement(db, invoiceRepo, paymentRepo, bookingRepo, gateway)

	// Background consumer logging confirmed bookings to logs/booking.log
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAvailability(e, handler.NewAvailabilityHandler(availEngine),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterPricing(e, handler.NewPricingHandler(pricer))
	router.RegisterBookings(e, handler.NewBookingHandler(bookingEngine))
	router.RegisterPayments(e, handler.NewPaymentHandler(settlement))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
