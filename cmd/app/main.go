package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkuznetsov91/busbooking/api"
	"github.com/dkuznetsov91/busbooking/config"
	"github.com/dkuznetsov91/busbooking/internal/bootstrap"
	"github.com/dkuznetsov91/busbooking/internal/cache"
	"github.com/dkuznetsov91/busbooking/internal/kafka"
	"github.com/dkuznetsov91/busbooking/internal/policy"
	"github.com/dkuznetsov91/busbooking/internal/repository"
	"github.com/dkuznetsov91/busbooking/internal/service/booking"
	"github.com/dkuznetsov91/busbooking/internal/service/trips"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	policyCfg := cfg.Policy.Policy()
	if err := policyCfg.Validate(); err != nil {
		// The refund table stays authoritative; a divergent floor is
		// reported, not silently resolved.
		log.Printf("policy config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.TripsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	tripRepo := repository.NewTripRepository(pool)

	clock := policy.RealClock()
	bookingService := booking.NewBookingService(
		bookingRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		policyCfg,
		clock,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithSubmitLockTTL(time.Duration(cfg.Booking.SubmitLockTTLMinutes)*time.Minute),
	)
	tripService := trips.NewTripService(tripRepo, redisCache, clock)

	bookingHandler := api.NewBookingHandler(bookingService)
	tripHandler := api.NewTripHandler(tripService)

	if err := bootstrap.Run(ctx, cfg, bookingHandler, tripHandler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
