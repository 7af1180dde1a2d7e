package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Karpenko88/carbooking/config"
	"github.com/Karpenko88/carbooking/internal/bootstrap"
	"github.com/Karpenko88/carbooking/internal/cache"
	"github.com/Karpenko88/carbooking/internal/kafka"
	"github.com/Karpenko88/carbooking/internal/repository"
	"github.com/Karpenko88/carbooking/internal/service/availability"
	"github.com/Karpenko88/carbooking/internal/service/booking"
	"github.com/Karpenko88/carbooking/internal/service/cars"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Booking.CarsCacheTTLSeconds)*time.Second,
		time.Duration(cfg.Booking.OccupancyTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	carRepo := repository.NewCarRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	maintenanceRepo := repository.NewMaintenanceRepository(pool)

	carService := cars.NewCarService(carRepo, redisCache)
	availabilityService := availability.NewAvailabilityService(reservationRepo, maintenanceRepo, redisCache)
	bookingService := booking.NewBookingService(
		reservationRepo,
		availabilityService,
		redisCache,
		producer,
		cfg.Kafka.ReservationsTopic,
		time.Duration(cfg.Booking.PendingTTLMinutes)*time.Minute,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, carService, availabilityService, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
