package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Karpenko88/carbooking/config"
	"github.com/Karpenko88/carbooking/internal/cache"
	"github.com/Karpenko88/carbooking/internal/email"
	"github.com/Karpenko88/carbooking/internal/kafka"
	"github.com/Karpenko88/carbooking/internal/repository"
	"github.com/Karpenko88/carbooking/internal/service/availability"
	"github.com/Karpenko88/carbooking/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Booking.CarsCacheTTLSeconds)*time.Second,
		time.Duration(cfg.Booking.OccupancyTTLSeconds)*time.Second)

	reservationRepo := repository.NewReservationRepository(pool)
	maintenanceRepo := repository.NewMaintenanceRepository(pool)
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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.ReservationEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	expireTicker := time.NewTicker(time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute)
	defer expireTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-expireTicker.C:
			expired, err := bookingService.ExpirePendingReservations(ctx)
			if err != nil {
				log.Printf("expire reservations error: %v", err)
				continue
			}
			if len(expired) > 0 {
				log.Printf("cancelled %d overdue pending reservations", len(expired))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
