package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Karpenko88/carbooking/api"
	"github.com/Karpenko88/carbooking/config"
	"github.com/Karpenko88/carbooking/internal/mw"
	"github.com/Karpenko88/carbooking/internal/service/availability"
	"github.com/Karpenko88/carbooking/internal/service/booking"
	"github.com/Karpenko88/carbooking/internal/service/cars"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, carSvc cars.CarUseCase, availabilitySvc availability.AvailabilityUseCase, bookingSvc booking.BookingUseCase) error {
	router := newRouter(cfg, carSvc, availabilitySvc, bookingSvc)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, carSvc cars.CarUseCase, availabilitySvc availability.AvailabilityUseCase, bookingSvc booking.BookingUseCase) *gin.Engine {
	router := gin.Default()

	if cfg.HTTP.RateLimitRPS > 0 {
		router.Use(mw.RateLimit(rate.Limit(cfg.HTTP.RateLimitRPS), cfg.HTTP.RateLimitBurst))
	}

	carHandler := api.NewCarHandler(carSvc)
	carHandler.Register(router.Group("/cars"))

	availabilityHandler := api.NewAvailabilityHandler(availabilitySvc)
	availabilityGroup := router.Group("/")
	if cfg.Booking.CalendarCacheSeconds > 0 {
		ttl := time.Duration(cfg.Booking.CalendarCacheSeconds) * time.Second
		store := gocache.New(ttl, 2*ttl)
		availabilityGroup.Use(mw.CacheGET(store, ttl))
	}
	availabilityHandler.Register(availabilityGroup)

	reservationHandler := api.NewReservationHandler(bookingSvc)
	reservationHandler.Register(router.Group("/reservations"))

	maintenanceHandler := api.NewMaintenanceHandler(availabilitySvc)
	maintenanceHandler.Register(router.Group("/admin"))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/carbooking.swagger.json"),
		)))
	}

	return router
}
