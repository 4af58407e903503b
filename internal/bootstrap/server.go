package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/dkuznetsov91/busbooking/api"
	"github.com/dkuznetsov91/busbooking/config"
	"github.com/dkuznetsov91/busbooking/internal/mw"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"
)

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, bookingHandler *api.BookingHandler, tripHandler *api.TripHandler) error {
	router := newRouter(cfg, bookingHandler, tripHandler)

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
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func newRouter(cfg *config.Config, bookingHandler *api.BookingHandler, tripHandler *api.TripHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	if cfg.HTTP.RateLimitRPS > 0 {
		router.Use(mw.RateLimit(rate.Limit(cfg.HTTP.RateLimitRPS), cfg.HTTP.RateLimitBurst))
	}

	v1 := router.Group("/api/v1")

	bookings := v1.Group("/bookings")
	if ttl := cfg.HTTP.CacheTTLSeconds; ttl > 0 {
		duration := time.Duration(ttl) * time.Second
		store := gocache.New(duration, 2*duration)
		bookings.Use(mw.CacheGET(store, duration))
	}
	bookingHandler.Register(bookings)
	bookingHandler.RegisterOperator(v1.Group("/cancellations"))
	tripHandler.Register(v1.Group("/trips"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	return router
}
