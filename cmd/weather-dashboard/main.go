package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/favorites"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration (.env, optional YAML file, environment).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.OpenWeatherAPIKey == "" {
		log.Println("INFO: OPENWEATHER_API_KEY is not set; every weather query will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// OpenWeatherMap behind a circuit breaker, optionally rate limited.
	owm := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL)
	var provider weather.Provider = owm
	if cfg.RateLimitRPS > 0 {
		provider = providers.NewRateLimitedProvider(owm, cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	log.Printf("INFO: using weather provider %s", provider.Name())

	service := weather.NewService(provider, cfg.QueryTimeout)

	var geocoder weather.Geocoder = owm
	if cfg.GeocoderAPIKey != "" {
		geocoder = providers.NewGoogleGeocoder(cfg.GeocoderAPIKey)
		log.Println("INFO: using Google geocoder for suggestions")
	}

	// Favorites and last city persistence.
	kv, err := store.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.Store.Kind, err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Printf("error closing store: %v", err)
		}
	}()

	dash := dashboard.New(service, favorites.NewStore(kv), favorites.NewLastCity(kv), dashboard.Options{
		Units:      cfg.DefaultUnits,
		Locator:    geo.NewStaticLocator(cfg.HomeLat, cfg.HomeLon),
		GeoTimeout: cfg.GeolocationTimeout,
	})
	defer dash.Close()

	if err := dash.Start(ctx); err != nil {
		log.Printf("INFO: restoring last city failed: %v", err)
	}

	// Periodic refresh of the displayed city.
	sched := scheduler.New(dash, cfg.RefreshInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.QueryTimeout + 5*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "weather-dashboard",
			"provider": provider.Name(),
			"store":    cfg.Store.Kind,
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Service:   service,
		Geocoder:  geocoder,
		Dashboard: dash,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
