package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const defaultConfigPath = "configs/config.yaml"

type AppConfig struct {
	OpenWeatherAPIKey  string `yaml:"openWeatherApiKey"`
	OpenWeatherBaseURL string `yaml:"openWeatherBaseUrl"`
	GeocoderAPIKey     string `yaml:"googleGeocoderApiKey"`

	HTTPTimeout  time.Duration `yaml:"httpTimeout"`
	QueryTimeout time.Duration `yaml:"queryTimeout"`

	// Provider quota; RateLimitRPS <= 0 disables limiting.
	RateLimitRPS   float64 `yaml:"rateLimitRps"`
	RateLimitBurst int     `yaml:"rateLimitBurst"`

	DefaultUnits weather.UnitSystem `yaml:"defaultUnits"`

	// RefreshInterval controls how often the displayed city is re-queried (0 = never).
	RefreshInterval time.Duration `yaml:"refreshInterval"`

	Store store.Options `yaml:"store"`

	// Home position used by "use my location" when the client sends none.
	HomeLat            *float64      `yaml:"homeLat"`
	HomeLon            *float64      `yaml:"homeLon"`
	GeolocationTimeout time.Duration `yaml:"geolocationTimeout"`

	Port string `yaml:"port"`
}

// Load reads configuration from .env, an optional YAML file and the
// environment, in increasing order of precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := defaults()

	path := getenvDefault("CONFIG_PATH", defaultConfigPath)
	if err := hydrateFromFile(cfg, path); err != nil {
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func defaults() *AppConfig {
	return &AppConfig{
		HTTPTimeout:        10 * time.Second,
		QueryTimeout:       weather.DefaultQueryTimeout,
		RateLimitRPS:       1.0, // free tier: 60 calls/minute
		RateLimitBurst:     5,
		DefaultUnits:       weather.Metric,
		RefreshInterval:    30 * time.Minute,
		Store:              store.Options{Kind: store.KindMemory, ValkeyPrefix: "weather"},
		GeolocationTimeout: 10 * time.Second,
		Port:               "8080",
	}
}

// hydrateFromFile overlays path onto cfg. A missing file is not an error.
func hydrateFromFile(cfg *AppConfig, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	cfg.OpenWeatherAPIKey = getenvDefault("OPENWEATHER_API_KEY", cfg.OpenWeatherAPIKey)
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", cfg.OpenWeatherBaseURL)
	cfg.GeocoderAPIKey = getenvDefault("GOOGLE_GEOCODER_API_KEY", cfg.GeocoderAPIKey)

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return err
	}
	if cfg.QueryTimeout, err = getenvDuration("QUERY_TIMEOUT", cfg.QueryTimeout); err != nil {
		return err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", cfg.RefreshInterval); err != nil {
		return err
	}
	if cfg.GeolocationTimeout, err = getenvDuration("GEOLOCATION_TIMEOUT", cfg.GeolocationTimeout); err != nil {
		return err
	}

	cfg.RateLimitRPS = getenvFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = getenvInt("RATE_LIMIT_BURST", cfg.RateLimitBurst)

	cfg.DefaultUnits = weather.UnitSystem(getenvDefault("DEFAULT_UNITS", string(cfg.DefaultUnits)))

	cfg.Store.Kind = getenvDefault("STORE_BACKEND", cfg.Store.Kind)
	cfg.Store.ValkeyAddr = getenvDefault("VALKEY_ADDR", cfg.Store.ValkeyAddr)
	cfg.Store.PostgresDSN = getenvDefault("POSTGRES_DSN", cfg.Store.PostgresDSN)

	if v, ok := lookupFloat("HOME_LAT"); ok {
		cfg.HomeLat = &v
	}
	if v, ok := lookupFloat("HOME_LON"); ok {
		cfg.HomeLon = &v
	}

	cfg.Port = getenvDefault("PORT", cfg.Port)
	return nil
}

// Validate checks cross-field constraints.
func (c *AppConfig) Validate() error {
	units, err := weather.ParseUnitSystem(string(c.DefaultUnits))
	if err != nil {
		return err
	}
	c.DefaultUnits = units

	switch c.Store.Kind {
	case store.KindMemory:
	case store.KindValkey:
		if c.Store.ValkeyAddr == "" {
			return fmt.Errorf("VALKEY_ADDR is required for the valkey store")
		}
	case store.KindPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Kind)
	}

	if (c.HomeLat == nil) != (c.HomeLon == nil) {
		return fmt.Errorf("HOME_LAT and HOME_LON must be set together")
	}
	if c.HomeLat != nil && (*c.HomeLat < -90 || *c.HomeLat > 90 || *c.HomeLon < -180 || *c.HomeLon > 180) {
		return fmt.Errorf("home position out of range")
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v, ok := lookupFloat(key); ok {
		return v
	}
	return def
}

func lookupFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
