package providers

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// RateLimitedProvider wraps a weather.Provider with a token bucket shared by
// every call kind, matching the provider's per-key request quota.
type RateLimitedProvider struct {
	provider weather.Provider
	limiter  *rate.Limiter
	name     string
}

// NewRateLimitedProvider allows rps requests per second with the given burst.
func NewRateLimitedProvider(provider weather.Provider, rps float64, burst int) *RateLimitedProvider {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.name
}

func (r *RateLimitedProvider) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return nil
}

func (r *RateLimitedProvider) Current(ctx context.Context, q weather.Query, units weather.UnitSystem) (weather.Current, error) {
	if err := r.wait(ctx); err != nil {
		return weather.Current{}, err
	}
	return r.provider.Current(ctx, q, units)
}

func (r *RateLimitedProvider) Forecast(ctx context.Context, q weather.Query, units weather.UnitSystem) ([]weather.RawSample, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.provider.Forecast(ctx, q, units)
}

func (r *RateLimitedProvider) AirQuality(ctx context.Context, c weather.Coordinates) ([]weather.AirQuality, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.provider.AirQuality(ctx, c)
}

var _ weather.Provider = (*RateLimitedProvider)(nil)
