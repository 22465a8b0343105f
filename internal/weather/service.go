package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultQueryTimeout bounds a single query when the caller's context has no deadline.
const DefaultQueryTimeout = 10 * time.Second

// Service orchestrates the provider calls behind a weather query.
type Service struct {
	provider Provider
	timeout  time.Duration
}

// NewService creates a new Service. A non-positive timeout selects DefaultQueryTimeout.
func NewService(provider Provider, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &Service{
		provider: provider,
		timeout:  timeout,
	}
}

// QueryByCity fetches current conditions, the aggregated forecast and, when
// available, air quality for a city name.
func (s *Service) QueryByCity(ctx context.Context, city string, units UnitSystem) (*Result, error) {
	return s.Query(ctx, CityQuery(city), units)
}

// QueryByCoordinates is QueryByCity for a coordinate pair. A nil coordinate
// makes the query a no-op.
func (s *Service) QueryByCoordinates(ctx context.Context, lat, lon *float64, units UnitSystem) (*Result, error) {
	return s.Query(ctx, Query{Lat: lat, Lon: lon}, units)
}

// Query runs Primary and then the dependent air quality lookup. An air
// quality failure leaves Bundle.AirQuality nil and is not returned.
func (s *Service) Query(ctx context.Context, q Query, units UnitSystem) (*Result, error) {
	res, err := s.Primary(ctx, q, units)
	if err != nil {
		return nil, err
	}

	if aq, err := s.AirQuality(ctx, res.Bundle.Location.Coordinates); err == nil {
		res.Bundle.AirQuality = aq
	} else {
		log.Printf("INFO: air quality skipped for %s: %v", q, err)
	}
	return res, nil
}

// Primary issues the current-conditions and forecast requests concurrently and
// aggregates the forecast. Either failure fails the whole call with a *QueryError.
func (s *Service) Primary(ctx context.Context, q Query, units UnitSystem) (*Result, error) {
	if !q.Valid() {
		return nil, ErrValidationSkip
	}
	if s.provider == nil {
		return nil, &QueryError{Mode: q.Mode(), Err: ErrNoProvider}
	}

	runID := uuid.NewString()
	log.Printf("DEBUG: query %s started for %s %q (%s)", runID, q.Mode(), q, units)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		current Current
		samples []RawSample
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.provider.Current(gctx, q, units)
		if err != nil {
			return fmt.Errorf("current conditions: %w", err)
		}
		current = c
		return nil
	})
	g.Go(func() error {
		list, err := s.provider.Forecast(gctx, q, units)
		if err != nil {
			return fmt.Errorf("forecast: %w", err)
		}
		samples = list
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("ERROR: query %s failed: %v", runID, err)
		return nil, &QueryError{Mode: q.Mode(), Err: err}
	}

	loc := current.Location
	if c, ok := q.Coordinates(); ok {
		loc.Coordinates = c
	}

	forecast := AggregateDaily(samples)
	log.Printf("DEBUG: query %s resolved %s with %d daily samples from %d raw", runID, loc.Key(), len(forecast), len(samples))

	return &Result{
		Bundle: Bundle{
			Location: loc,
			Current:  current.Sample,
		},
		Forecast: forecast,
	}, nil
}

// AirQuality returns the most current air pollution reading at c.
func (s *Service) AirQuality(ctx context.Context, c Coordinates) (*AirQuality, error) {
	if s.provider == nil {
		return nil, ErrNoProvider
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	list, err := s.provider.AirQuality(ctx, c)
	if err != nil {
		return nil, errors.Join(ErrAirQualityUnavailable, err)
	}
	if len(list) == 0 {
		return nil, ErrAirQualityUnavailable
	}

	first := list[0]
	if first.Components == nil {
		first.Components = map[string]float64{}
	}
	return &first, nil
}
