package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultTimeout bounds a single geolocation attempt.
const DefaultTimeout = 10 * time.Second

var (
	// ErrDenied means the user or platform refused to share a position.
	ErrDenied = errors.New("geolocation permission denied")
	// ErrUnavailable means no position could be obtained in time.
	ErrUnavailable = errors.New("geolocation unavailable")
)

// Locator obtains the current position.
type Locator interface {
	Locate(ctx context.Context) (weather.Coordinates, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (weather.Coordinates, error)

func (f LocatorFunc) Locate(ctx context.Context) (weather.Coordinates, error) { return f(ctx) }

// Acquire makes one attempt to locate, waiting at most timeout. The returned
// error always matches either ErrDenied or ErrUnavailable.
func Acquire(ctx context.Context, l Locator, timeout time.Duration) (weather.Coordinates, error) {
	if l == nil {
		return weather.Coordinates{}, ErrUnavailable
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type answer struct {
		c   weather.Coordinates
		err error
	}
	ch := make(chan answer, 1)
	go func() {
		c, err := l.Locate(ctx)
		ch <- answer{c: c, err: err}
	}()

	select {
	case <-ctx.Done():
		return weather.Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	case a := <-ch:
		switch {
		case a.err == nil:
			return a.c, nil
		case errors.Is(a.err, ErrDenied), errors.Is(a.err, ErrUnavailable):
			return weather.Coordinates{}, a.err
		default:
			return weather.Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, a.err)
		}
	}
}

// StaticLocator always reports a configured position.
type StaticLocator struct {
	coords *weather.Coordinates
}

// NewStaticLocator returns a locator for lat/lon. When either is nil the
// locator reports ErrUnavailable.
func NewStaticLocator(lat, lon *float64) *StaticLocator {
	if lat == nil || lon == nil {
		return &StaticLocator{}
	}
	return &StaticLocator{coords: &weather.Coordinates{Lat: *lat, Lon: *lon}}
}

func (s *StaticLocator) Locate(context.Context) (weather.Coordinates, error) {
	if s.coords == nil {
		return weather.Coordinates{}, fmt.Errorf("%w: no home position configured", ErrUnavailable)
	}
	return *s.coords, nil
}

// Message is the user-facing text for a geolocation failure.
func Message(err error) string {
	if errors.Is(err, ErrDenied) {
		return "Could not get your location. Check the browser permissions."
	}
	return "Your location is not available right now."
}
