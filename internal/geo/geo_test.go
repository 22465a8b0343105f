package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestAcquireSuccess(t *testing.T) {
	lat, lon := 40.4, -3.7
	c, err := Acquire(context.Background(), NewStaticLocator(&lat, &lon), time.Second)
	require.NoError(t, err)
	require.Equal(t, weather.Coordinates{Lat: 40.4, Lon: -3.7}, c)
}

func TestAcquireUnconfigured(t *testing.T) {
	_, err := Acquire(context.Background(), NewStaticLocator(nil, nil), time.Second)
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = Acquire(context.Background(), nil, time.Second)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestAcquireTimeout(t *testing.T) {
	slow := LocatorFunc(func(ctx context.Context) (weather.Coordinates, error) {
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		return weather.Coordinates{Lat: 1}, nil
	})

	_, err := Acquire(context.Background(), slow, 20*time.Millisecond)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestAcquireErrorMapping(t *testing.T) {
	denied := LocatorFunc(func(context.Context) (weather.Coordinates, error) {
		return weather.Coordinates{}, ErrDenied
	})
	_, err := Acquire(context.Background(), denied, time.Second)
	require.ErrorIs(t, err, ErrDenied)
	require.Equal(t, "Could not get your location. Check the browser permissions.", Message(err))

	broken := LocatorFunc(func(context.Context) (weather.Coordinates, error) {
		return weather.Coordinates{}, errors.New("gps offline")
	})
	_, err = Acquire(context.Background(), broken, time.Second)
	require.ErrorIs(t, err, ErrUnavailable)
	require.Equal(t, "Your location is not available right now.", Message(err))
}
