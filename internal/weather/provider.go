package weather

import (
	"context"
	"fmt"
	"strings"
)

// QueryMode tells how a location was identified.
type QueryMode int

const (
	ModeCity QueryMode = iota
	ModeCoordinates
)

func (m QueryMode) String() string {
	if m == ModeCoordinates {
		return "coordinates"
	}
	return "city"
}

// Query identifies a location either by city name or by coordinates.
// Lat/Lon are pointers so that "absent" is distinguishable from 0.
type Query struct {
	City string
	Lat  *float64
	Lon  *float64
}

// CityQuery builds a name-based query.
func CityQuery(city string) Query {
	return Query{City: city}
}

// CoordinatesQuery builds a coordinate-based query.
func CoordinatesQuery(lat, lon float64) Query {
	return Query{Lat: &lat, Lon: &lon}
}

// Mode reports ModeCoordinates when either coordinate is set.
func (q Query) Mode() QueryMode {
	if q.Lat != nil || q.Lon != nil {
		return ModeCoordinates
	}
	return ModeCity
}

// Valid reports whether the query carries a usable identifier.
func (q Query) Valid() bool {
	if q.Mode() == ModeCoordinates {
		return q.Lat != nil && q.Lon != nil
	}
	return strings.TrimSpace(q.City) != ""
}

// Coordinates returns the coordinates of a coordinate query.
func (q Query) Coordinates() (Coordinates, bool) {
	if q.Lat == nil || q.Lon == nil {
		return Coordinates{}, false
	}
	return Coordinates{Lat: *q.Lat, Lon: *q.Lon}, true
}

func (q Query) String() string {
	if c, ok := q.Coordinates(); ok {
		return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
	}
	return strings.TrimSpace(q.City)
}

// Current is the provider's current-conditions answer.
type Current struct {
	Location Location
	Sample   RawSample
}

// Provider abstracts the weather data source (OpenWeatherMap).
type Provider interface {
	Name() string
	Current(ctx context.Context, q Query, units UnitSystem) (Current, error)
	Forecast(ctx context.Context, q Query, units UnitSystem) ([]RawSample, error)
	AirQuality(ctx context.Context, c Coordinates) ([]AirQuality, error)
}
