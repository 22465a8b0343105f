package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Lookup implements weather.Geocoder using the OpenWeatherMap direct geocoding API.
func (p *OpenWeatherProvider) Lookup(ctx context.Context, text string, limit int) ([]weather.Suggestion, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("q", text)
	values.Set("limit", strconv.Itoa(limit))
	values.Set("appid", p.apiKey)

	var payload []struct {
		Name    string  `json:"name"`
		State   string  `json:"state"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}

	u := fmt.Sprintf("%s/geo/1.0/direct?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, fmt.Errorf("openweather geocoding: %w", err)
	}

	out := make([]weather.Suggestion, 0, len(payload))
	for _, c := range payload {
		out = append(out, weather.Suggestion{
			Name:        c.Name,
			State:       c.State,
			Country:     c.Country,
			Coordinates: weather.Coordinates{Lat: c.Lat, Lon: c.Lon},
			Display:     common.JoinNonEmpty(", ", c.Name, c.State, c.Country),
		})
	}
	return out, nil
}

// GoogleGeocoder implements weather.Geocoder on top of the Google Geocoding
// API. It resolves the text to a single point and reverse-geocodes that point
// to recover the city, state and country.
type GoogleGeocoder struct{}

// NewGoogleGeocoder configures the geocoder package with apiKey.
// The key is process-global in the underlying library.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

func (g *GoogleGeocoder) Lookup(ctx context.Context, text string, limit int) ([]weather.Suggestion, error) {
	type answer struct {
		out []weather.Suggestion
		err error
	}

	// The library has no context support; run it aside so ctx still bounds the wait.
	ch := make(chan answer, 1)
	go func() {
		out, err := g.lookup(text, limit)
		ch <- answer{out: out, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case a := <-ch:
		return a.out, a.err
	}
}

func (g *GoogleGeocoder) lookup(text string, limit int) ([]weather.Suggestion, error) {
	loc, err := geocoder.Geocoding(geocoder.Address{City: text})
	if err != nil {
		return nil, fmt.Errorf("google geocoding: %w", err)
	}

	addresses, err := geocoder.GeocodingReverse(loc)
	if err != nil {
		return nil, fmt.Errorf("google reverse geocoding: %w", err)
	}

	coords := weather.Coordinates{Lat: loc.Latitude, Lon: loc.Longitude}
	seen := make(map[string]bool)
	out := make([]weather.Suggestion, 0, limit)
	for _, a := range addresses {
		if a.City == "" {
			continue
		}
		display := common.JoinNonEmpty(", ", a.City, a.State, a.Country)
		if seen[display] {
			continue
		}
		seen[display] = true
		out = append(out, weather.Suggestion{
			Name:        a.City,
			State:       a.State,
			Country:     a.Country,
			Coordinates: coords,
			Display:     display,
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

var (
	_ weather.Geocoder = (*OpenWeatherProvider)(nil)
	_ weather.Geocoder = (*GoogleGeocoder)(nil)
)
