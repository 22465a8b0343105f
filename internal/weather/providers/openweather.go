package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultOpenWeatherBaseURL is the public OpenWeatherMap API host.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org"

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider creates a provider. An empty baseURL selects DefaultOpenWeatherBaseURL.
func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{Client: client},
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// owmSample is the shape shared by /weather and each /forecast list entry.
type owmSample struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

func (s owmSample) toRaw() weather.RawSample {
	raw := weather.RawSample{
		Timestamp:   s.Dt,
		Temperature: s.Main.Temp,
		FeelsLike:   s.Main.FeelsLike,
		Humidity:    s.Main.Humidity,
		WindSpeed:   s.Wind.Speed,
		Condition:   weather.ConditionUnknown,
	}
	if len(s.Weather) > 0 {
		raw.Description = s.Weather[0].Description
		raw.Icon = s.Weather[0].Icon
		raw.Condition = weather.ClassifyCondition(s.Weather[0].Main, s.Weather[0].Description)
	}
	return raw
}

type owmCoord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p *OpenWeatherProvider) Current(ctx context.Context, q weather.Query, units weather.UnitSystem) (weather.Current, error) {
	var payload struct {
		owmSample
		Name  string   `json:"name"`
		Coord owmCoord `json:"coord"`
		Sys   struct {
			Country string `json:"country"`
		} `json:"sys"`
	}

	u, err := p.endpoint("/data/2.5/weather", q, units)
	if err != nil {
		return weather.Current{}, err
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.Current{}, fmt.Errorf("openweather current: %w", err)
	}

	return weather.Current{
		Location: weather.Location{
			Name:        payload.Name,
			Country:     payload.Sys.Country,
			Coordinates: weather.Coordinates{Lat: payload.Coord.Lat, Lon: payload.Coord.Lon},
		},
		Sample: payload.owmSample.toRaw(),
	}, nil
}

func (p *OpenWeatherProvider) Forecast(ctx context.Context, q weather.Query, units weather.UnitSystem) ([]weather.RawSample, error) {
	var payload struct {
		List []owmSample `json:"list"`
	}

	u, err := p.endpoint("/data/2.5/forecast", q, units)
	if err != nil {
		return nil, err
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, fmt.Errorf("openweather forecast: %w", err)
	}

	samples := make([]weather.RawSample, 0, len(payload.List))
	for _, item := range payload.List {
		samples = append(samples, item.toRaw())
	}
	return samples, nil
}

func (p *OpenWeatherProvider) AirQuality(ctx context.Context, c weather.Coordinates) ([]weather.AirQuality, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("lat", formatCoord(c.Lat))
	values.Set("lon", formatCoord(c.Lon))
	values.Set("appid", p.apiKey)

	var payload struct {
		List []struct {
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
			Components map[string]float64 `json:"components"`
		} `json:"list"`
	}

	u := fmt.Sprintf("%s/data/2.5/air_pollution?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, fmt.Errorf("openweather air pollution: %w", err)
	}

	out := make([]weather.AirQuality, 0, len(payload.List))
	for _, item := range payload.List {
		out = append(out, weather.AirQuality{
			Index:      item.Main.AQI,
			Components: item.Components,
		})
	}
	return out, nil
}

func (p *OpenWeatherProvider) endpoint(path string, q weather.Query, units weather.UnitSystem) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", string(units))

	if c, ok := q.Coordinates(); ok {
		values.Set("lat", formatCoord(c.Lat))
		values.Set("lon", formatCoord(c.Lon))
	} else {
		values.Set("q", q.String())
	}

	return fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode()), nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var _ weather.Provider = (*OpenWeatherProvider)(nil)
