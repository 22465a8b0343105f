package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/favorites"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// fakeProvider knows a single city, Paris.
type fakeProvider struct{}

func (fakeProvider) Name() string { return "fake" }

func (fakeProvider) Current(_ context.Context, q weather.Query, _ weather.UnitSystem) (weather.Current, error) {
	if q.Mode() == weather.ModeCity && !strings.HasPrefix(q.City, "Paris") {
		return weather.Current{}, errors.New("city not found")
	}
	return weather.Current{
		Location: weather.Location{Name: "Paris", Country: "FR", Coordinates: weather.Coordinates{Lat: 48.85, Lon: 2.35}},
		Sample:   weather.RawSample{Timestamp: 1719835200, Temperature: 21, Icon: "01d"},
	}, nil
}

func (fakeProvider) Forecast(context.Context, weather.Query, weather.UnitSystem) ([]weather.RawSample, error) {
	day := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	var out []weather.RawSample
	for i := 0; i < 8; i++ {
		out = append(out, weather.RawSample{Timestamp: day.AddDate(0, 0, i).Unix(), Temperature: float64(20 + i)})
	}
	return out, nil
}

func (fakeProvider) AirQuality(context.Context, weather.Coordinates) ([]weather.AirQuality, error) {
	return []weather.AirQuality{{Index: 2, Components: map[string]float64{"pm10": 12}}}, nil
}

type fakeGeocoder struct{}

func (fakeGeocoder) Lookup(_ context.Context, text string, limit int) ([]weather.Suggestion, error) {
	return []weather.Suggestion{{Name: text, Country: "FR", Display: text + ", FR"}}, nil
}

func newTestApp(t *testing.T, locator geo.Locator) (*fiber.App, *dashboard.Dashboard) {
	t.Helper()

	svc := weather.NewService(fakeProvider{}, time.Second)
	kv := store.NewMemoryStore()
	d := dashboard.New(svc, favorites.NewStore(kv), favorites.NewLastCity(kv), dashboard.Options{
		Units:   weather.Metric,
		Locator: locator,
	})
	t.Cleanup(d.Close)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, Deps{Service: svc, Geocoder: fakeGeocoder{}, Dashboard: d})
	return app, d
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("invalid json %q: %v", raw, err)
		}
	}
	return resp, out
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, resp.StatusCode)
	}
}

func TestWeatherQueryValidation(t *testing.T) {
	app, _ := newTestApp(t, nil)

	for _, target := range []string{
		"/api/v1/weather?city=Paris&units=kelvin",
		"/api/v1/weather?lat=abc&lon=2",
		"/api/v1/weather?lat=91&lon=2",
		"/api/v1/weather?lat=10&lon=-181",
	} {
		resp, body := do(t, app, http.MethodGet, target, "")
		expectStatus(t, resp, http.StatusBadRequest)
		if body["error"] != true {
			t.Fatalf("%s: expected error body, got %v", target, body)
		}
	}
}

func TestWeatherQuerySkip(t *testing.T) {
	app, _ := newTestApp(t, nil)

	for _, target := range []string{
		"/api/v1/weather",
		"/api/v1/weather?city=%20%20",
		"/api/v1/weather?lat=10",
	} {
		resp, _ := do(t, app, http.MethodGet, target, "")
		expectStatus(t, resp, http.StatusNoContent)
	}
}

func TestWeatherQueryByCity(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp, body := do(t, app, http.MethodGet, "/api/v1/weather?city=Paris&units=imperial", "")
	expectStatus(t, resp, http.StatusOK)

	if body["units"] != "imperial" {
		t.Fatalf("expected imperial units, got %v", body["units"])
	}
	forecast, _ := body["forecast"].([]any)
	if len(forecast) != weather.MaxForecastDays {
		t.Fatalf("expected %d forecast days, got %d", weather.MaxForecastDays, len(forecast))
	}
	aq, _ := body["airQuality"].(map[string]any)
	if aq["aqi"] != float64(2) {
		t.Fatalf("expected aqi 2, got %v", body["airQuality"])
	}
}

func TestWeatherQueryFailure(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp, body := do(t, app, http.MethodGet, "/api/v1/weather?city=Atlantis", "")
	expectStatus(t, resp, http.StatusBadGateway)
	if body["message"] != "City not found or weather API error" {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestUnits(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp, body := do(t, app, http.MethodGet, "/api/v1/units/imperial", "")
	expectStatus(t, resp, http.StatusOK)
	symbols, _ := body["symbols"].(map[string]any)
	if symbols["temperature"] != "°F" || symbols["windSpeed"] != "mph" {
		t.Fatalf("unexpected symbols %v", symbols)
	}

	resp, _ = do(t, app, http.MethodGet, "/api/v1/units/kelvin", "")
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestSuggest(t *testing.T) {
	app, _ := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/geo/suggest?q=Pa", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out []weather.Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].Display != "Pa, FR" {
		t.Fatalf("unexpected suggestions %v", out)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/geo/suggest?q=P", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out = nil
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no suggestions for short input, got %v", out)
	}
}

func TestDashboardSearchAndFavorites(t *testing.T) {
	app, d := newTestApp(t, nil)

	resp, _ := do(t, app, http.MethodPost, "/api/v1/favorites/toggle", "")
	expectStatus(t, resp, http.StatusConflict)

	resp, view := do(t, app, http.MethodPost, "/api/v1/dashboard/search", `{"city":"Paris"}`)
	expectStatus(t, resp, http.StatusOK)
	current, _ := view["current"].(map[string]any)
	if current["title"] != "Paris, FR" {
		t.Fatalf("unexpected current card %v", view["current"])
	}
	d.Wait()

	resp, body := do(t, app, http.MethodPost, "/api/v1/favorites/toggle", "")
	expectStatus(t, resp, http.StatusOK)
	if body["favorite"] != true {
		t.Fatalf("expected favorite to be on, got %v", body)
	}

	resp, _ = do(t, app, http.MethodPut, "/api/v1/favorites/Lima,PE", "")
	expectStatus(t, resp, http.StatusCreated)
	resp, _ = do(t, app, http.MethodPut, "/api/v1/favorites/Lima,PE", "")
	expectStatus(t, resp, http.StatusOK)

	resp, body = do(t, app, http.MethodGet, "/api/v1/favorites", "")
	expectStatus(t, resp, http.StatusOK)
	favs, _ := body["favorites"].([]any)
	if len(favs) != 2 || favs[0] != "Paris,FR" || favs[1] != "Lima,PE" {
		t.Fatalf("unexpected favorites %v", favs)
	}

	resp, _ = do(t, app, http.MethodDelete, "/api/v1/favorites/Lima,PE", "")
	expectStatus(t, resp, http.StatusOK)
	resp, _ = do(t, app, http.MethodDelete, "/api/v1/favorites/Lima,PE", "")
	expectStatus(t, resp, http.StatusNotFound)
}

func TestDashboardSearchFailureIsInView(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp, view := do(t, app, http.MethodPost, "/api/v1/dashboard/search", `{"city":"Atlantis"}`)
	expectStatus(t, resp, http.StatusOK)
	if view["error"] != "City not found or weather API error" {
		t.Fatalf("unexpected error %v", view["error"])
	}
	if _, ok := view["current"]; ok {
		t.Fatalf("expected no current card, got %v", view["current"])
	}
}

func TestDashboardUnitsToggle(t *testing.T) {
	app, _ := newTestApp(t, nil)

	do(t, app, http.MethodPost, "/api/v1/dashboard/search", `{"city":"Paris"}`)
	resp, view := do(t, app, http.MethodPost, "/api/v1/dashboard/units/toggle", "")
	expectStatus(t, resp, http.StatusOK)
	if view["units"] != "imperial" {
		t.Fatalf("expected imperial units, got %v", view["units"])
	}
	chart, _ := view["chart"].(map[string]any)
	if chart["label"] != "Weekly temperature (°F)" {
		t.Fatalf("unexpected chart %v", view["chart"])
	}
}

func TestDashboardLocate(t *testing.T) {
	app, _ := newTestApp(t, nil)
	resp, body := do(t, app, http.MethodPost, "/api/v1/dashboard/locate", "")
	expectStatus(t, resp, http.StatusServiceUnavailable)
	if body["message"] != "Your location is not available right now." {
		t.Fatalf("unexpected message %v", body["message"])
	}

	resp, _ = do(t, app, http.MethodPost, "/api/v1/dashboard/locate", `{"lat":10}`)
	expectStatus(t, resp, http.StatusBadRequest)

	resp, view := do(t, app, http.MethodPost, "/api/v1/dashboard/locate", `{"lat":48.85,"lon":2.35}`)
	expectStatus(t, resp, http.StatusOK)
	if view["current"] == nil {
		t.Fatalf("expected a current card, got %v", view)
	}

	denied := geo.LocatorFunc(func(context.Context) (weather.Coordinates, error) {
		return weather.Coordinates{}, geo.ErrDenied
	})
	app, _ = newTestApp(t, denied)
	resp, _ = do(t, app, http.MethodPost, "/api/v1/dashboard/locate", "")
	expectStatus(t, resp, http.StatusForbidden)

	lat, lon := 48.85, 2.35
	app, _ = newTestApp(t, geo.NewStaticLocator(&lat, &lon))
	resp, view = do(t, app, http.MethodPost, "/api/v1/dashboard/locate", "")
	expectStatus(t, resp, http.StatusOK)
	if view["current"] == nil {
		t.Fatalf("expected a current card, got %v", view)
	}
}
