// Package dashboard holds the state a weather UI renders: the latest query
// result, its air quality, favorites and the selected unit system.
//
// Queries may overlap. Each one is tagged with a sequence number when it
// starts and its completion is applied only if no newer query has started
// since; this covers both the primary result and the air quality lookup
// that follows it.
package dashboard

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/favorites"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// WeatherService is the part of weather.Service the dashboard drives.
type WeatherService interface {
	Primary(ctx context.Context, q weather.Query, units weather.UnitSystem) (*weather.Result, error)
	AirQuality(ctx context.Context, c weather.Coordinates) (*weather.AirQuality, error)
}

// State is the mutable, UI-visible state.
type State struct {
	Units      weather.UnitSystem
	City       string
	Bundle     *weather.Bundle
	Forecast   weather.AggregatedForecast
	AirQuality *weather.AirQuality
	Error      string
	Loading    bool
}

// Options configures a Dashboard.
type Options struct {
	Units      weather.UnitSystem
	Locator    geo.Locator
	GeoTimeout time.Duration
}

// Dashboard is the single state holder behind the UI. It is safe for
// concurrent use.
type Dashboard struct {
	svc        WeatherService
	favorites  *favorites.Store
	lastCity   *favorites.LastCity
	locator    geo.Locator
	geoTimeout time.Duration

	// bg outlives individual requests; air quality tasks run under it.
	bg     context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup

	mu        sync.Mutex
	issued    uint64
	lastQuery *weather.Query
	state     State
	closed    bool

	// persistMu orders last_city writes; saved is the newest sequence written.
	persistMu sync.Mutex
	saved     uint64
}

// New creates a Dashboard. Call Start to restore persisted state.
func New(svc WeatherService, favs *favorites.Store, last *favorites.LastCity, opts Options) *Dashboard {
	units := opts.Units
	if units == "" {
		units = weather.Metric
	}
	bg, cancel := context.WithCancel(context.Background())
	return &Dashboard{
		svc:        svc,
		favorites:  favs,
		lastCity:   last,
		locator:    opts.Locator,
		geoTimeout: opts.GeoTimeout,
		bg:         bg,
		cancel:     cancel,
		state:      State{Units: units, Forecast: weather.AggregatedForecast{}},
	}
}

// Start loads persisted favorites and, when a last city was stored, searches it.
func (d *Dashboard) Start(ctx context.Context) error {
	d.favorites.Load(ctx)

	last := d.lastCity.Load(ctx)
	if last == "" {
		log.Println("dashboard: no last city stored")
		return nil
	}
	log.Printf("dashboard: restoring last city %q", last)
	return d.Search(ctx, last)
}

// Search queries a city by name and records it as the current input.
// A blank name is ignored. The returned error is the *weather.QueryError that
// was also written to the state, or nil on success or when the result was
// superseded by a newer query.
func (d *Dashboard) Search(ctx context.Context, city string) error {
	if strings.TrimSpace(city) == "" {
		return nil
	}
	d.mu.Lock()
	d.state.City = city
	d.mu.Unlock()
	return d.run(ctx, weather.CityQuery(city))
}

// SearchCoordinates queries a coordinate pair.
func (d *Dashboard) SearchCoordinates(ctx context.Context, lat, lon float64) error {
	return d.run(ctx, weather.CoordinatesQuery(lat, lon))
}

// UseMyLocation acquires the position once and queries it. A geolocation
// failure is returned without touching the displayed state.
func (d *Dashboard) UseMyLocation(ctx context.Context) error {
	c, err := geo.Acquire(ctx, d.locator, d.geoTimeout)
	if err != nil {
		log.Printf("dashboard: geolocation failed: %v", err)
		return err
	}
	return d.SearchCoordinates(ctx, c.Lat, c.Lon)
}

// ToggleUnits switches the unit system and repeats the last query in the new units.
func (d *Dashboard) ToggleUnits(ctx context.Context) error {
	d.mu.Lock()
	d.state.Units = d.state.Units.Toggle()
	q := d.lastQuery
	d.mu.Unlock()

	if q == nil {
		return nil
	}
	return d.run(ctx, *q)
}

// Refresh repeats the last query, if any.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	q := d.lastQuery
	d.mu.Unlock()

	if q == nil {
		return nil
	}
	return d.run(ctx, *q)
}

// ToggleFavorite adds or removes the currently displayed city. It returns the
// new membership, or false when nothing is displayed.
func (d *Dashboard) ToggleFavorite(ctx context.Context) bool {
	key := d.currentKey()
	if key == "" {
		return false
	}
	return d.favorites.Toggle(ctx, key)
}

// SelectFavorite searches a favorite city.
func (d *Dashboard) SelectFavorite(ctx context.Context, city string) error {
	return d.Search(ctx, city)
}

// AddFavorite adds city to the favorites.
func (d *Dashboard) AddFavorite(ctx context.Context, city string) bool {
	return d.favorites.Add(ctx, city)
}

// RemoveFavorite removes city from the favorites.
func (d *Dashboard) RemoveFavorite(ctx context.Context, city string) bool {
	return d.favorites.Remove(ctx, city)
}

// Favorites lists the favorites in insertion order.
func (d *Dashboard) Favorites() []string {
	return d.favorites.List()
}

// Snapshot returns a copy of the current state.
func (d *Dashboard) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.state
	s.Forecast = append(weather.AggregatedForecast{}, d.state.Forecast...)
	if d.state.Bundle != nil {
		b := *d.state.Bundle
		s.Bundle = &b
	}
	return s
}

// Wait blocks until in-flight air quality lookups finish.
func (d *Dashboard) Wait() {
	d.tasks.Wait()
}

// Close cancels in-flight air quality lookups and waits for them. Queries
// that complete afterwards no longer start air quality lookups.
func (d *Dashboard) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	d.tasks.Wait()
}

func (d *Dashboard) currentKey() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Bundle == nil {
		return ""
	}
	return d.state.Bundle.Location.Key()
}

// begin marks the start of a query and returns its sequence number.
func (d *Dashboard) begin(q weather.Query) (uint64, weather.UnitSystem) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.issued++
	d.lastQuery = &q
	d.state.Loading = true
	d.state.Error = ""
	d.state.AirQuality = nil
	return d.issued, d.state.Units
}

func (d *Dashboard) run(ctx context.Context, q weather.Query) error {
	if !q.Valid() {
		return nil
	}

	seq, units := d.begin(q)
	res, err := d.svc.Primary(ctx, q, units)
	if errors.Is(err, weather.ErrValidationSkip) {
		err = nil
	}

	d.mu.Lock()
	if seq != d.issued {
		d.mu.Unlock()
		log.Printf("dashboard: discarding stale result #%d for %s (latest #%d)", seq, q, d.latest())
		return nil
	}
	d.state.Loading = false

	if err != nil || res == nil {
		d.state.Bundle = nil
		d.state.Forecast = weather.AggregatedForecast{}
		d.state.AirQuality = nil
		var qe *weather.QueryError
		if errors.As(err, &qe) {
			d.state.Error = qe.Message()
		} else if err != nil {
			d.state.Error = (&weather.QueryError{Mode: q.Mode(), Err: err}).Message()
		}
		d.mu.Unlock()
		return err
	}

	bundle := res.Bundle
	d.state.Bundle = &bundle
	d.state.Forecast = res.Forecast
	d.spawnAirQuality(seq, bundle.Location.Coordinates)
	d.mu.Unlock()

	d.saveLastCity(ctx, seq, bundle.Location.Key())
	return nil
}

// saveLastCity persists key unless a newer query has already saved its own.
func (d *Dashboard) saveLastCity(ctx context.Context, seq uint64, key string) {
	d.persistMu.Lock()
	defer d.persistMu.Unlock()

	if seq <= d.saved {
		return
	}
	d.saved = seq
	d.lastCity.Save(ctx, key)
}

func (d *Dashboard) latest() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.issued
}

// spawnAirQuality fetches air quality without blocking the caller and merges
// it only if query seq is still the latest. It must be called with mu held.
func (d *Dashboard) spawnAirQuality(seq uint64, c weather.Coordinates) {
	if d.closed {
		return
	}
	d.tasks.Add(1)
	go func() {
		defer d.tasks.Done()

		aq, err := d.svc.AirQuality(d.bg, c)

		d.mu.Lock()
		defer d.mu.Unlock()
		if seq != d.issued {
			return
		}
		if err != nil {
			log.Printf("dashboard: air quality unavailable for #%d: %v", seq, err)
			d.state.AirQuality = nil
			return
		}
		d.state.AirQuality = aq
	}()
}
