package dashboard

import (
	"fmt"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const iconURLFormat = "https://openweathermap.org/img/wn/%s.png"

// Day cards show the aggregated days after today.
const (
	firstCardDay = 1
	lastCardDay  = 7
)

// View is the render-ready form of the dashboard state.
type View struct {
	Units      weather.UnitSystem  `json:"units"`
	Symbols    weather.UnitSymbols `json:"symbols"`
	City       string              `json:"city"`
	Current    *CurrentCard        `json:"current,omitempty"`
	IsFavorite bool                `json:"isFavorite"`
	Days       []DayCard           `json:"days"`
	Chart      *Chart              `json:"chart,omitempty"`
	AirQuality *AQIBadge           `json:"airQuality,omitempty"`
	Favorites  []string            `json:"favorites"`
	Error      string              `json:"error,omitempty"`
	Loading    bool                `json:"loading"`
}

// CurrentCard renders current conditions.
type CurrentCard struct {
	Title       string              `json:"title"`
	Key         string              `json:"key"`
	Coordinates weather.Coordinates `json:"coord"`
	Temperature float64             `json:"temperature"`
	FeelsLike   float64             `json:"feelsLike"`
	Humidity    float64             `json:"humidity"`
	WindSpeed   float64             `json:"windSpeed"`
	Description string              `json:"description"`
	IconURL     string              `json:"iconUrl"`
	Condition   weather.Condition   `json:"condition"`
}

// DayCard renders one aggregated day.
type DayCard struct {
	Day         string  `json:"day"`
	Date        string  `json:"date"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feelsLike"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Description string  `json:"description"`
	IconURL     string  `json:"iconUrl"`
}

// Chart is a single temperature series over the aggregated days.
type Chart struct {
	Label  string    `json:"label"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// AQIBadge renders an air quality reading.
type AQIBadge struct {
	Index      int         `json:"aqi"`
	Level      string      `json:"level"`
	Class      string      `json:"class"`
	Pollutants []Pollutant `json:"pollutants"`
}

// Pollutant is one present component of an air quality reading.
type Pollutant struct {
	Code  string  `json:"code"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

var pollutantOrder = []struct {
	code  string
	label string
}{
	{"pm2_5", "PM2.5"},
	{"pm10", "PM10"},
	{"o3", "O₃"},
	{"no2", "NO₂"},
	{"so2", "SO₂"},
	{"co", "CO"},
}

// View renders the current state.
func (d *Dashboard) View() View {
	s := d.Snapshot()
	favs := d.favorites.List()

	v := View{
		Units:     s.Units,
		Symbols:   s.Units.Symbols(),
		City:      s.City,
		Days:      DayCards(s.Forecast),
		Chart:     NewChart(s.Forecast, s.Units),
		Favorites: favs,
		Error:     s.Error,
		Loading:   s.Loading,
	}

	if s.Bundle != nil {
		v.Current = newCurrentCard(*s.Bundle)
		v.IsFavorite = containsString(favs, s.Bundle.Location.Key())
	}
	if s.AirQuality != nil {
		v.AirQuality = NewAQIBadge(*s.AirQuality)
	}
	return v
}

func newCurrentCard(b weather.Bundle) *CurrentCard {
	return &CurrentCard{
		Title:       b.Location.DisplayName(),
		Key:         b.Location.Key(),
		Coordinates: b.Location.Coordinates,
		Temperature: b.Current.Temperature,
		FeelsLike:   b.Current.FeelsLike,
		Humidity:    b.Current.Humidity,
		WindSpeed:   b.Current.WindSpeed,
		Description: b.Current.Description,
		IconURL:     iconURL(b.Current.Icon),
		Condition:   b.Current.Condition,
	}
}

// DayCards renders the days after the first aggregated one (up to six).
func DayCards(f weather.AggregatedForecast) []DayCard {
	if len(f) <= firstCardDay {
		return []DayCard{}
	}
	end := len(f)
	if end > lastCardDay {
		end = lastCardDay
	}

	cards := make([]DayCard, 0, end-firstCardDay)
	for _, s := range f[firstCardDay:end] {
		ts := s.Time()
		cards = append(cards, DayCard{
			Day:         ts.Weekday().String(),
			Date:        ts.Format("2006-01-02"),
			Temperature: s.Temperature,
			FeelsLike:   s.FeelsLike,
			Humidity:    s.Humidity,
			WindSpeed:   s.WindSpeed,
			Description: s.Description,
			IconURL:     iconURL(s.Icon),
		})
	}
	return cards
}

// NewChart builds the weekly temperature series, or nil for an empty forecast.
func NewChart(f weather.AggregatedForecast, units weather.UnitSystem) *Chart {
	if len(f) == 0 {
		return nil
	}
	c := &Chart{
		Label:  fmt.Sprintf("Weekly temperature (%s)", units.Symbols().Temperature),
		Labels: make([]string, 0, len(f)),
		Values: make([]float64, 0, len(f)),
	}
	for _, s := range f {
		c.Labels = append(c.Labels, s.Time().Weekday().String())
		c.Values = append(c.Values, s.Temperature)
	}
	return c
}

// NewAQIBadge maps an index to its level text and CSS class and lists the
// known pollutants that are present, in a fixed order.
func NewAQIBadge(aq weather.AirQuality) *AQIBadge {
	b := &AQIBadge{Index: aq.Index, Pollutants: []Pollutant{}}

	switch aq.Index {
	case 1:
		b.Level, b.Class = "Good", "aqi-good"
	case 2:
		b.Level, b.Class = "Fair", "aqi-okay"
	case 3:
		b.Level, b.Class = "Moderate", "aqi-mid"
	case 4:
		b.Level, b.Class = "Poor", "aqi-bad"
	case 5:
		b.Level, b.Class = "Very Poor", "aqi-worse"
	default:
		b.Level = "N/A"
	}

	for _, p := range pollutantOrder {
		if v, ok := aq.Components[p.code]; ok {
			b.Pollutants = append(b.Pollutants, Pollutant{Code: p.code, Label: p.label, Value: v, Unit: "µg/m³"})
		}
	}
	return b
}

func iconURL(icon string) string {
	if icon == "" {
		return ""
	}
	return fmt.Sprintf(iconURLFormat, icon)
}

func containsString(list []string, v string) bool {
	for _, c := range list {
		if c == v {
			return true
		}
	}
	return false
}
