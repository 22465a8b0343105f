package weather

import (
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/common"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// ClassifyCondition maps a provider condition group (e.g. "Clouds") to a Condition.
// When the group is unknown the free-text description is matched by keyword.
func ClassifyCondition(group, description string) Condition {
	switch group {
	case "Clear":
		return ConditionClear
	case "Clouds":
		return ConditionCloudy
	case "Rain", "Drizzle":
		return ConditionRain
	case "Snow":
		return ConditionSnow
	case "Thunderstorm":
		return ConditionStorm
	case "Mist", "Fog", "Haze", "Smoke", "Dust":
		return ConditionMist
	}

	d := strings.ToLower(description)
	switch {
	case d == "":
		return ConditionUnknown
	case common.HasAny(d, "thunder", "storm"):
		return ConditionStorm
	case common.HasAny(d, "rain", "shower", "drizzle"):
		return ConditionRain
	case common.HasAny(d, "snow", "sleet"):
		return ConditionSnow
	case common.HasAny(d, "mist", "fog", "haze"):
		return ConditionMist
	case common.HasAny(d, "cloud"):
		return ConditionCloudy
	case common.HasAny(d, "clear", "sunny"):
		return ConditionClear
	default:
		return ConditionUnknown
	}
}

// RawSample is one timestamped observation as returned by the provider,
// expressed in the unit system the query asked for.
type RawSample struct {
	Timestamp   int64     `json:"dt"` // seconds since epoch, UTC; 0 when the provider omitted it
	Temperature float64   `json:"temp"`
	FeelsLike   float64   `json:"feelsLike"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Condition   Condition `json:"condition"`
}

// Time returns the sample timestamp as a UTC time.
func (s RawSample) Time() time.Time {
	return time.Unix(s.Timestamp, 0).UTC()
}

// DailySample is the RawSample selected to represent one UTC calendar day.
type DailySample = RawSample

// AggregatedForecast holds at most MaxForecastDays daily samples,
// strictly increasing by calendar date.
type AggregatedForecast []DailySample

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location describes a resolved place.
type Location struct {
	Name        string      `json:"name"`
	Country     string      `json:"country"`
	Coordinates Coordinates `json:"coord"`
}

// Key returns the canonical identifier for this location. It doubles as a
// provider city query ("Paris,FR") and as the favorites key.
func (l Location) Key() string {
	if l.Country == "" {
		return l.Name
	}
	return l.Name + "," + l.Country
}

// DisplayName returns the human readable "Name, CC" form.
func (l Location) DisplayName() string {
	if l.Country == "" {
		return l.Name
	}
	return l.Name + ", " + l.Country
}

// AirQuality is the most current air pollution reading for a coordinate.
// Index runs from 1 (good) to 5 (very poor); Components is sparse.
type AirQuality struct {
	Index      int                `json:"aqi"`
	Components map[string]float64 `json:"components"`
}

// Bundle is the current-conditions view of a location.
type Bundle struct {
	Location   Location    `json:"location"`
	Current    RawSample   `json:"current"`
	AirQuality *AirQuality `json:"airQuality,omitempty"`
}

// Result is a successful query outcome.
type Result struct {
	Bundle   Bundle             `json:"bundle"`
	Forecast AggregatedForecast `json:"forecast"`
}
