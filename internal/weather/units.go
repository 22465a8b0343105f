package weather

import "fmt"

// UnitSystem selects the measurement units requested from the provider.
// The provider performs the conversion; we only pick display symbols.
type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
)

// UnitSymbols are the display suffixes for a unit system.
type UnitSymbols struct {
	Temperature string `json:"temperature"`
	WindSpeed   string `json:"windSpeed"`
}

// ParseUnitSystem validates a unit system name. The empty string means Metric.
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch UnitSystem(s) {
	case "", Metric:
		return Metric, nil
	case Imperial:
		return Imperial, nil
	default:
		return "", fmt.Errorf("unknown unit system %q", s)
	}
}

// Symbols returns the temperature and wind speed symbols.
func (u UnitSystem) Symbols() UnitSymbols {
	if u == Imperial {
		return UnitSymbols{Temperature: "°F", WindSpeed: "mph"}
	}
	return UnitSymbols{Temperature: "°C", WindSpeed: "m/s"}
}

// Toggle flips between metric and imperial.
func (u UnitSystem) Toggle() UnitSystem {
	if u == Imperial {
		return Metric
	}
	return Imperial
}
