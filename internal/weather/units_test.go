package weather

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnitSymbols(t *testing.T) {
	require.Equal(t, UnitSymbols{Temperature: "°C", WindSpeed: "m/s"}, Metric.Symbols())
	require.Equal(t, UnitSymbols{Temperature: "°F", WindSpeed: "mph"}, Imperial.Symbols())
}

func TestParseUnitSystem(t *testing.T) {
	tests := []struct {
		in      string
		want    UnitSystem
		wantErr bool
	}{
		{in: "", want: Metric},
		{in: "metric", want: Metric},
		{in: "imperial", want: Imperial},
		{in: "kelvin", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseUnitSystem(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got)
	}
}

func TestUnitToggle(t *testing.T) {
	require.Equal(t, Imperial, Metric.Toggle())
	require.Equal(t, Metric, Imperial.Toggle())
}

func TestClassifyCondition(t *testing.T) {
	require.Equal(t, ConditionCloudy, ClassifyCondition("Clouds", "broken clouds"))
	require.Equal(t, ConditionRain, ClassifyCondition("Drizzle", ""))
	require.Equal(t, ConditionStorm, ClassifyCondition("", "thunderstorm with rain"))
	require.Equal(t, ConditionClear, ClassifyCondition("", "Clear sky"))
	require.Equal(t, ConditionUnknown, ClassifyCondition("", ""))
}
