package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func at(t *testing.T, value string) int64 {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts.Unix()
}

func sampleAt(t *testing.T, value string, temp float64) RawSample {
	return RawSample{Timestamp: at(t, value), Temperature: temp}
}

func TestAggregateDailyEmpty(t *testing.T) {
	require.Empty(t, AggregateDaily(nil))
	require.Empty(t, AggregateDaily([]RawSample{}))
	require.NotNil(t, AggregateDaily(nil))
}

func TestAggregateDailyPicksClosestToMidday(t *testing.T) {
	samples := []RawSample{
		sampleAt(t, "2024-07-01T09:00:00Z", 9),
		sampleAt(t, "2024-07-01T14:00:00Z", 14),
	}

	got := AggregateDaily(samples)
	require.Len(t, got, 1)
	require.Equal(t, 14.0, got[0].Temperature)
}

func TestAggregateDailyTieKeepsFirstInInput(t *testing.T) {
	hour13 := sampleAt(t, "2024-07-01T13:00:00Z", 13)
	hour11 := sampleAt(t, "2024-07-01T11:00:00Z", 11)

	got := AggregateDaily([]RawSample{hour13, hour11})
	require.Len(t, got, 1)
	require.Equal(t, 13.0, got[0].Temperature)

	got = AggregateDaily([]RawSample{hour11, hour13})
	require.Len(t, got, 1)
	require.Equal(t, 11.0, got[0].Temperature)
}

func TestAggregateDailyGroupsByUTCDate(t *testing.T) {
	var samples []RawSample
	start := time.Date(2024, 7, 1, 21, 0, 0, 0, time.UTC)
	// 3-hour cadence across 9 calendar dates.
	for ts := start; ts.Before(time.Date(2024, 7, 9, 3, 0, 0, 0, time.UTC)); ts = ts.Add(3 * time.Hour) {
		samples = append(samples, RawSample{Timestamp: ts.Unix(), Temperature: float64(ts.Hour())})
	}

	got := AggregateDaily(samples)
	require.Len(t, got, MaxForecastDays)

	seen := make(map[string]bool)
	for i, s := range got {
		date := s.Time().Format("2006-01-02")
		require.False(t, seen[date], "date %s repeated", date)
		seen[date] = true
		if i > 0 {
			require.Less(t, got[i-1].Timestamp, s.Timestamp)
		}
	}

	// The first date only has the 21:00 sample; the following days have 12:00.
	require.Equal(t, 21, got[0].Time().Hour())
	for _, s := range got[1:] {
		require.Equal(t, 12, s.Time().Hour())
	}
}

func TestAggregateDailyTruncatesToEarliestSevenDates(t *testing.T) {
	var samples []RawSample
	// Newest first to make sure output ordering does not depend on input order.
	for day := 10; day >= 1; day-- {
		ts := time.Date(2024, 7, day, 12, 0, 0, 0, time.UTC)
		samples = append(samples, RawSample{Timestamp: ts.Unix(), Temperature: float64(day)})
	}

	got := AggregateDaily(samples)
	require.Len(t, got, 7)
	for i, s := range got {
		require.Equal(t, float64(i+1), s.Temperature)
	}
}

func TestAggregateDailySkipsMissingTimestamp(t *testing.T) {
	samples := []RawSample{
		{Temperature: 99},
		sampleAt(t, "2024-07-01T12:00:00Z", 20),
	}

	got := AggregateDaily(samples)
	require.Len(t, got, 1)
	require.Equal(t, 20.0, got[0].Temperature)
}

func TestAggregateDailyDeterministic(t *testing.T) {
	samples := []RawSample{
		sampleAt(t, "2024-07-02T15:00:00Z", 1),
		sampleAt(t, "2024-07-01T09:00:00Z", 2),
		sampleAt(t, "2024-07-02T09:00:00Z", 3),
		sampleAt(t, "2024-07-01T15:00:00Z", 4),
		sampleAt(t, "2024-07-03T00:00:00Z", 5),
	}

	first := AggregateDaily(samples)
	second := AggregateDaily(samples)
	require.Equal(t, first, second)
	require.Len(t, first, 3)
	require.Equal(t, []float64{2, 1, 5}, []float64{first[0].Temperature, first[1].Temperature, first[2].Temperature})
}
