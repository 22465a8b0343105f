package weather

import "sort"

// MaxForecastDays caps the number of days AggregateDaily returns.
const MaxForecastDays = 7

// middayHour is the UTC hour treated as "midday" for every location.
// It is not local noon; the provider feed carries no timezone per sample.
const middayHour = 12

// AggregateDaily reduces a 3-hour forecast feed to one sample per UTC calendar
// day. Each day keeps the sample whose UTC hour is closest to 12:00; on a tie
// the sample that appears first in the input wins. The result is ordered by
// timestamp and holds at most MaxForecastDays entries.
//
// Samples without a timestamp are skipped. Nil or empty input yields an empty
// forecast.
func AggregateDaily(samples []RawSample) AggregatedForecast {
	type pick struct {
		sample RawSample
		score  int
	}

	byDate := make(map[string]pick)
	for _, s := range samples {
		if s.Timestamp == 0 {
			continue
		}
		ts := s.Time()
		key := ts.Format("2006-01-02")
		score := abs(ts.Hour() - middayHour)

		cur, ok := byDate[key]
		if !ok || score < cur.score {
			byDate[key] = pick{sample: s, score: score}
		}
	}

	out := make(AggregatedForecast, 0, len(byDate))
	for _, p := range byDate {
		out = append(out, p.sample)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})

	if len(out) > MaxForecastDays {
		out = out[:MaxForecastDays]
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
