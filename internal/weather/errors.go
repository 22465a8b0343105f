package weather

import "errors"

var (
	// ErrValidationSkip is returned when the query has no usable identifier.
	// Callers treat it as a no-op; it is never shown to the user.
	ErrValidationSkip = errors.New("query skipped: no city or coordinates")

	// ErrQueryFailed matches any *QueryError via errors.Is.
	ErrQueryFailed = errors.New("weather query failed")

	// ErrAirQualityUnavailable reports a failed or empty air pollution lookup.
	ErrAirQualityUnavailable = errors.New("air quality unavailable")

	// ErrNoProvider is returned when the service was built without a provider.
	ErrNoProvider = errors.New("no weather provider configured")
)

// QueryError is the single error surfaced when current conditions or the
// forecast could not be fetched.
type QueryError struct {
	Mode QueryMode
	Err  error
}

func (e *QueryError) Error() string {
	return e.Message() + ": " + e.Err.Error()
}

func (e *QueryError) Unwrap() error { return e.Err }

func (e *QueryError) Is(target error) bool { return target == ErrQueryFailed }

// Message is the user-facing text for the failure.
func (e *QueryError) Message() string {
	if e.Mode == ModeCoordinates {
		return "Could not fetch weather for your location."
	}
	return "City not found or weather API error"
}
