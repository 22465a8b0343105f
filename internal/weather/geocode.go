package weather

import (
	"context"
	"log"
	"strings"
)

const (
	// MinSuggestLength is the shortest input that triggers a geocoding lookup.
	MinSuggestLength = 2
	// SuggestLimit is the maximum number of suggestions returned.
	SuggestLimit = 5
)

// Suggestion is a candidate city for free-text input.
type Suggestion struct {
	Name        string      `json:"name"`
	State       string      `json:"state,omitempty"`
	Country     string      `json:"country"`
	Coordinates Coordinates `json:"coord"`
	Display     string      `json:"display"`
}

// Geocoder resolves free text to candidate cities.
type Geocoder interface {
	Lookup(ctx context.Context, text string, limit int) ([]Suggestion, error)
}

// Suggest returns up to SuggestLimit candidates for text. Short input and
// geocoder failures both yield an empty list.
func Suggest(ctx context.Context, g Geocoder, text string) []Suggestion {
	text = strings.TrimSpace(text)
	if g == nil || len([]rune(text)) < MinSuggestLength {
		return []Suggestion{}
	}

	out, err := g.Lookup(ctx, text, SuggestLimit)
	if err != nil {
		log.Printf("ERROR: geocoding lookup for %q failed: %v", text, err)
		return []Suggestion{}
	}
	if len(out) > SuggestLimit {
		out = out[:SuggestLimit]
	}
	return out
}
