package favorites

import (
	"context"
	"encoding/json"
	"log"
	"strings"
)

// LastCity persists the key of the most recently resolved city.
type LastCity struct {
	backend Backend
}

func NewLastCity(backend Backend) *LastCity {
	return &LastCity{backend: backend}
}

// Load returns the stored city, or "" when absent, blank or corrupt.
func (l *LastCity) Load(ctx context.Context) string {
	raw, ok, err := l.backend.Get(ctx, KeyLastCity)
	if err != nil {
		log.Printf("ERROR: last city: load failed: %v", err)
		return ""
	}
	if !ok {
		return ""
	}

	var city string
	if err := json.Unmarshal([]byte(raw), &city); err != nil {
		log.Printf("INFO: last city: persisted data is corrupt, ignoring: %v", err)
		return ""
	}
	return strings.TrimSpace(city)
}

// Save stores city. Blank values are ignored.
func (l *LastCity) Save(ctx context.Context, city string) {
	if strings.TrimSpace(city) == "" {
		return
	}
	payload, err := json.Marshal(city)
	if err != nil {
		return
	}
	if err := l.backend.Set(ctx, KeyLastCity, string(payload)); err != nil {
		log.Printf("ERROR: last city: save failed: %v", err)
	}
}
