// Package geo resolves shared-location coordinates to a display address.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"restaurant-order-bot/internal/domain/ports/adapter"
)

var _ adapter.Geocoder = (*NominatimGeocoder)(nil)

// NominatimGeocoder reverse-geocodes against the OSM Nominatim API. Failures
// degrade to a lat/lon placeholder; the order flow continues either way and
// staff confirm the address on call.
type NominatimGeocoder struct {
	base      string // e.g., https://nominatim.openstreetmap.org
	userAgent string
	client    *http.Client
	log       *zerolog.Logger
}

func NewNominatimGeocoder(base, userAgent string, log *zerolog.Logger) *NominatimGeocoder {
	if base == "" {
		base = "https://nominatim.openstreetmap.org"
	}
	if userAgent == "" {
		userAgent = "restaurant-order-bot/1.0"
	}
	return &NominatimGeocoder{
		base:      strings.TrimRight(base, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: 5 * time.Second},
		log:       log,
	}
}

func (g *NominatimGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) string {
	url := fmt.Sprintf("%s/reverse?format=jsonv2&lat=%f&lon=%f", g.base, lat, lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return placeholder(lat, lon)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Warn().Err(err).Msg("reverse geocode failed")
		return placeholder(lat, lon)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		g.log.Warn().Int("status", resp.StatusCode).Msg("reverse geocode non-2xx")
		return placeholder(lat, lon)
	}

	var payload struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.DisplayName == "" {
		return placeholder(lat, lon)
	}
	return payload.DisplayName
}

func placeholder(lat, lon float64) string {
	return fmt.Sprintf("Shared location (%.5f, %.5f)", lat, lon)
}
