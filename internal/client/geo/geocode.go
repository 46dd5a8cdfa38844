package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNoResults means the query resolved to nothing.
var ErrNoResults = errors.New("no geocoding results")

// Geocoder talks to a Nominatim-compatible endpoint for reverse geocoding
// (coordinate to address) and forward place search. Callers treat failures
// as cosmetic: a missing address never blocks rendering.
type Geocoder struct {
	baseURL string
	http    *http.Client
}

func NewGeocoder(baseURL string) *Geocoder {
	return &Geocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

type geocodeResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (g *Geocoder) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoder status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ReverseGeocode resolves a coordinate to a human-readable address.
func (g *Geocoder) ReverseGeocode(ctx context.Context, p Point) (string, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(p.Lon, 'f', -1, 64))

	var res geocodeResult
	if err := g.get(ctx, "/reverse?"+q.Encode(), &res); err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	if res.DisplayName == "" {
		return "", ErrNoResults
	}
	return res.DisplayName, nil
}

// SearchPlace resolves a free-text place query to its best-match coordinate.
func (g *Geocoder) SearchPlace(ctx context.Context, query string) (Point, string, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	q.Set("q", query)

	var results []geocodeResult
	if err := g.get(ctx, "/search?"+q.Encode(), &results); err != nil {
		return Point{}, "", fmt.Errorf("place search: %w", err)
	}
	if len(results) == 0 {
		return Point{}, "", ErrNoResults
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Point{}, "", fmt.Errorf("place search: bad latitude %q", results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Point{}, "", fmt.Errorf("place search: bad longitude %q", results[0].Lon)
	}
	return Point{Lat: lat, Lon: lon}, results[0].DisplayName, nil
}
