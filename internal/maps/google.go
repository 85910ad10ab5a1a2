package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"taxiwatch/internal/types"
)

// GoogleGeocoder resolves addresses through the Google Maps Geocoding API.
type GoogleGeocoder struct {
	client   *maps.Client
	language string
}

// NewGoogleGeocoder creates a GoogleGeocoder with the given API Key.
func NewGoogleGeocoder(apiKey string, opts ...maps.ClientOption) (*GoogleGeocoder, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client, language: "ru"}, nil
}

func (g *GoogleGeocoder) Resolve(ctx context.Context, address string) (types.Point, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  address,
		Language: g.language,
	})
	if err != nil {
		return types.Point{}, googleError(err)
	}
	if len(results) == 0 {
		return types.Point{}, types.ErrNotFound
	}
	return pointFromLatLng(results[0].Geometry.Location), nil
}

func (g *GoogleGeocoder) ReverseResolve(ctx context.Context, p types.Point) (string, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: p.Lat, Lng: p.Lon},
		Language: g.language,
	})
	if err != nil {
		return "", googleError(err)
	}
	if len(results) == 0 || results[0].FormattedAddress == "" {
		return "", types.ErrNotFound
	}
	return results[0].FormattedAddress, nil
}

func pointFromLatLng(ll maps.LatLng) types.Point {
	return types.Point{Lon: ll.Lng, Lat: ll.Lat}
}

// googleError maps the client's status errors onto the shared taxonomy.
func googleError(err error) error {
	if strings.Contains(err.Error(), "ZERO_RESULTS") {
		return types.ErrNotFound
	}
	return types.NewTransportError("google geocode", err)
}
