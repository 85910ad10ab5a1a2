package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"taxiwatch/internal/types"
)

const yandexGeocoderURL = "https://geocode-maps.yandex.ru/1.x"

// YandexGeocoder talks to the Yandex HTTP Geocoder API.
type YandexGeocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewYandexGeocoder creates a geocoder for the given API key.
func NewYandexGeocoder(apiKey string) *YandexGeocoder {
	return &YandexGeocoder{
		apiKey:  apiKey,
		baseURL: yandexGeocoderURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the geocoder at another endpoint (tests, proxies).
func (g *YandexGeocoder) WithBaseURL(u string) *YandexGeocoder {
	g.baseURL = u
	return g
}

type yandexResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					MetaDataProperty struct {
						GeocoderMetaData struct {
							Text           string `json:"text"`
							AddressDetails struct {
								Country struct {
									AddressLine string `json:"AddressLine"`
								} `json:"Country"`
							} `json:"AddressDetails"`
						} `json:"GeocoderMetaData"`
					} `json:"metaDataProperty"`
					Point struct {
						Pos string `json:"pos"`
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

func (g *YandexGeocoder) Resolve(ctx context.Context, address string) (types.Point, error) {
	resp, err := g.query(ctx, url.Values{"geocode": {address}})
	if err != nil {
		return types.Point{}, err
	}
	members := resp.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return types.Point{}, types.ErrNotFound
	}
	p, err := parsePos(members[0].GeoObject.Point.Pos)
	if err != nil {
		return types.Point{}, types.NewTransportError("geocode", err)
	}
	return p, nil
}

func (g *YandexGeocoder) ReverseResolve(ctx context.Context, p types.Point) (string, error) {
	resp, err := g.query(ctx, url.Values{
		"geocode": {p.String()},
		"lang":    {"ru_RU"},
		"kind":    {"house"},
	})
	if err != nil {
		return "", err
	}
	members := resp.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return "", types.ErrNotFound
	}
	meta := members[0].GeoObject.MetaDataProperty.GeocoderMetaData
	if line := meta.AddressDetails.Country.AddressLine; line != "" {
		return line, nil
	}
	if meta.Text != "" {
		return meta.Text, nil
	}
	return "", types.ErrNotFound
}

func (g *YandexGeocoder) query(ctx context.Context, params url.Values) (*yandexResponse, error) {
	params.Set("apikey", g.apiKey)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, types.NewTransportError("geocode", err)
	}
	res, err := g.client.Do(req)
	if err != nil {
		return nil, types.NewTransportError("geocode", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, types.NewTransportError("geocode", fmt.Errorf("unexpected status %s", res.Status))
	}
	var out yandexResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, types.NewTransportError("geocode", fmt.Errorf("decode response: %w", err))
	}
	return &out, nil
}

// parsePos parses the "lon lat" string used by the geocoder.
func parsePos(pos string) (types.Point, error) {
	parts := strings.Fields(pos)
	if len(parts) != 2 {
		return types.Point{}, fmt.Errorf("malformed position %q", pos)
	}
	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return types.Point{}, fmt.Errorf("malformed longitude %q: %w", parts[0], err)
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return types.Point{}, fmt.Errorf("malformed latitude %q: %w", parts[1], err)
	}
	return types.Point{Lon: lon, Lat: lat}, nil
}
