// README: Pricing service fetches fare quotes from the Yandex taxi-info API.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"taxiwatch/internal/types"
)

const taxiInfoURL = "https://taxi-routeinfo.taxi.yandex.net/taxi_info"

var errNoOptions = errors.New("response has no tariff options")

type Options struct {
	ClientID  string
	APIKey    string
	Class     string
	RateLimit float64 // requests per second shared by all watches; <= 0 disables
	BaseURL   string
}

type Service struct {
	clientID string
	apiKey   string
	class    string
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	now      func() time.Time
}

func NewService(opts Options) *Service {
	s := &Service{
		clientID: opts.ClientID,
		apiKey:   opts.APIKey,
		class:    opts.Class,
		baseURL:  opts.BaseURL,
		http:     &http.Client{Timeout: 10 * time.Second},
		limiter:  rate.NewLimiter(rate.Inf, 0),
		now:      time.Now,
	}
	if s.class == "" {
		s.class = "econom"
	}
	if s.baseURL == "" {
		s.baseURL = taxiInfoURL
	}
	if opts.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return s
}

// FetchQuote returns the price of the configured class between two points.
// Every failure, including an empty option list, is a *types.TransportError.
func (s *Service) FetchQuote(ctx context.Context, origin, destination types.Point) (Quote, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return Quote{}, types.NewTransportError("taxi_info", err)
	}

	params := url.Values{}
	params.Set("clid", s.clientID)
	params.Set("apikey", s.apiKey)
	params.Set("rll", origin.String()+"~"+destination.String())
	params.Set("class", s.class)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Quote{}, types.NewTransportError("taxi_info", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return Quote{}, types.NewTransportError("taxi_info", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Quote{}, types.NewTransportError("taxi_info", fmt.Errorf("unexpected status %s", resp.Status))
	}

	var body taxiInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Quote{}, types.NewTransportError("taxi_info", fmt.Errorf("decode response: %w", err))
	}
	if len(body.Options) == 0 {
		return Quote{}, types.NewTransportError("taxi_info", errNoOptions)
	}

	opt := body.Options[0]
	return Quote{
		Price:        opt.Price,
		PriceText:    opt.PriceText,
		MinPrice:     opt.MinPrice,
		DurationText: body.TimeText,
		Currency:     body.Currency,
		ClassName:    opt.ClassName,
		ClassLevel:   opt.ClassLevel,
		FetchedAt:    s.now(),
	}, nil
}

// OrderLink builds the ordering deep link for a quote, using the partner
// client id as the referral tag.
func (s *Service) OrderLink(origin, destination types.Point, q Quote) string {
	return OrderLink(origin, destination, q.ClassLevel, s.clientID)
}
