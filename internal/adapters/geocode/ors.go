package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"food-dispatch-service/internal/domain"
	"food-dispatch-service/internal/platform/obs"
)

// Cache persists resolved coordinates across runs. A nil coordinate
// return with a nil error means a miss.
type Cache interface {
	Get(ctx context.Context, address string) (*domain.Coordinates, error)
	Put(ctx context.Context, address string, coords domain.Coordinates) error
}

// ORSGeocoder resolves street addresses through the OpenRouteService
// geocoding API (/geocode/search), with optional persistent caching
// and retry/backoff on transient failures.
type ORSGeocoder struct {
	baseURL string
	apiKey  string
	session *http.Client
	cache   Cache
	log     logrus.FieldLogger
}

func NewORSGeocoder(baseURL, apiKey string, session *http.Client, cache Cache, log logrus.FieldLogger) *ORSGeocoder {
	if session == nil {
		session = &http.Client{Timeout: 15 * time.Second}
	}
	return &ORSGeocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		session: session,
		cache:   cache,
		log:     log,
	}
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// GeocodeAddress resolves one address. An address the service cannot
// resolve returns (nil, nil); callers treat that as a soft miss, not a
// failure.
func (o *ORSGeocoder) GeocodeAddress(ctx context.Context, address string) (_ *domain.Coordinates, err error) {
	defer obs.Time(o.log, "ors.geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return nil, nil
	}

	if o.cache != nil {
		hit, err := o.cache.Get(ctx, norm)
		if err != nil {
			o.log.WithError(err).Warn("geocode cache read failed")
		} else if hit != nil {
			return hit, nil
		}
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, o.baseURL+"/geocode/search")
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", norm, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("geocode %q: decode response: %w", norm, err)
	}

	if len(decoded.Features) == 0 {
		return nil, nil
	}

	raw := decoded.Features[0].Geometry.Coordinates
	if len(raw) != 2 {
		return nil, fmt.Errorf("geocode %q: invalid coordinate format", norm)
	}

	coords := domain.Coordinates{Lon: raw[0], Lat: raw[1]}

	if o.cache != nil {
		if err := o.cache.Put(ctx, norm, coords); err != nil {
			o.log.WithError(err).Warn("geocode cache write failed")
		}
	}

	return &coords, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
