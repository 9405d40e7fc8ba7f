// Package yandex implements domain.Geocoder against the Yandex HTTP geocoder.
package yandex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
	"github.com/couchcryptid/order-fulfillment-engine/internal/observability"
)

// Client implements domain.Geocoder using the Yandex Geocoder API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

var _ domain.Geocoder = (*Client)(nil)

// NewClient creates a Yandex geocoding client.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode resolves a free-text address to the first matching coordinate.
func (c *Client) Geocode(ctx context.Context, address domain.Address) (domain.Coordinate, bool, error) {
	params := url.Values{
		"geocode": {string(address)},
		"apikey":  {c.apiKey},
		"format":  {"json"},
	}

	start := time.Now()
	coord, found, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		c.logger.Debug("geocode request failed", "address", address, "error", err)
	case !found:
		c.metrics.GeocodeRequests.WithLabelValues("not_found").Inc()
		c.logger.Debug("geocode returned no match", "address", address)
	default:
		c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	}
	return coord, found, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.Coordinate, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("%w: create request: %w", domain.ErrGeocode, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("%w: request: %w", domain.ErrGeocode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.Coordinate{}, false, fmt.Errorf("%w: yandex API error: status %d: %s", domain.ErrGeocode, resp.StatusCode, body)
	}

	var yResp response
	if err := json.NewDecoder(resp.Body).Decode(&yResp); err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("%w: decode response: %w", domain.ErrGeocode, err)
	}
	return yResp.coordinate()
}

var errMalformed = errors.New("malformed response")

// Yandex API response types. Only the path to the first match's position
// is decoded.

type response struct {
	Response *struct {
		Collection *struct {
			FeatureMember []featureMember `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

type featureMember struct {
	GeoObject *struct {
		Point *struct {
			Pos string `json:"pos"` // "lon lat"
		} `json:"Point"`
	} `json:"GeoObject"`
}

func (r response) coordinate() (domain.Coordinate, bool, error) {
	if r.Response == nil || r.Response.Collection == nil {
		return domain.Coordinate{}, false, fmt.Errorf("%w: %w: missing GeoObjectCollection", domain.ErrGeocode, errMalformed)
	}
	members := r.Response.Collection.FeatureMember
	if len(members) == 0 {
		return domain.Coordinate{}, false, nil
	}

	first := members[0]
	if first.GeoObject == nil || first.GeoObject.Point == nil {
		return domain.Coordinate{}, false, fmt.Errorf("%w: %w: missing GeoObject.Point", domain.ErrGeocode, errMalformed)
	}
	coord, err := domain.ParsePosition(first.GeoObject.Point.Pos)
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("%w: %w: %w", domain.ErrGeocode, errMalformed, err)
	}
	return coord, true, nil
}
