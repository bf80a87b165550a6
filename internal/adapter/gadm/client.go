// Package gadm loads GADM 4.1 feature collections and exposes the region
// names they carry. The same names key the choropleth join downstream, so the
// client returns them exactly as found in the feature properties.
package gadm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/casamapa/price-map-service/internal/domain"
	"github.com/casamapa/price-map-service/internal/observability"
)

// Client fetches per-level GADM feature collections and extracts their region
// names. It implements pipeline.RegionSource. The base location may be an
// HTTP(S) URL or a local directory holding the downloaded files.
type Client struct {
	base       string
	country    string // ISO 3166-1 alpha-3, e.g. "PRT"
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a GADM client.
func NewClient(base, country string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		base:       strings.TrimRight(base, "/"),
		country:    country,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// RegionNames returns the deduplicated region names for a level, in feature
// order, read from the level's NAME_n property.
func (c *Client) RegionNames(ctx context.Context, level domain.Level) ([]string, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("invalid hierarchy level %d", int(level))
	}

	start := time.Now()
	data, err := c.fetch(ctx, c.filename(level))
	c.metrics.GeographyFetchSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeographyFetches.WithLabelValues(level.String(), "error").Inc()
		return nil, err
	}
	c.metrics.GeographyFetches.WithLabelValues(level.String(), "success").Inc()

	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode %s feature collection: %w", level, err)
	}

	property := level.GADMProperty()
	seen := make(map[string]struct{}, len(fc.Features))
	names := make([]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		name, ok := f.Properties[property].(string)
		if !ok || name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("feature collection has no %s properties", property)
	}

	c.logger.Debug("loaded reference geography", "level", level.String(), "regions", len(names))
	return names, nil
}

// filename follows the GADM 4.1 naming convention, e.g. gadm41_PRT_1.json.
func (c *Client) filename(level domain.Level) string {
	return fmt.Sprintf("gadm41_%s_%d.json", c.country, int(level))
}

func (c *Client) fetch(ctx context.Context, name string) ([]byte, error) {
	if strings.HasPrefix(c.base, "http://") || strings.HasPrefix(c.base, "https://") {
		return c.fetchHTTP(ctx, c.base+"/"+name)
	}
	data, err := os.ReadFile(path.Join(c.base, name))
	if err != nil {
		return nil, fmt.Errorf("read geography file: %w", err)
	}
	return data, nil
}

func (c *Client) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch geography: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geography server error: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read geography response: %w", err)
	}
	return data, nil
}

// GeoJSON feature collection, properties kept loose: GADM files carry many
// per-country properties and only NAME_n matters here.

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties map[string]any `json:"properties"`
}
