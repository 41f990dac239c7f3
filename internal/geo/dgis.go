package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const catalogBaseURL = "https://catalog.api.2gis.com"

// GeocodeResult is the subset of the 2GIS answer the backend cares about.
type GeocodeResult struct {
	Latitude    float64
	Longitude   float64
	FullAddress string
}

// DGISClient provides access to the 2GIS geocoding API.
type DGISClient struct {
	httpClient *http.Client
	apiKey     string
	regionID   string
}

// NewDGISClient constructs a new 2GIS client.
func NewDGISClient(httpClient *http.Client, apiKey, regionID string) *DGISClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &DGISClient{httpClient: httpClient, apiKey: apiKey, regionID: regionID}
}

// Geocode resolves a free-text address into coordinates and a formatted
// address. One opaque call, no retries; callers treat failure as
// "coordinates unknown".
func (c *DGISClient) Geocode(ctx context.Context, query string) (GeocodeResult, error) {
	if strings.TrimSpace(query) == "" {
		return GeocodeResult{}, errors.New("geocode: empty query")
	}

	ctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	params.Set("key", c.apiKey)
	params.Set("fields", "items.point,items.full_name")
	params.Set("search_is_query_text_complete", "true")
	if c.regionID != "" {
		params.Set("region_id", c.regionID)
	}

	endpoint := fmt.Sprintf("%s/3.0/items/geocode?%s", catalogBaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("geocode: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("geocode: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("geocode: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return GeocodeResult{}, fmt.Errorf("geocode: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Result struct {
			Items []struct {
				FullName string `json:"full_name"`
				Point    struct {
					Lat float64 `json:"lat"`
					Lon float64 `json:"lon"`
				} `json:"point"`
			} `json:"items"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return GeocodeResult{}, fmt.Errorf("geocode: decode: %w", err)
	}
	if len(payload.Result.Items) == 0 {
		return GeocodeResult{}, errors.New("geocode: no results")
	}

	item := payload.Result.Items[0]
	return GeocodeResult{
		Latitude:    item.Point.Lat,
		Longitude:   item.Point.Lon,
		FullAddress: item.FullName,
	}, nil
}
