package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GeoLocation is the region data of an address. Empty strings mean unknown.
type GeoLocation struct {
	State   string
	City    string
	Country string
}

type GeoLocator interface {
	Lookup(ctx context.Context, ip string) (*GeoLocation, error)
}

// IPAPIClient queries an ipapi.co compatible endpoint: GET {base}/{ip}/json/.
type IPAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewIPAPIClient(baseURL string, timeout time.Duration) *IPAPIClient {
	return &IPAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type ipapiResponse struct {
	Region      string `json:"region"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

func (c *IPAPIClient) Lookup(ctx context.Context, ip string) (*GeoLocation, error) {
	endpoint := fmt.Sprintf("%s/%s/json/", c.baseURL, url.PathEscape(ip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("geolocation rate limited")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geolocation returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("read geolocation response: %w", err)
	}

	var data ipapiResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode geolocation response: %w", err)
	}
	if data.Error {
		return nil, fmt.Errorf("geolocation error: %s", data.Reason)
	}

	return &GeoLocation{
		State:   data.Region,
		City:    data.City,
		Country: data.CountryCode,
	}, nil
}
