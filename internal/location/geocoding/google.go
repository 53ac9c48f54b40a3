package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const defaultGoogleURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleClient wraps the Google Maps Geocoding API.
type GoogleClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewGoogleClient(cfg Config) *GoogleClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &GoogleClient{
		apiKey:     cfg.APIKey,
		baseURL:    defaultGoogleURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *GoogleClient) Name() string { return "google" }

type googleResponse struct {
	Results []googleResult `json:"results"`
	Status  string         `json:"status"`
}

type googleResult struct {
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

func (c *GoogleClient) Geocode(ctx context.Context, address string) (float64, float64, error) {
	u := fmt.Sprintf("%s?address=%s&key=%s",
		c.baseURL, url.QueryEscape(address), c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: creating request: %v", ErrService, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("%w: geocoding API returned HTTP %d: check that Geocoding API is enabled", ErrService, resp.StatusCode)
	}

	var geoResp googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&geoResp); err != nil {
		return 0, 0, fmt.Errorf("%w: decoding response: %v", ErrService, err)
	}

	switch geoResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return 0, 0, ErrAddressNotFound
	default:
		return 0, 0, fmt.Errorf("%w: status=%s (check API key permissions)", ErrService, geoResp.Status)
	}

	if len(geoResp.Results) == 0 {
		return 0, 0, ErrAddressNotFound
	}

	loc := geoResp.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}
