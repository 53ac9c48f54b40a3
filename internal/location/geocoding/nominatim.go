package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const defaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimClient geocodes against a Nominatim/OpenStreetMap instance.
type NominatimClient struct {
	baseURL    string
	httpClient *http.Client

	// Nominatim's usage policy caps anonymous clients at one request per
	// second; the limiter enforces it process-wide for this client.
	limiter *rate.Limiter
}

func NewNominatimClient(cfg Config) *NominatimClient {
	base := cfg.NominatimURL
	if base == "" {
		base = defaultNominatimURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &NominatimClient{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (c *NominatimClient) Name() string { return "nominatim" }

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode takes the first (best-ranked) Nominatim result.
func (c *NominatimClient) Geocode(ctx context.Context, address string) (float64, float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrService, err)
	}

	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: creating request: %v", ErrService, err)
	}
	// Nominatim requires an identifying User-Agent.
	req.Header.Set("User-Agent", "OA-Backend/1.0 (open advocacy platform)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("%w: nominatim returned HTTP %d", ErrService, resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("%w: decoding response: %v", ErrService, err)
	}

	if len(results) == 0 {
		return 0, 0, ErrAddressNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad latitude %q", ErrService, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad longitude %q", ErrService, results[0].Lon)
	}

	return lat, lon, nil
}
