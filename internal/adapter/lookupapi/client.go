package lookupapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/weather-lookup-service/internal/domain"
)

// Client implements domain.WeatherFetcher against the lookup backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a lookup backend client. baseURL is the backend root,
// e.g. "http://localhost:8080"; it is supplied explicitly so the widget can
// be tested in isolation rather than reading ambient environment state.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchWeather performs GET {baseURL}/weather?city=<city>. Any 2xx response
// with a decodable JSON body is a success; the body is returned verbatim with
// no schema validation, so absent fields stay zero-valued. An empty city is
// still sent as ?city= with an empty value.
func (c *Client) FetchWeather(ctx context.Context, city string) (domain.WeatherReport, error) {
	params := url.Values{"city": {city}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+params.Encode(), nil)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherReport{}, fmt.Errorf("lookup API error: status %d: %s", resp.StatusCode, body)
	}

	var report domain.WeatherReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return domain.WeatherReport{}, fmt.Errorf("decode response: %w", err)
	}
	return report, nil
}
