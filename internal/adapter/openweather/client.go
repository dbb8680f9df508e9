package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/weather-lookup-service/internal/domain"
	"github.com/couchcryptid/weather-lookup-service/internal/observability"
)

// Client fetches current weather conditions from the OpenWeatherMap API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap current weather client.
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

// CurrentWeather fetches current conditions for a city and maps them onto the
// lookup contract. Returns a *domain.UpstreamStatusError for any non-200
// upstream status.
func (c *Client) CurrentWeather(ctx context.Context, city string) (domain.WeatherReport, error) {
	params := url.Values{
		"q":     {city},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("current weather request: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherReport{}, &domain.UpstreamStatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var owmResp response
	if err := json.NewDecoder(resp.Body).Decode(&owmResp); err != nil {
		return domain.WeatherReport{}, fmt.Errorf("decode response: %w", err)
	}

	report := domain.WeatherReport{
		City:         owmResp.Name,
		TemperatureC: owmResp.Main.Temp,
	}
	if len(owmResp.Weather) > 0 {
		report.Description = domain.CapitalizeDescription(owmResp.Weather[0].Description)
	}
	return report, nil
}

// OpenWeatherMap API response types.

type response struct {
	Name string `json:"name"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}
