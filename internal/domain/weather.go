package domain

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// LookupFailedMessage is the only failure text the widget ever shows. Network
// errors, non-2xx statuses, and malformed bodies all collapse into it.
const LookupFailedMessage = "City not found or server error"

// WeatherReport is the successful response shape of GET /weather?city=.
// Field presence is not validated anywhere; absent fields stay zero-valued.
type WeatherReport struct {
	City         string  `json:"city"`
	TemperatureC float64 `json:"temperature"`
	Description  string  `json:"description"`
}

// LookupError is the failure indicator shown to the user, detail-free.
type LookupError struct {
	Message string `json:"error"`
}

func (e *LookupError) Error() string { return e.Message }

// NewLookupError returns the fixed, cause-independent lookup failure.
func NewLookupError() *LookupError {
	return &LookupError{Message: LookupFailedMessage}
}

// UpstreamStatusError reports a non-200 response from the upstream weather
// provider. The backend maps any such error to its "City not found" response,
// regardless of the actual upstream status.
type UpstreamStatusError struct {
	Code int
	Body string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream weather API error: status %d: %s", e.Code, e.Body)
}

// WeatherFetcher issues the widget's single outbound call.
type WeatherFetcher interface {
	// FetchWeather performs GET {baseURL}/weather?city=<city> and decodes the
	// body. Any transport, status, or decoding failure is returned as an error;
	// callers are expected to collapse it per the contract.
	FetchWeather(ctx context.Context, city string) (WeatherReport, error)
}

// CapitalizeDescription uppercases the first rune and lowercases the rest,
// matching how upstream descriptions are presented ("light rain" -> "Light rain").
func CapitalizeDescription(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
