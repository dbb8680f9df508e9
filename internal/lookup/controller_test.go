package lookup_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/weather-lookup-service/internal/adapter/lookupapi"
	"github.com/couchcryptid/weather-lookup-service/internal/domain"
	"github.com/couchcryptid/weather-lookup-service/internal/lookup"
	"github.com/couchcryptid/weather-lookup-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

// stubFetcher delegates to a respond func and records every requested city.
type stubFetcher struct {
	mu      sync.Mutex
	cities  []string
	respond func(city string) (domain.WeatherReport, error)
}

func (f *stubFetcher) FetchWeather(_ context.Context, city string) (domain.WeatherReport, error) {
	f.mu.Lock()
	f.cities = append(f.cities, city)
	f.mu.Unlock()
	return f.respond(city)
}

func (f *stubFetcher) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.cities))
	copy(out, f.cities)
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newController(f domain.WeatherFetcher) *lookup.Controller {
	return lookup.New(f, observability.NewMetricsForTesting(), discardLogger())
}

// newBackend starts an httptest server speaking the lookup wire contract and
// returns a controller wired to it through the real HTTP client.
func newBackend(t *testing.T, handler http.HandlerFunc) *lookup.Controller {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newController(lookupapi.NewClient(srv.URL, 5*time.Second))
}

// --- controller tests ---

func TestController_InitialViewEmpty(t *testing.T) {
	c := newController(&stubFetcher{})

	v := c.View()
	assert.Empty(t, v.City)
	assert.Nil(t, v.Result)
	assert.Empty(t, v.ErrorMessage)
}

func TestController_Success(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "London", r.URL.Query().Get("city"))
		require.NoError(t, json.NewEncoder(w).Encode(domain.WeatherReport{
			City: "London", TemperatureC: 15, Description: "Cloudy",
		}))
	})

	c.SetCity("London")
	<-c.SubmitQuery(context.Background())

	v := c.View()
	require.NotNil(t, v.Result)
	assert.Equal(t, "London", v.Result.City)
	assert.Equal(t, 15.0, v.Result.TemperatureC)
	assert.Equal(t, "Cloudy", v.Result.Description)
	assert.Empty(t, v.ErrorMessage)

	rendered := lookup.Render(v)
	assert.Contains(t, rendered, "London")
	assert.Contains(t, rendered, "15°C")
	assert.Contains(t, rendered, "Cloudy")
}

func TestController_NotFoundCollapsesToFixedMessage(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"City not found"}`))
	})

	c.SetCity("Nowhereville")
	<-c.SubmitQuery(context.Background())

	v := c.View()
	assert.Nil(t, v.Result)
	assert.Equal(t, domain.LookupFailedMessage, v.ErrorMessage)
}

func TestController_ConnectionRefusedSameMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // backend unreachable

	c := newController(lookupapi.NewClient(srv.URL, time.Second))
	c.SetCity("London")
	<-c.SubmitQuery(context.Background())

	v := c.View()
	assert.Nil(t, v.Result)
	assert.Equal(t, domain.LookupFailedMessage, v.ErrorMessage,
		"unreachable backend must be indistinguishable from a missing city")
}

func TestController_MalformedBodySameMessage(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not-json{{{"))
	})

	c.SetCity("London")
	<-c.SubmitQuery(context.Background())

	v := c.View()
	assert.Nil(t, v.Result)
	assert.Equal(t, domain.LookupFailedMessage, v.ErrorMessage)
}

func TestController_EmptyCityStillSubmitted(t *testing.T) {
	var gotCity *string
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		city := r.URL.Query().Get("city")
		gotCity = &city
		// Backend answers a missing city with an error body and HTTP 200.
		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{"error": "City parameter is required"}))
	})

	<-c.SubmitQuery(context.Background())

	require.NotNil(t, gotCity, "request must be issued even with an empty city")
	assert.Empty(t, *gotCity)

	// A 2xx body is taken verbatim: result set (zero-valued), no error.
	v := c.View()
	require.NotNil(t, v.Result)
	assert.Equal(t, domain.WeatherReport{}, *v.Result)
	assert.Empty(t, v.ErrorMessage)
}

func TestController_SecondCompletionReplacesFirst(t *testing.T) {
	f := &stubFetcher{respond: func(city string) (domain.WeatherReport, error) {
		if city == "Nowhereville" {
			return domain.WeatherReport{}, errors.New("status 404")
		}
		return domain.WeatherReport{City: city, TemperatureC: 15, Description: "Cloudy"}, nil
	}}
	c := newController(f)

	c.SetCity("London")
	<-c.SubmitQuery(context.Background())
	require.NotNil(t, c.View().Result)

	// Failure fully replaces the prior result.
	c.SetCity("Nowhereville")
	<-c.SubmitQuery(context.Background())
	v := c.View()
	assert.Nil(t, v.Result)
	assert.Equal(t, domain.LookupFailedMessage, v.ErrorMessage)

	// And a success fully replaces the failure again.
	c.SetCity("Berlin")
	<-c.SubmitQuery(context.Background())
	v = c.View()
	require.NotNil(t, v.Result)
	assert.Equal(t, "Berlin", v.Result.City)
	assert.Empty(t, v.ErrorMessage)
}

func TestController_RepeatedQueryIsIdempotent(t *testing.T) {
	f := &stubFetcher{respond: func(city string) (domain.WeatherReport, error) {
		return domain.WeatherReport{City: city, TemperatureC: 7.5, Description: "Light rain"}, nil
	}}
	c := newController(f)

	c.SetCity("Oslo")
	<-c.SubmitQuery(context.Background())
	first := c.View()

	<-c.SubmitQuery(context.Background())
	second := c.View()

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"Oslo", "Oslo"}, f.requested())
}

func TestController_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	f := &stubFetcher{respond: func(city string) (domain.WeatherReport, error) {
		if city == "Slowtown" {
			<-release
		}
		return domain.WeatherReport{City: city}, nil
	}}
	c := newController(f)

	c.SetCity("Slowtown")
	slowDone := c.SubmitQuery(context.Background())

	c.SetCity("Fasttown")
	<-c.SubmitQuery(context.Background())

	v := c.View()
	require.NotNil(t, v.Result)
	assert.Equal(t, "Fasttown", v.Result.City)

	// Let the earlier submission finish late; it must not overwrite state.
	close(release)
	<-slowDone

	v = c.View()
	require.NotNil(t, v.Result)
	assert.Equal(t, "Fasttown", v.Result.City, "stale response must be discarded silently")
	assert.Empty(t, v.ErrorMessage)
}

func TestController_SubmitClearsErrorImmediately(t *testing.T) {
	release := make(chan struct{})
	f := &stubFetcher{respond: func(city string) (domain.WeatherReport, error) {
		if city == "Blockington" {
			<-release
			return domain.WeatherReport{City: city}, nil
		}
		return domain.WeatherReport{}, errors.New("boom")
	}}
	c := newController(f)

	c.SetCity("Failville")
	<-c.SubmitQuery(context.Background())
	require.Equal(t, domain.LookupFailedMessage, c.View().ErrorMessage)

	c.SetCity("Blockington")
	done := c.SubmitQuery(context.Background())

	assert.Empty(t, c.View().ErrorMessage, "submitting clears the previous error before completion")

	close(release)
	<-done
	require.NotNil(t, c.View().Result)
}

// --- render tests ---

func TestRender_ResultBlock(t *testing.T) {
	v := lookup.View{
		City:   "London",
		Result: &domain.WeatherReport{City: "London", TemperatureC: 15, Description: "Cloudy"},
	}

	out := lookup.Render(v)
	assert.Equal(t, "City: London\n  London\n  15°C\n  Cloudy\n", out)
}

func TestRender_ErrorLine(t *testing.T) {
	v := lookup.View{City: "Nowhereville", ErrorMessage: domain.LookupFailedMessage}

	out := lookup.Render(v)
	assert.Equal(t, "City: Nowhereville\n  City not found or server error\n", out)
}

func TestRender_InitialState(t *testing.T) {
	out := lookup.Render(lookup.View{})
	assert.Equal(t, "City: \n", out)
}

func TestFormatTemperature(t *testing.T) {
	assert.Equal(t, "15", lookup.FormatTemperature(15))
	assert.Equal(t, "15.5", lookup.FormatTemperature(15.5))
	assert.Equal(t, "-3.2", lookup.FormatTemperature(-3.2))
	assert.Equal(t, "0", lookup.FormatTemperature(0))
}
