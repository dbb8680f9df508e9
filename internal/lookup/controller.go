// Package lookup implements the widget's controller: a single-owner state
// container holding the query text and the outcome of the most recent
// submission, with all mutation confined behind one mutex.
package lookup

import (
	"context"
	"log/slog"
	"sync"

	"github.com/couchcryptid/weather-lookup-service/internal/domain"
	"github.com/couchcryptid/weather-lookup-service/internal/observability"
)

// Controller drives weather lookups for one input field. It holds three
// pieces of state: the editable city name, the last successful report, and
// the last failure. Report and failure are mutually exclusive; applying one
// clears the other.
type Controller struct {
	fetcher domain.WeatherFetcher
	metrics *observability.Metrics
	logger  *slog.Logger

	mu     sync.Mutex
	city   string
	result *domain.WeatherReport
	err    *domain.LookupError
	seq    uint64 // token of the most recently issued submission
}

// New creates a Controller around the given fetcher. The fetcher carries its
// own base URL; the controller never reads ambient configuration.
func New(fetcher domain.WeatherFetcher, metrics *observability.Metrics, logger *slog.Logger) *Controller {
	return &Controller{
		fetcher: fetcher,
		metrics: metrics,
		logger:  logger,
	}
}

// SetCity replaces the query text. No trimming or validation is applied.
func (c *Controller) SetCity(city string) {
	c.mu.Lock()
	c.city = city
	c.mu.Unlock()
}

// SubmitQuery clears the current failure and issues one asynchronous lookup
// for the query text as-is — an empty city is still submitted. The returned
// channel closes once this submission's outcome has been applied or discarded.
//
// Overlapping submissions are sequenced by token: only the completion matching
// the latest issued token may update state. A slow earlier response can never
// overwrite a faster later one; it is counted and dropped silently.
func (c *Controller) SubmitQuery(ctx context.Context) <-chan struct{} {
	c.mu.Lock()
	c.err = nil
	c.seq++
	token := c.seq
	city := c.city
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		report, err := c.fetcher.FetchWeather(ctx, city)
		c.apply(token, city, report, err)
	}()
	return done
}

func (c *Controller) apply(token uint64, city string, report domain.WeatherReport, fetchErr error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.seq {
		c.metrics.StaleDiscarded.Inc()
		c.logger.Debug("discarding stale lookup response", "city", city, "token", token, "latest", c.seq)
		return
	}

	if fetchErr != nil {
		c.logger.Warn("weather lookup failed", "city", city, "error", fetchErr)
		c.result = nil
		c.err = domain.NewLookupError()
		c.metrics.WidgetLookups.WithLabelValues("failure").Inc()
		return
	}

	r := report
	c.result = &r
	c.err = nil
	c.metrics.WidgetLookups.WithLabelValues("success").Inc()
}

// View is the derived, render-ready state of the widget.
type View struct {
	City         string
	Result       *domain.WeatherReport // nil when no result block should render
	ErrorMessage string                // empty when no error line should render
}

// View returns a snapshot of the current state. At most one of Result and
// ErrorMessage is set; both are absent in the initial state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{City: c.city}
	if c.result != nil {
		r := *c.result
		v.Result = &r
	}
	if c.err != nil {
		v.ErrorMessage = c.err.Message
	}
	return v
}
