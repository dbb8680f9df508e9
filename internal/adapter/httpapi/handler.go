package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/weather-lookup-service/internal/audit"
	"github.com/couchcryptid/weather-lookup-service/internal/domain"
	"github.com/couchcryptid/weather-lookup-service/internal/observability"
)

// WeatherProvider fetches current conditions from the upstream weather API.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, city string) (domain.WeatherReport, error)
}

// AuditPublisher records completed lookups on the audit topic.
type AuditPublisher interface {
	Publish(ctx context.Context, event audit.Event) error
}

// WeatherHandler serves GET /weather?city= with the widget's wire contract.
type WeatherHandler struct {
	provider WeatherProvider
	auditor  AuditPublisher // nil when the audit trail is disabled
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewWeatherHandler creates the lookup handler. auditor may be nil.
func NewWeatherHandler(provider WeatherProvider, auditor AuditPublisher, metrics *observability.Metrics, logger *slog.Logger) *WeatherHandler {
	return &WeatherHandler{
		provider: provider,
		auditor:  auditor,
		metrics:  metrics,
		logger:   logger,
	}
}

// CheckReadiness reports whether the handler can serve lookups.
func (h *WeatherHandler) CheckReadiness(_ context.Context) error {
	if h.provider == nil {
		return errors.New("weather provider not configured")
	}
	return nil
}

// handleWeather proxies one city lookup to the upstream provider.
//
// Status mapping, kept contract-compatible with the service this replaces:
// a missing city parameter answers 200 with an error body (clients decode any
// 2xx body verbatim); any non-200 upstream status collapses to 404 "City not
// found"; transport or decoding failures answer 500 "Server error".
func (h *WeatherHandler) handleWeather(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	city := r.URL.Query().Get("city")

	if city == "" {
		h.metrics.LookupRequests.WithLabelValues("missing_city").Inc()
		writeJSON(w, http.StatusOK, map[string]string{"error": "City parameter is required"})
		return
	}

	report, err := h.provider.CurrentWeather(r.Context(), city)

	var statusErr *domain.UpstreamStatusError
	switch {
	case errors.As(err, &statusErr):
		h.logger.Info("city not found upstream", "city", city, "upstream_status", statusErr.Code)
		h.metrics.LookupRequests.WithLabelValues("not_found").Inc()
		h.recordLookup(city, audit.OutcomeNotFound, nil)
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "City not found"})

	case err != nil:
		h.logger.Error("upstream lookup failed", "city", city, "error", err)
		h.metrics.LookupRequests.WithLabelValues("error").Inc()
		h.recordLookup(city, audit.OutcomeError, nil)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Server error",
			"details": err.Error(),
		})

	default:
		h.metrics.LookupRequests.WithLabelValues("success").Inc()
		h.recordLookup(city, audit.OutcomeSuccess, &report)
		writeJSON(w, http.StatusOK, report)
		h.logger.Info("lookup served",
			"city", city,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// recordLookup publishes an audit event without blocking the response. The
// request context is not used: the publish must outlive the handler.
func (h *WeatherHandler) recordLookup(city, outcome string, report *domain.WeatherReport) {
	if h.auditor == nil {
		return
	}
	event := audit.NewEvent(city, outcome, report)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.auditor.Publish(ctx, event) // failures logged and counted by the publisher
	}()
}
