package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/primefinds/storefront/kafka"
)

const defaultRankingLimit = 10

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AnalyticsHandler serves rankings built from consumed telemetry events
type AnalyticsHandler struct {
	aggregator *Aggregator

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	eventsConsumed *prometheus.CounterVec
}

// NewAnalyticsHandler creates the handler and registers its metrics on
// registerer.
func NewAnalyticsHandler(aggregator *Aggregator, registerer prometheus.Registerer) *AnalyticsHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_service_requests_total",
			Help: "Total number of requests to the analytics service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_service_request_duration_seconds",
			Help:    "Duration of analytics service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	eventsConsumed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_service_events_consumed_total",
			Help: "Total number of telemetry events consumed from Kafka",
		},
		[]string{"event_type"},
	)

	registerer.MustRegister(requestCounter, requestLatency, eventsConsumed)

	return &AnalyticsHandler{
		aggregator:     aggregator,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		eventsConsumed: eventsConsumed,
	}
}

// HandleProductViewed counts the event and folds it into the aggregator.
// It matches the kafka consumer handler signature.
func (h *AnalyticsHandler) HandleProductViewed(ctx context.Context, event kafka.ProductViewedEvent) error {
	h.eventsConsumed.WithLabelValues(kafka.EventTypeProductViewed).Inc()
	return h.aggregator.HandleProductViewed(ctx, event)
}

// HandleSearchPerformed counts the event and folds it into the aggregator.
func (h *AnalyticsHandler) HandleSearchPerformed(ctx context.Context, event kafka.SearchPerformedEvent) error {
	h.eventsConsumed.WithLabelValues(kafka.EventTypeSearchPerformed).Inc()
	return h.aggregator.HandleSearchPerformed(ctx, event)
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (h *AnalyticsHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()

		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// RegisterRoutes registers the analytics routes.
func (h *AnalyticsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/analytics/top-products", h.metricsMiddleware("/api/analytics/top-products", h.TopProducts)).Methods("GET")
	router.HandleFunc("/api/analytics/top-searches", h.metricsMiddleware("/api/analytics/top-searches", h.TopSearches)).Methods("GET")
	router.HandleFunc("/api/analytics/stats", h.metricsMiddleware("/api/analytics/stats", h.Stats)).Methods("GET")
}

// TopProducts handles GET /api/analytics/top-products
func (h *AnalyticsHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, defaultRankingLimit)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	ranking := h.aggregator.TopProducts(limit)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"products": ranking,
			"count":    len(ranking),
		},
	})
}

// TopSearches handles GET /api/analytics/top-searches
func (h *AnalyticsHandler) TopSearches(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, defaultRankingLimit)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	ranking := h.aggregator.TopSearches(limit)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"searches": ranking,
			"count":    len(ranking),
		},
	})
}

// Stats handles GET /api/analytics/stats
func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	views, searches := h.aggregator.Totals()
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"total_views":    views,
			"total_searches": searches,
		},
	})
}

// RegisterHealthCheck registers the liveness endpoint.
func (h *AnalyticsHandler) RegisterHealthCheck(router *mux.Router) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		views, searches := h.aggregator.Totals()
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Analytics service is healthy",
			Data: map[string]interface{}{
				"total_views":    views,
				"total_searches": searches,
			},
		})
	}).Methods("GET")
}

func parseLimit(r *http.Request, defaultValue int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultValue, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid limit: %q is not an integer", raw)
	}
	if limit <= 0 {
		return defaultValue, nil
	}
	return limit, nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
