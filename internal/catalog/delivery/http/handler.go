package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/primefinds/storefront/internal/catalog/domain"
	"github.com/primefinds/storefront/internal/catalog/usecase/query"
	"github.com/primefinds/storefront/kafka"
	"github.com/primefinds/storefront/pkg/logger"
)

// TelemetryPublisher emits view and search events. Publishing is
// fire-and-forget: responses never depend on it. A nil publisher disables
// telemetry.
type TelemetryPublisher interface {
	PublishProductViewed(ctx context.Context, event kafka.ProductViewedEvent) error
	PublishSearchPerformed(ctx context.Context, event kafka.SearchPerformedEvent) error
}

// CatalogHandler handles HTTP requests against the catalog query handlers
type CatalogHandler struct {
	searchHandler   *query.SearchProductsHandler
	getHandler      *query.GetProductHandler
	featuredHandler *query.GetFeaturedProductsHandler
	statsHandler    *query.GetStatsHandler

	repo      domain.CatalogRepository
	telemetry TelemetryPublisher

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
	catalogSize    prometheus.Gauge
}

// NewCatalogHandler creates a catalog handler and registers its metrics on
// registerer. Pass prometheus.DefaultRegisterer in production; tests use
// an isolated registry so handlers can be constructed repeatedly.
func NewCatalogHandler(repo domain.CatalogRepository, telemetry TelemetryPublisher, registerer prometheus.Registerer) *CatalogHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_service_requests_total",
			Help: "Total number of requests to the catalog service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_service_request_duration_seconds",
			Help:    "Duration of catalog service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Summary metric for percentile calculation (p50, p90, p95, p99)
	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "catalog_service_request_duration_summary",
			Help: "Summary of request durations with percentiles (client-side quantiles)",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.01,
				0.99: 0.001,
			},
			MaxAge: 10 * time.Minute,
		},
		[]string{"method", "endpoint"},
	)

	catalogSize := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_service_catalog_size",
			Help: "Number of products in the loaded catalog",
		},
	)

	registerer.MustRegister(requestCounter, requestLatency, requestSummary, catalogSize)

	h := &CatalogHandler{
		searchHandler:   query.NewSearchProductsHandler(repo),
		getHandler:      query.NewGetProductHandler(repo),
		featuredHandler: query.NewGetFeaturedProductsHandler(repo),
		statsHandler:    query.NewGetStatsHandler(repo),
		repo:            repo,
		telemetry:       telemetry,
		requestCounter:  requestCounter,
		requestLatency:  requestLatency,
		requestSummary:  requestSummary,
		catalogSize:     catalogSize,
	}

	// The catalog is immutable, so the gauge is set once
	if count, err := repo.Count(context.Background()); err == nil {
		h.catalogSize.Set(float64(count))
	}

	return h
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *CatalogHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()

		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// RegisterRoutes registers the catalog routes. Static paths go first so
// mux does not capture them as product ids.
func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", h.SearchProducts)).Methods("GET")
	router.HandleFunc("/api/products/featured", h.metricsMiddleware("/api/products/featured", h.GetFeatured)).Methods("GET")
	router.HandleFunc("/api/products/stats", h.metricsMiddleware("/api/products/stats", h.GetStats)).Methods("GET")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", h.GetProduct)).Methods("GET")
}

// SearchProducts handles GET /api/products
func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	minPrice, err := parsePriceParam(params, "min_price")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	maxPrice, err := parsePriceParam(params, "max_price")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	// Reserved fields: parsed and carried, never matched
	page, _ := strconv.Atoi(params.Get("page"))

	q := query.SearchProductsQuery{
		Keywords: params.Get("q"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Category: params.Get("category"),
		Page:     page,
	}

	products, err := h.searchHandler.Handle(r.Context(), q)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to search products")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to search products",
		})
		return
	}

	h.publishSearchPerformed(r, q, len(products))

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"products": products,
			"count":    len(products),
		},
	})
}

// GetFeatured handles GET /api/products/featured
func (h *CatalogHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	count := 0
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   fmt.Sprintf("invalid count: %q is not an integer", raw),
			})
			return
		}
		count = parsed
	}

	products, err := h.featuredHandler.Handle(r.Context(), query.GetFeaturedProductsQuery{Count: count})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to get featured products")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to get featured products",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"products": products,
			"count":    len(products),
		},
	})
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	product, err := h.getHandler.Handle(r.Context(), query.GetProductQuery{ID: id})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Product not found",
			})
			return
		}
		logger.Error(r.Context()).Err(err).Str("product_id", id).Msg("Failed to get product")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to get product",
		})
		return
	}

	h.publishProductViewed(r, product)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    product,
	})
}

// GetStats handles GET /api/products/stats
func (h *CatalogHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to get stats")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to get statistics",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    stats,
	})
}

// RegisterHealthCheck registers the liveness endpoint.
func (h *CatalogHandler) RegisterHealthCheck(router *mux.Router) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		count, err := h.repo.Count(r.Context())
		if err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Catalog unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Catalog service is healthy",
			Data: map[string]interface{}{
				"catalog_size": count,
			},
		})
	}).Methods("GET")
}

func (h *CatalogHandler) publishProductViewed(r *http.Request, product *domain.Product) {
	if h.telemetry == nil {
		return
	}

	// Detached from the request lifecycle but keeps the trace link
	ctx := context.WithoutCancel(r.Context())
	event := kafka.ProductViewedEvent{
		ProductID: product.ID,
		Title:     product.Title,
		Brand:     product.Brand,
		Source:    kafka.SourceHTTP,
	}

	go func() {
		_ = h.telemetry.PublishProductViewed(ctx, event)
	}()
}

func (h *CatalogHandler) publishSearchPerformed(r *http.Request, q query.SearchProductsQuery, resultCount int) {
	if h.telemetry == nil {
		return
	}

	ctx := context.WithoutCancel(r.Context())
	event := kafka.SearchPerformedEvent{
		Keywords:    q.Keywords,
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		ResultCount: resultCount,
		Source:      kafka.SourceHTTP,
	}

	go func() {
		_ = h.telemetry.PublishSearchPerformed(ctx, event)
	}()
}

func parsePriceParam(values url.Values, name string) (*float64, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q is not a number", name, raw)
	}
	return &parsed, nil
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
