package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/primefinds/storefront/api-gateway/config"
	"github.com/primefinds/storefront/pkg/logger"
)

// InstanceHealth represents the health status of one backend instance
type InstanceHealth struct {
	URL       string    `json:"url"`
	Status    string    `json:"status"` // healthy, unhealthy
	Latency   int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ServiceHealth aggregates the instances of one backend service
type ServiceHealth struct {
	Name      string           `json:"name"`
	Status    string           `json:"status"` // healthy, degraded, unhealthy
	Instances []InstanceHealth `json:"instances"`
}

// GatewayHealth represents the overall gateway health
type GatewayHealth struct {
	Gateway  string                   `json:"gateway"`
	Status   string                   `json:"status"` // healthy, degraded, unhealthy
	Services map[string]ServiceHealth `json:"services"`
	Uptime   float64                  `json:"uptime_seconds"`
}

// HealthChecker checks health of downstream catalog and analytics instances
type HealthChecker struct {
	config    *config.GatewayConfig
	client    *http.Client
	startTime time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(cfg *config.GatewayConfig) *HealthChecker {
	return &HealthChecker{
		config: cfg,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		startTime: time.Now(),
	}
}

// CheckInstance checks health of a single backend instance
func (h *HealthChecker) CheckInstance(ctx context.Context, instance, healthPath string) InstanceHealth {
	start := time.Now()

	result := InstanceHealth{
		URL:       instance,
		Timestamp: time.Now(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, instance+healthPath, nil)
	if err != nil {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Failed to create request: %v", err)
		result.Latency = time.Since(start).Milliseconds()
		return result
	}

	resp, err := h.client.Do(req)
	if err != nil {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Failed to reach instance: %v", err)
		result.Latency = time.Since(start).Milliseconds()
		return result
	}
	defer resp.Body.Close()

	result.Latency = time.Since(start).Milliseconds()

	if resp.StatusCode == http.StatusOK {
		result.Status = "healthy"
	} else {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Unexpected status code: %d", resp.StatusCode)
	}

	return result
}

// CheckService checks every instance of one service concurrently
func (h *HealthChecker) CheckService(ctx context.Context, name string, svc config.ServiceConfig) ServiceHealth {
	instances := make([]InstanceHealth, len(svc.Instances))
	var wg sync.WaitGroup

	for i, instance := range svc.Instances {
		wg.Add(1)
		go func(idx int, url string) {
			defer wg.Done()
			instances[idx] = h.CheckInstance(ctx, url, svc.HealthCheck)
		}(i, instance)
	}

	wg.Wait()

	result := ServiceHealth{
		Name:      svc.Name,
		Status:    aggregateStatus(instances),
		Instances: instances,
	}

	if result.Status == "healthy" {
		logger.Logger.Debug().
			Str("service", name).
			Str("status", result.Status).
			Int("instances", len(instances)).
			Msg("Service health check")
	} else {
		logger.Logger.Warn().
			Str("service", name).
			Str("status", result.Status).
			Int("instances", len(instances)).
			Msg("Service health check degraded")
	}

	return result
}

// CheckAllServices checks health of all downstream services concurrently
func (h *HealthChecker) CheckAllServices(ctx context.Context) GatewayHealth {
	services := make(map[string]ServiceHealth)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, svc := range h.config.Services {
		wg.Add(1)
		go func(n string, s config.ServiceConfig) {
			defer wg.Done()
			result := h.CheckService(ctx, n, s)

			mu.Lock()
			services[n] = result
			mu.Unlock()
		}(name, svc)
	}

	wg.Wait()

	return GatewayHealth{
		Gateway:  "api-gateway",
		Status:   overallStatus(services),
		Services: services,
		Uptime:   time.Since(h.startTime).Seconds(),
	}
}

// aggregateStatus folds per-instance states into a service state.
func aggregateStatus(instances []InstanceHealth) string {
	if len(instances) == 0 {
		return "unhealthy"
	}

	healthy := 0
	for _, inst := range instances {
		if inst.Status == "healthy" {
			healthy++
		}
	}

	switch {
	case healthy == len(instances):
		return "healthy"
	case healthy > 0:
		return "degraded"
	default:
		return "unhealthy"
	}
}

// overallStatus folds per-service states into the gateway state.
func overallStatus(services map[string]ServiceHealth) string {
	healthy := 0
	for _, svc := range services {
		if svc.Status == "healthy" {
			healthy++
		}
	}

	switch {
	case healthy == len(services):
		return "healthy"
	case healthy > 0:
		return "degraded"
	default:
		return "unhealthy"
	}
}

// QuickCheck performs a quick health check (just gateway itself)
func (h *HealthChecker) QuickCheck() map[string]interface{} {
	return map[string]interface{}{
		"status":    "healthy",
		"gateway":   "api-gateway",
		"uptime":    time.Since(h.startTime).Seconds(),
		"timestamp": time.Now(),
	}
}
