package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/primefinds/storefront/api-gateway/config"
	"github.com/primefinds/storefront/api-gateway/loadbalancer"
	"github.com/primefinds/storefront/pkg/logger"
)

const (
	maxAttempts    = 3
	initialBackoff = 100 * time.Millisecond
)

// ReverseProxy forwards requests to backend services with round-robin
// balancing and retries. Transport errors and 5xx responses are retried
// on the next instance with exponential backoff; 4xx responses pass
// through untouched.
type ReverseProxy struct {
	config        *config.GatewayConfig
	client        *http.Client
	loadBalancers map[string]*loadbalancer.RoundRobin
}

// NewReverseProxy creates a reverse proxy with one load balancer per
// configured service.
func NewReverseProxy(cfg *config.GatewayConfig) *ReverseProxy {
	loadBalancers := make(map[string]*loadbalancer.RoundRobin)
	for name, svc := range cfg.Services {
		loadBalancers[name] = loadbalancer.NewRoundRobin(svc.Instances)
	}

	return &ReverseProxy{
		config:        cfg,
		loadBalancers: loadBalancers,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ProxyRequest forwards the request to the named service.
func (p *ReverseProxy) ProxyRequest(c *fiber.Ctx, serviceName string) error {
	lb, lbExists := p.loadBalancers[serviceName]
	if !lbExists {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fmt.Sprintf("Load balancer for '%s' not found", serviceName),
		})
	}

	svc := p.config.Services[serviceName]

	var lastErr error
	backoff := initialBackoff

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		instance := lb.Next()
		if instance == "" {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": fmt.Sprintf("No available instances for '%s'", serviceName),
			})
		}

		resp, err := p.forward(c, instance, svc.Timeout)
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			defer resp.Body.Close()
			return p.writeResponse(c, resp)
		}

		if err != nil {
			lastErr = err
		} else {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("instance returned status %d", resp.StatusCode)
		}

		logger.Logger.Warn().
			Err(lastErr).
			Str("service", serviceName).
			Str("instance", instance).
			Int("attempt", attempt).
			Msg("Proxy attempt failed")

		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}

	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error":    "Failed to reach backend service",
		"service":  serviceName,
		"attempts": maxAttempts,
		"details":  lastErr.Error(),
	})
}

// forward executes a single attempt against one instance.
func (p *ReverseProxy) forward(c *fiber.Ctx, instance string, timeout time.Duration) (*http.Response, error) {
	ctx := c.UserContext()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(
		ctx,
		c.Method(),
		p.buildTargetURL(c, instance),
		bytes.NewReader(c.Body()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	p.copyHeaders(c, req)

	return p.client.Do(req)
}

// buildTargetURL constructs the full URL for one instance, preserving
// path and query string.
func (p *ReverseProxy) buildTargetURL(c *fiber.Ctx, instance string) string {
	path := string(c.Request().URI().Path())

	queryString := string(c.Request().URI().QueryString())
	if queryString != "" {
		queryString = "?" + queryString
	}

	return instance + path + queryString
}

// GetLoadBalancers returns all load balancers (for stats)
func (p *ReverseProxy) GetLoadBalancers() map[string]*loadbalancer.RoundRobin {
	return p.loadBalancers
}

// copyHeaders copies relevant headers from Fiber context to http.Request
func (p *ReverseProxy) copyHeaders(c *fiber.Ctx, req *http.Request) {
	c.Request().Header.VisitAll(func(key, value []byte) {
		keyStr := string(key)
		if strings.ToLower(keyStr) == "host" {
			return
		}
		req.Header.Set(keyStr, string(value))
	})

	// Forwarding headers for the backend's access logs
	req.Header.Set("X-Forwarded-For", c.IP())
	req.Header.Set("X-Forwarded-Proto", c.Protocol())
	req.Header.Set("X-Forwarded-Host", c.Hostname())
}

// writeResponse copies the backend response into the Fiber context.
func (p *ReverseProxy) writeResponse(c *fiber.Ctx, resp *http.Response) error {
	for key, values := range resp.Header {
		if strings.ToLower(key) == "content-length" {
			continue
		}
		for _, value := range values {
			c.Set(key, value)
		}
	}

	c.Status(resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read response",
		})
	}

	return c.Send(body)
}
