package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/primefinds/storefront/api-gateway/config"
	"github.com/primefinds/storefront/api-gateway/health"
	"github.com/primefinds/storefront/api-gateway/middleware"
	"github.com/primefinds/storefront/api-gateway/proxy"
)

// RouteDefinition defines a route mapping
type RouteDefinition struct {
	Prefix      string
	ServiceName string
	Description string
	RateLimited bool // Stricter per-client limit on top of the global one
}

// Routes holds all route definitions. The storefront surface is entirely
// public and read-only.
var Routes = []RouteDefinition{
	{
		Prefix:      "/api/products",
		ServiceName: "catalog",
		Description: "Catalog search, featured and detail endpoints",
		RateLimited: true,
	},
	{
		Prefix:      "/health",
		ServiceName: "catalog",
		Description: "Catalog liveness",
	},
	{
		Prefix:      "/api/analytics",
		ServiceName: "analytics",
		Description: "View/search aggregates (top products)",
	},
}

// SetupRoutes configures all routes in the gateway
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig, cbManager *middleware.CircuitBreakerManager, redisClient *redis.Client) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	healthChecker := health.NewHealthChecker(cfg)

	// Keep rotations aligned with instance health for the process lifetime
	watcher := health.NewInstanceWatcher(healthChecker, cfg, reverseProxy.GetLoadBalancers(), 15*time.Second)
	go watcher.Run(context.Background())

	// Gateway quick health check (no downstream checks)
	app.Get("/gateway/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	// Liveness probe (for Kubernetes)
	app.Get("/gateway/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "alive",
		})
	})

	// Readiness probe (checks downstream instances)
	app.Get("/gateway/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAllServices(ctx)

		statusCode := fiber.StatusOK
		if healthStatus.Status == "unhealthy" {
			statusCode = fiber.StatusServiceUnavailable
		}

		return c.Status(statusCode).JSON(healthStatus)
	})

	// Detailed instance states plus balancer and breaker stats
	app.Get("/gateway/services", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		balancers := make(map[string]interface{})
		for name, lb := range reverseProxy.GetLoadBalancers() {
			balancers[name] = lb.GetStats()
		}

		return c.JSON(fiber.Map{
			"health":           healthChecker.CheckAllServices(ctx),
			"load_balancers":   balancers,
			"circuit_breakers": cbManager.GetAllStats(),
		})
	})

	// API routes overview
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Storefront API Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	// Register all service routes
	for _, route := range Routes {
		registerServiceRoutes(app, route, reverseProxy, redisClient)
	}
}

// registerServiceRoutes registers all HTTP methods for a service prefix
func registerServiceRoutes(app *fiber.App, route RouteDefinition, proxyHandler *proxy.ReverseProxy, redisClient *redis.Client) {
	handler := func(c *fiber.Ctx) error {
		return proxyHandler.ProxyRequest(c, route.ServiceName)
	}

	var middlewares []fiber.Handler
	if route.RateLimited && redisClient != nil {
		middlewares = append(middlewares, middleware.SearchRateLimiter(redisClient))
	}

	group := app.Group(route.Prefix, middlewares...)

	// Handle all HTTP methods with wildcard path
	group.All("/*", handler)

	// Also handle the exact prefix path (without /*)
	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}
