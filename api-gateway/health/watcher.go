package health

import (
	"context"
	"time"

	"github.com/primefinds/storefront/api-gateway/config"
	"github.com/primefinds/storefront/api-gateway/loadbalancer"
	"github.com/primefinds/storefront/pkg/logger"
)

// InstanceWatcher keeps the load balancer rotations aligned with instance
// health: unhealthy instances are evicted from rotation and re-added once
// their health endpoint recovers. The configured instance lists stay
// authoritative; the watcher only toggles membership.
type InstanceWatcher struct {
	checker   *HealthChecker
	config    *config.GatewayConfig
	balancers map[string]*loadbalancer.RoundRobin
	interval  time.Duration
}

// NewInstanceWatcher creates a watcher over the given balancers. interval
// is the sweep period; values <= 0 fall back to 15s.
func NewInstanceWatcher(checker *HealthChecker, cfg *config.GatewayConfig, balancers map[string]*loadbalancer.RoundRobin, interval time.Duration) *InstanceWatcher {
	if interval <= 0 {
		interval = 15 * time.Second
	}

	return &InstanceWatcher{
		checker:   checker,
		config:    cfg,
		balancers: balancers,
		interval:  interval,
	}
}

// Run sweeps instance health on the configured interval until ctx is
// cancelled.
func (w *InstanceWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep checks every configured instance once and updates the rotations.
func (w *InstanceWatcher) Sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	for name, svc := range w.config.Services {
		lb, ok := w.balancers[name]
		if !ok {
			continue
		}

		result := w.checker.CheckService(sweepCtx, name, svc)
		for _, instance := range result.Instances {
			if instance.Status == "healthy" {
				lb.AddInstance(instance.URL)
				continue
			}

			logger.Logger.Warn().
				Str("service", name).
				Str("instance", instance.URL).
				Str("error", instance.Error).
				Msg("Evicting unhealthy instance from rotation")
			lb.RemoveInstance(instance.URL)
		}
	}
}
