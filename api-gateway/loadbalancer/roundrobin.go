package loadbalancer

import (
	"sync"

	"github.com/primefinds/storefront/pkg/logger"
)

// RoundRobin cycles through service instances in order.
type RoundRobin struct {
	instances []string
	current   int
	mu        sync.Mutex
}

// NewRoundRobin creates a round-robin balancer over the given instances.
// An empty list is allowed; Next then returns "" and the proxy reports
// the service as unavailable.
func NewRoundRobin(instances []string) *RoundRobin {
	logger.Logger.Info().
		Int("instance_count", len(instances)).
		Strs("instances", instances).
		Msg("Round-robin load balancer initialized")

	return &RoundRobin{
		instances: append([]string{}, instances...),
	}
}

// Next returns the next instance in rotation, or "" when none are
// configured.
func (rr *RoundRobin) Next() string {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if len(rr.instances) == 0 {
		return ""
	}

	instance := rr.instances[rr.current]
	rr.current = (rr.current + 1) % len(rr.instances)

	return instance
}

// GetInstances returns a copy of the instance list.
func (rr *RoundRobin) GetInstances() []string {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return append([]string{}, rr.instances...)
}

// AddInstance adds an instance to the rotation. Re-adding a present
// instance is a no-op, so health sweeps can restore instances blindly.
func (rr *RoundRobin) AddInstance(instance string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	for _, existing := range rr.instances {
		if existing == instance {
			return
		}
	}

	rr.instances = append(rr.instances, instance)
	logger.Logger.Info().
		Str("instance", instance).
		Int("total_instances", len(rr.instances)).
		Msg("Instance added to load balancer")
}

// RemoveInstance removes an instance from the rotation.
func (rr *RoundRobin) RemoveInstance(instance string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	for i, existing := range rr.instances {
		if existing == instance {
			rr.instances = append(rr.instances[:i], rr.instances[i+1:]...)
			logger.Logger.Info().
				Str("instance", instance).
				Int("total_instances", len(rr.instances)).
				Msg("Instance removed from load balancer")
			break
		}
	}

	if rr.current >= len(rr.instances) {
		rr.current = 0
	}
}

// GetStats returns load balancer statistics.
func (rr *RoundRobin) GetStats() map[string]interface{} {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	return map[string]interface{}{
		"algorithm":      "round-robin",
		"instance_count": len(rr.instances),
		"instances":      append([]string{}, rr.instances...),
		"current_index":  rr.current,
	}
}
