package health

import (
	"context"
	"sync"
	"time"
)

// CheckFunc is a function that performs a readiness check for a component.
// It returns nil if the component is ready, or an error describing the
// problem.
type CheckFunc func(ctx context.Context) error

// CheckResult represents the result of a single readiness check.
type CheckResult struct {
	// Status is "ok" or "unhealthy".
	Status string `json:"status"`

	// Message provides context for an unhealthy status.
	Message string `json:"message,omitempty"`
}

// Status represents the aggregated readiness of the system.
type Status struct {
	// Status is "ready" or "degraded".
	Status string `json:"status"`

	// Checks contains the per-component results.
	Checks map[string]CheckResult `json:"checks,omitempty"`

	// Timestamp is when the checks ran.
	Timestamp time.Time `json:"timestamp"`
}

// Checker manages readiness checks for system components. Registration
// happens at startup; running checks is safe for concurrent use.
type Checker struct {
	mu      sync.RWMutex
	checks  map[string]CheckFunc
	timeout time.Duration
}

// DefaultCheckTimeout bounds one readiness check.
const DefaultCheckTimeout = 5 * time.Second

// New creates a readiness checker. A zero timeout uses DefaultCheckTimeout.
func New(timeout time.Duration) *Checker {
	if timeout == 0 {
		timeout = DefaultCheckTimeout
	}
	return &Checker{
		checks:  make(map[string]CheckFunc),
		timeout: timeout,
	}
}

// Register registers a readiness check for a named component, replacing any
// existing check with the same name.
func (c *Checker) Register(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Check runs all registered checks and returns the aggregated status. A
// system with no registered checks is ready by definition.
func (c *Checker) Check(ctx context.Context) Status {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	results := make(map[string]CheckResult, len(checks))
	status := "ready"

	for name, check := range checks {
		result := c.run(ctx, check)
		results[name] = result
		if result.Status != "ok" {
			status = "degraded"
		}
	}

	return Status{
		Status:    status,
		Checks:    results,
		Timestamp: time.Now().UTC(),
	}
}

func (c *Checker) run(ctx context.Context, check CheckFunc) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := check(checkCtx); err != nil {
		return CheckResult{Status: "unhealthy", Message: err.Error()}
	}
	return CheckResult{Status: "ok"}
}
