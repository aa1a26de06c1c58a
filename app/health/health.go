// Package health serves the escrow host's status endpoints:
//
//   - /health - basic liveness check
//   - /health/ready - readiness check, failing while the store is unusable
//   - /metrics - Prometheus metrics
//   - /escrows and /escrows/{id} - read-only escrow queries
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// Source is the escrow host the checker reports on.
type Source interface {
	Height() int64
	List(ctx context.Context) (*types.QueryListResponse, error)
	Details(ctx context.Context, id string) (*types.QueryDetailsResponse, error)
	CheckInvariants(ctx context.Context) []string
}

// Config holds configuration for the health checker
type Config struct {
	// Version is reported in every health check
	Version string

	// MaxResponseTime is the query time above which the store is reported degraded
	MaxResponseTime time.Duration

	// CacheDuration is how long to cache health check results
	CacheDuration time.Duration
}

// DefaultConfig returns the default health check configuration
func DefaultConfig() Config {
	return Config{
		MaxResponseTime: time.Second,
		CacheDuration:   5 * time.Second,
	}
}

// Checker performs health checks against the escrow host
type Checker struct {
	logger log.Logger
	source Source
	cfg    Config

	mu           sync.RWMutex
	lastCheck    time.Time
	cachedHealth *HealthCheck
}

// NewChecker creates a new health checker
func NewChecker(logger log.Logger, cfg Config, source Source) (*Checker, error) {
	if source == nil {
		return nil, errors.New("escrow host is required")
	}
	return &Checker{
		logger: logger,
		source: source,
		cfg:    cfg,
	}, nil
}

// Check runs the store and invariant checks.
func (c *Checker) Check(ctx context.Context) *HealthCheck {
	if c.shouldUseCached() {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.cachedHealth
	}

	health := &HealthCheck{
		Timestamp: time.Now(),
		Version:   c.cfg.Version,
		Components: map[string]ComponentHealth{
			"store":      c.checkStore(ctx),
			"invariants": c.checkInvariants(ctx),
		},
	}
	health.Status = calculateOverallStatus(health.Components)

	c.mu.Lock()
	c.lastCheck = time.Now()
	c.cachedHealth = health
	c.mu.Unlock()

	return health
}

func (c *Checker) checkStore(ctx context.Context) ComponentHealth {
	start := time.Now()
	res, err := c.source.List(ctx)
	duration := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   "store query failed: " + err.Error(),
			Timestamp: time.Now(),
		}
	}

	componentStatus := StatusHealthy
	message := "store is responsive"
	if duration > c.cfg.MaxResponseTime {
		componentStatus = StatusDegraded
		message = "store response time is degraded"
	}

	return ComponentHealth{
		Status:    componentStatus,
		Message:   message,
		Timestamp: time.Now(),
		Metrics: map[string]interface{}{
			"height":        c.source.Height(),
			"escrows":       len(res.Escrows),
			"query_time_ms": duration.Milliseconds(),
		},
	}
}

func (c *Checker) checkInvariants(ctx context.Context) ComponentHealth {
	broken := c.source.CheckInvariants(ctx)
	if len(broken) > 0 {
		c.logger.Error("escrow invariants broken", "count", len(broken))
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   broken[0],
			Timestamp: time.Now(),
			Metrics:   map[string]interface{}{"broken": len(broken)},
		}
	}
	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "all invariants hold",
		Timestamp: time.Now(),
	}
}

func calculateOverallStatus(components map[string]ComponentHealth) Status {
	hasDegraded := false
	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			hasDegraded = true
		}
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

func (c *Checker) shouldUseCached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cachedHealth == nil {
		return false
	}
	return time.Since(c.lastCheck) < c.cfg.CacheDuration
}

// RegisterRoutes registers the status endpoints on router
func (c *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", c.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", c.handleHealthReady).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/escrows", c.handleList).Methods(http.MethodGet)
	router.HandleFunc("/escrows/{id}", c.handleDetails).Methods(http.MethodGet)
}

// NewRouter returns a router serving the status endpoints.
func (c *Checker) NewRouter() *mux.Router {
	router := mux.NewRouter()
	c.RegisterRoutes(router)
	return router
}

func (c *Checker) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"height":    c.source.Height(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (c *Checker) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	health := c.Check(r.Context())

	statusCode := http.StatusOK
	if health.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, health)
}

func (c *Checker) handleList(w http.ResponseWriter, r *http.Request) {
	res, err := c.source.List(r.Context())
	if err != nil {
		c.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (c *Checker) handleDetails(w http.ResponseWriter, r *http.Request) {
	res, err := c.source.Details(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		c.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (c *Checker) writeError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	if errors.Is(err, types.ErrNotFound) {
		statusCode = http.StatusNotFound
	} else {
		c.logger.Error("escrow query failed", "error", err)
	}
	writeJSON(w, statusCode, map[string]interface{}{
		"status":  "error",
		"message": err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
