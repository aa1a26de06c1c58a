package health

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader = "X-Request-ID"

	defaultRateLimitClients = 10000
	defaultRateLimitTTL     = 10 * time.Minute
)

// ServerConfig configures the middleware wrapped around the status router.
type ServerConfig struct {
	// CORSOrigins lists the origins allowed to read the endpoints. Empty allows all.
	CORSOrigins []string

	// RateLimit is the sustained request rate per client IP. Zero disables limiting.
	RateLimit int

	// RateLimitClients caps the number of client IPs tracked at once. The least recently
	// seen client is forgotten first.
	RateLimitClients int

	// RateLimitTTL is how long a client's bucket is kept after it was created.
	RateLimitTTL time.Duration
}

// DefaultServerConfig returns the default status server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		CORSOrigins:      []string{"*"},
		RateLimit:        50,
		RateLimitClients: defaultRateLimitClients,
		RateLimitTTL:     defaultRateLimitTTL,
	}
}

// Handler returns the status router wrapped in request id, rate limit, CORS and panic
// recovery middleware.
func (c *Checker) Handler(cfg ServerConfig) http.Handler {
	router := c.NewRouter()
	router.Use(requestIDMiddleware)
	if cfg.RateLimit > 0 {
		router.Use(rateLimitMiddleware(newClientLimiters(cfg.RateLimit, cfg.RateLimitClients, cfg.RateLimitTTL)))
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	withCORS := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
	}).Handler(router)

	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(withCORS)
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// clientLimiters hands out one token bucket per client IP from a bounded LRU.
type clientLimiters struct {
	mu      sync.Mutex
	rps     int
	clients *expirable.LRU[string, *rate.Limiter]
}

func newClientLimiters(rps, maxClients int, ttl time.Duration) *clientLimiters {
	if maxClients <= 0 {
		maxClients = defaultRateLimitClients
	}
	if ttl <= 0 {
		ttl = defaultRateLimitTTL
	}
	return &clientLimiters{
		rps:     rps,
		clients: expirable.NewLRU[string, *rate.Limiter](maxClients, nil, ttl),
	}
}

func (c *clientLimiters) get(ip string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if limiter, ok := c.clients.Get(ip); ok {
		return limiter
	}
	limiter := rate.NewLimiter(rate.Limit(c.rps), c.rps*2)
	c.clients.Add(ip, limiter)
	return limiter
}

func (c *clientLimiters) size() int {
	return c.clients.Len()
}

func rateLimitMiddleware(limiters *clientLimiters) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiters.get(ip).Allow() {
				writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
					"status":  "error",
					"message": "rate limit exceeded",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
