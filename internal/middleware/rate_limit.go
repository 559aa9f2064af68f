package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	limiters      = make(map[string]*ipLimiter)
	limitersMutex sync.Mutex
	janitorOnce   sync.Once

	whitelistedIPs = map[string]bool{
		"127.0.0.1": true, // health probes and the campus kiosk gateway
	}
)

func getLimiter(ip string) *rate.Limiter {
	limitersMutex.Lock()
	defer limitersMutex.Unlock()

	if entry, exists := limiters[ip]; exists {
		entry.lastSeen = time.Now()
		return entry.limiter
	}
	entry := &ipLimiter{
		limiter:  rate.NewLimiter(10, 20), // 10 requests/sec, burst up to 20
		lastSeen: time.Now(),
	}
	limiters[ip] = entry
	return entry.limiter
}

// evictStale drops limiters for addresses idle longer than the window so the
// map does not grow without bound across campus wifi churn.
func evictStale(window time.Duration) {
	limitersMutex.Lock()
	defer limitersMutex.Unlock()

	cutoff := time.Now().Add(-window)
	for ip, entry := range limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(limiters, ip)
		}
	}
}

func startJanitor() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			evictStale(10 * time.Minute)
		}
	}()
}

func RateLimitMiddleware(next http.Handler) http.Handler {
	janitorOnce.Do(startJanitor)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, _ := net.SplitHostPort(r.RemoteAddr)
		if whitelistedIPs[ip] {
			next.ServeHTTP(w, r)
			return
		}

		limiter := getLimiter(ip)
		if !limiter.Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
