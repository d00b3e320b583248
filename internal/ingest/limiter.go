package ingest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"hirevet/internal/config"
	"hirevet/pkg/utils"
)

const (
	breakerMaxFailures = 5
	breakerResetAfter  = 30 * time.Second
	limiterIdleAfter   = 10 * time.Minute
	limiterSweepEvery  = 5 * time.Minute
)

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case breakerClosed:
		return "closed"
	case breakerOpen:
		return "open"
	case breakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type hostEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	requests int64
	failures int64
}

type hostBreaker struct {
	failureCount int
	lastFailure  time.Time
	state        breakerState
}

// HostLimiter throttles requests per remote host and trips a circuit breaker
// after repeated failures so a dead ingest service is not hammered.
type HostLimiter struct {
	config      *config.Config
	mu          sync.Mutex
	hosts       map[string]*hostEntry
	breakers    map[string]*hostBreaker
	maxFailures int
	resetAfter  time.Duration
	logger      *logrus.Logger
	ticker      *time.Ticker
	stop        chan struct{}
}

func NewHostLimiter(cfg *config.Config) *HostLimiter {
	hl := &HostLimiter{
		config:      cfg,
		hosts:       make(map[string]*hostEntry),
		breakers:    make(map[string]*hostBreaker),
		maxFailures: breakerMaxFailures,
		resetAfter:  breakerResetAfter,
		logger:      utils.GetLogger(),
		ticker:      time.NewTicker(limiterSweepEvery),
		stop:        make(chan struct{}),
	}

	go hl.sweepLoop()

	return hl
}

// Acquire blocks until the host's rate limiter grants a token, or fails
// immediately when the circuit breaker is open
func (hl *HostLimiter) Acquire(ctx context.Context, host string) error {
	host = strings.ToLower(host)

	hl.mu.Lock()
	if !hl.breakerAllows(host) {
		hl.mu.Unlock()
		return utils.NewRemoteServiceError(fmt.Sprintf("circuit breaker open for %s", host))
	}
	entry := hl.hostEntry(host)
	entry.requests++
	entry.lastSeen = time.Now()
	limiter := entry.limiter
	hl.mu.Unlock()

	return limiter.Wait(ctx)
}

// RecordSuccess closes the breaker and clears the failure streak for the host
func (hl *HostLimiter) RecordSuccess(host string) {
	host = strings.ToLower(host)

	hl.mu.Lock()
	defer hl.mu.Unlock()

	if br, ok := hl.breakers[host]; ok {
		if br.state != breakerClosed {
			hl.logger.WithField("host", host).Info("Circuit breaker closed after successful request")
		}
		br.state = breakerClosed
		br.failureCount = 0
	}
}

// RecordFailure counts a failure; the breaker opens after maxFailures in a
// row, and a failed half-open probe reopens it immediately
func (hl *HostLimiter) RecordFailure(host string, err error) {
	host = strings.ToLower(host)

	hl.mu.Lock()
	defer hl.mu.Unlock()

	if entry, ok := hl.hosts[host]; ok {
		entry.failures++
	}

	br := hl.breaker(host)
	br.failureCount++
	br.lastFailure = time.Now()

	if br.state == breakerHalfOpen || (br.state == breakerClosed && br.failureCount >= hl.maxFailures) {
		br.state = breakerOpen
		hl.logger.WithFields(logrus.Fields{
			"host":     host,
			"failures": br.failureCount,
			"error":    err.Error(),
		}).Warn("Circuit breaker opened")
	}
}

// HostStats exposes counters for diagnostics
func (hl *HostLimiter) HostStats(host string) map[string]interface{} {
	host = strings.ToLower(host)

	hl.mu.Lock()
	defer hl.mu.Unlock()

	stats := make(map[string]interface{})
	if entry, ok := hl.hosts[host]; ok {
		stats["requests"] = entry.requests
		stats["failures"] = entry.failures
		stats["limit"] = float64(entry.limiter.Limit())
		stats["burst"] = entry.limiter.Burst()
	}
	if br, ok := hl.breakers[host]; ok {
		stats["circuit_state"] = br.state.String()
		stats["failure_count"] = br.failureCount
	}
	return stats
}

// Stop terminates the idle-entry sweeper. Call once on shutdown.
func (hl *HostLimiter) Stop() {
	close(hl.stop)
}

// breakerAllows reports whether requests may pass. Caller holds mu. An open
// breaker transitions to half-open after the reset window so one probe can
// test the host.
func (hl *HostLimiter) breakerAllows(host string) bool {
	br := hl.breaker(host)
	if br.state == breakerOpen {
		if time.Since(br.lastFailure) > hl.resetAfter {
			br.state = breakerHalfOpen
			hl.logger.WithField("host", host).Info("Circuit breaker half-open, allowing probe")
			return true
		}
		return false
	}
	return true
}

// hostEntry returns the rate limiter for a host, creating it on first use.
// Caller holds mu.
func (hl *HostLimiter) hostEntry(host string) *hostEntry {
	if entry, ok := hl.hosts[host]; ok {
		return entry
	}

	entry := &hostEntry{
		limiter:  rate.NewLimiter(rate.Limit(hl.config.Ingest.RateLimit), hl.config.Ingest.RateBurst),
		lastSeen: time.Now(),
	}
	hl.hosts[host] = entry

	hl.logger.WithFields(logrus.Fields{
		"host":  host,
		"rate":  hl.config.Ingest.RateLimit,
		"burst": hl.config.Ingest.RateBurst,
	}).Debug("Created host rate limiter")

	return entry
}

// breaker returns the circuit breaker for a host, creating it on first use.
// Caller holds mu.
func (hl *HostLimiter) breaker(host string) *hostBreaker {
	if br, ok := hl.breakers[host]; ok {
		return br
	}

	br := &hostBreaker{state: breakerClosed}
	hl.breakers[host] = br
	return br
}

func (hl *HostLimiter) sweepLoop() {
	for {
		select {
		case <-hl.ticker.C:
			hl.sweep()
		case <-hl.stop:
			hl.ticker.Stop()
			return
		}
	}
}

// sweep drops limiters and recovered breakers that have been idle long enough
func (hl *HostLimiter) sweep() {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	cutoff := time.Now().Add(-limiterIdleAfter)
	removed := 0

	for host, entry := range hl.hosts {
		if entry.lastSeen.Before(cutoff) {
			delete(hl.hosts, host)
			removed++
		}
	}
	for host, br := range hl.breakers {
		if br.state == breakerClosed && br.lastFailure.Before(cutoff) {
			delete(hl.breakers, host)
		}
	}

	if removed > 0 {
		hl.logger.WithField("removed", removed).Debug("Swept idle host limiters")
	}
}

// hostFromURL extracts the lowercased hostname for limiter keying
func hostFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	host := parsed.Hostname()
	if host == "" {
		return "unknown"
	}
	return strings.ToLower(host)
}
