// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Default rate limiting values.
const (
	// DefaultBurstCapacity is the number of commands a sender can issue in a
	// burst before being limited.
	DefaultBurstCapacity = 10

	// DefaultSustainedRate is the token refill rate in commands per second.
	DefaultSustainedRate = 2.0

	// MinSustainedRate is the lowest accepted refill rate.
	MinSustainedRate = 0.1

	// DefaultCleanupInterval is how often idle senders are forgotten.
	DefaultCleanupInterval = 5 * time.Minute

	// DefaultIdleMaxAge is how long a sender may stay idle before its bucket
	// is dropped.
	DefaultIdleMaxAge = time.Hour
)

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// BurstCapacity defaults to DefaultBurstCapacity if zero or negative.
	BurstCapacity int
	// SustainedRate defaults to DefaultSustainedRate if zero or negative.
	SustainedRate float64
	// CleanupInterval defaults to DefaultCleanupInterval if zero.
	CleanupInterval time.Duration
	// IdleMaxAge defaults to DefaultIdleMaxAge if zero.
	IdleMaxAge time.Duration
	// Registerer, if set, receives a gauge of tracked senders.
	Registerer prometheus.Registerer
}

type bucket struct {
	tokens    float64
	lastCheck time.Time
}

// RateLimiter limits how often each sender may dispatch commands, using a
// token bucket per sender key. It is safe for concurrent use.
//
// A background goroutine drops idle buckets; call Close to stop it.
type RateLimiter struct {
	mu            sync.Mutex
	buckets       map[string]*bucket
	burstCapacity int
	sustainedRate float64
	idleMaxAge    time.Duration
	now           func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	gauge prometheus.Gauge
}

// NewRateLimiter creates a rate limiter and starts its cleanup goroutine.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	burst := cfg.BurstCapacity
	if burst <= 0 {
		burst = DefaultBurstCapacity
	}
	rate := cfg.SustainedRate
	if rate <= 0 {
		rate = DefaultSustainedRate
	}
	if rate < MinSustainedRate {
		rate = MinSustainedRate
	}
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	maxAge := cfg.IdleMaxAge
	if maxAge <= 0 {
		maxAge = DefaultIdleMaxAge
	}

	rl := &RateLimiter{
		buckets:       make(map[string]*bucket),
		burstCapacity: burst,
		sustainedRate: rate,
		idleMaxAge:    maxAge,
		now:           time.Now,
		stopChan:      make(chan struct{}),
	}

	if cfg.Registerer != nil {
		rl.gauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cmdbind_ratelimiter_senders",
			Help: "Current number of senders tracked by the command rate limiter",
		})
		cfg.Registerer.MustRegister(rl.gauge)
	}

	rl.wg.Add(1)
	go rl.cleanupLoop(interval)

	return rl
}

// Allow consumes a token for key if one is available.
// When it is not, cooldownMs is the time until the next token.
func (rl *RateLimiter) Allow(key string) (allowed bool, cooldownMs int64) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(rl.burstCapacity), lastCheck: now}
		rl.buckets[key] = b
		if rl.gauge != nil {
			rl.gauge.Set(float64(len(rl.buckets)))
		}
	}

	b.tokens += now.Sub(b.lastCheck).Seconds() * rl.sustainedRate
	if b.tokens > float64(rl.burstCapacity) {
		b.tokens = float64(rl.burstCapacity)
	}
	b.lastCheck = now

	if b.tokens >= 1.0 {
		b.tokens--
		return true, 0
	}

	deficit := 1.0 - b.tokens
	return false, int64(deficit / rl.sustainedRate * 1000)
}

// Len returns the number of tracked senders.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// Cleanup drops buckets idle for longer than maxAge.
func (rl *RateLimiter) Cleanup(maxAge time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	threshold := rl.now().Add(-maxAge)
	for key, b := range rl.buckets {
		if b.lastCheck.Before(threshold) {
			delete(rl.buckets, key)
		}
	}

	if rl.gauge != nil {
		rl.gauge.Set(float64(len(rl.buckets)))
	}
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	defer rl.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopChan:
			return
		case <-ticker.C:
			rl.Cleanup(rl.idleMaxAge)
		}
	}
}

// Close stops the cleanup goroutine and waits for it to exit.
// It is safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
	rl.wg.Wait()
}
