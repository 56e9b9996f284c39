// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL       = time.Hour
	limiterSweepInterval = 10 * time.Minute
)

// UploadLimiter is a per-user token bucket for dataset uploads.
type UploadLimiter struct {
	limiters  map[string]*limiterEntry
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	lastSweep time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewUploadLimiter allows perMinute uploads per user, with a burst of the
// same size. A non-positive perMinute disables limiting.
func NewUploadLimiter(perMinute int) *UploadLimiter {
	l := &UploadLimiter{
		limiters:  make(map[string]*limiterEntry),
		burst:     perMinute,
		lastSweep: time.Now(),
	}
	if perMinute > 0 {
		l.rate = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return l
}

// Allow reports whether user may upload now.
func (l *UploadLimiter) Allow(user string) bool {
	if l.burst <= 0 {
		return true
	}

	now := time.Now()
	l.mu.Lock()
	if now.Sub(l.lastSweep) > limiterSweepInterval {
		l.sweep(now)
	}
	entry, ok := l.limiters[user]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[user] = entry
	}
	entry.lastAccess = now
	limiter := entry.limiter
	l.mu.Unlock()

	return limiter.Allow()
}

// sweep drops limiters idle for longer than limiterIdleTTL. Caller holds mu.
func (l *UploadLimiter) sweep(now time.Time) {
	threshold := now.Add(-limiterIdleTTL)
	for user, entry := range l.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(l.limiters, user)
		}
	}
	l.lastSweep = now
}
