package server

import (
	"context"
	"log"
	"sync"
	"time"
)

// authLimiter throttles failed basic-auth attempts with two tiers: a
// per-IP lockout ladder and a global sliding-window lockout that
// protects against distributed guessing.
type authLimiter struct {
	mu sync.RWMutex

	perIP map[string]*ipAttempts

	globalFailures []time.Time
	globalLocked   time.Time
}

type ipAttempts struct {
	failures    int
	lockedUntil time.Time
}

var ipLockoutLadder = []struct {
	failures int
	duration time.Duration
}{
	{5, 1 * time.Minute},
	{10, 5 * time.Minute},
	{20, 15 * time.Minute},
}

var globalLockoutLadder = []struct {
	failures int
	duration time.Duration
}{
	{100, 2 * time.Minute},
	{200, 10 * time.Minute},
	{500, 30 * time.Minute},
}

const globalWindow = 5 * time.Minute

func newAuthLimiter() *authLimiter {
	return &authLimiter{
		perIP: make(map[string]*ipAttempts),
	}
}

// cleanupLoop drops stale entries until ctx is canceled.
func (al *authLimiter) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			al.cleanup(time.Now())
		}
	}
}

func (al *authLimiter) cleanup(now time.Time) {
	al.mu.Lock()
	defer al.mu.Unlock()

	cutoff := now.Add(-30 * time.Minute)
	for ip, attempts := range al.perIP {
		if attempts.lockedUntil.Before(cutoff) && attempts.failures == 0 {
			delete(al.perIP, ip)
		}
	}
	al.pruneGlobal(now)
}

// pruneGlobal drops failures outside the sliding window. Callers hold
// the write lock.
func (al *authLimiter) pruneGlobal(now time.Time) {
	cutoff := now.Add(-globalWindow)
	kept := al.globalFailures[:0]
	for _, t := range al.globalFailures {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	al.globalFailures = kept
}

// locked reports whether ip may not attempt authentication right now,
// with the remaining lockout and which tier imposed it.
func (al *authLimiter) locked(ip string) (bool, time.Duration, string) {
	al.mu.RLock()
	defer al.mu.RUnlock()

	now := time.Now()
	if now.Before(al.globalLocked) {
		return true, al.globalLocked.Sub(now), "global"
	}
	if attempts, ok := al.perIP[ip]; ok && now.Before(attempts.lockedUntil) {
		return true, attempts.lockedUntil.Sub(now), "ip"
	}
	return false, 0, ""
}

func (al *authLimiter) failure(ip string) {
	al.mu.Lock()
	defer al.mu.Unlock()

	now := time.Now()

	attempts, ok := al.perIP[ip]
	if !ok {
		attempts = &ipAttempts{}
		al.perIP[ip] = attempts
	}
	attempts.failures++
	for _, rung := range ipLockoutLadder {
		if attempts.failures >= rung.failures {
			attempts.lockedUntil = now.Add(rung.duration)
		}
	}

	al.globalFailures = append(al.globalFailures, now)
	al.pruneGlobal(now)
	for _, rung := range globalLockoutLadder {
		if len(al.globalFailures) >= rung.failures {
			al.globalLocked = now.Add(rung.duration)
		}
	}

	log.Printf("auth failure from %s (ip failures: %d, global failures: %d)", ip, attempts.failures, len(al.globalFailures))
}

func (al *authLimiter) success(ip string) {
	al.mu.Lock()
	defer al.mu.Unlock()

	if attempts, ok := al.perIP[ip]; ok {
		attempts.failures = 0
		attempts.lockedUntil = time.Time{}
	}
}
