package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdleAfter is how long a user's limiter is kept after their last interaction.
const limiterIdleAfter = 10 * time.Minute

type userLimit struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// userLimiter is a token bucket per user.
type userLimiter struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	now   func() time.Time

	users     map[string]*userLimit
	lastSweep time.Time
}

func newUserLimiter(limit rate.Limit, burst int, now func() time.Time) *userLimiter {
	return &userLimiter{
		limit:     limit,
		burst:     burst,
		now:       now,
		users:     make(map[string]*userLimit),
		lastSweep: now(),
	}
}

// Allow reports whether the user may send another interaction now.
func (u *userLimiter) Allow(userID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	now := u.now()
	u.sweep(now)

	ul, ok := u.users[userID]
	if !ok {
		ul = &userLimit{limiter: rate.NewLimiter(u.limit, u.burst)}
		u.users[userID] = ul
	}
	ul.lastSeen = now
	return ul.limiter.AllowN(now, 1)
}

func (u *userLimiter) sweep(now time.Time) {
	if now.Sub(u.lastSweep) < limiterIdleAfter {
		return
	}
	u.lastSweep = now

	for id, ul := range u.users {
		if now.Sub(ul.lastSeen) >= limiterIdleAfter {
			delete(u.users, id)
		}
	}
}
