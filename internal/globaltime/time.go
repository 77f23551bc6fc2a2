// Package globaltime is the clock used for cache expiry. Tests pin it with
// SetMockTime so TTL behavior is deterministic.
package globaltime

import (
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	nowFunc = time.Now
)

func Now() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return nowFunc()
}

func UTC() time.Time {
	return Now().UTC()
}

func SetMockTime(t time.Time) {
	mu.Lock()
	defer mu.Unlock()
	nowFunc = func() time.Time { return t }
}

// Advance moves a mocked clock forward by d. It pins the clock first when it
// is still running on time.Now.
func Advance(d time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	current := nowFunc().Add(d)
	nowFunc = func() time.Time { return current }
}

func ResetTime() {
	mu.Lock()
	defer mu.Unlock()
	nowFunc = time.Now
}
