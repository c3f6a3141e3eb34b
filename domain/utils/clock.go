package utils

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Clock abstracts wall-clock time so schedules can be tested with fixed instants
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in UTC
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock is a settable clock for tests
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock stopped at now
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// CryptoRandom draws game outcomes from crypto/rand
type CryptoRandom struct{}

// Intn returns a uniform value in [0, n) using rejection sampling
func (CryptoRandom) Intn(n int) int {
	if n <= 0 {
		panic("CryptoRandom.Intn: n must be positive")
	}
	limit := ^uint64(0) - (^uint64(0) % uint64(n))
	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic("crypto/rand unavailable: " + err.Error())
		}
		v := binary.LittleEndian.Uint64(buf[:])
		if v < limit {
			return int(v % uint64(n))
		}
	}
}
