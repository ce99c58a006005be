package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/flexprice/rawusage/internal/types"
)

// FixedClock is a clock.Clock whose date is set by the test
type FixedClock struct {
	mu    sync.Mutex
	today time.Time
	err   error
	reads int
}

func NewFixedClock(today time.Time) *FixedClock {
	return &FixedClock{today: types.ToDate(today)}
}

func (c *FixedClock) Today(_ context.Context) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	if c.err != nil {
		return time.Time{}, c.err
	}
	return c.today, nil
}

func (c *FixedClock) Set(today time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.today = types.ToDate(today)
}

// FailWith makes Today return err until reset with nil
func (c *FixedClock) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Reads returns how many times Today was called
func (c *FixedClock) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}
