// Package sequence hands out the strictly increasing ids embedded in every
// confirmation code. One Source is shared by all accounts of a Bank.
package sequence

import (
	"context"
	"sync/atomic"
)

// DefaultSeed is the first id handed out by a fresh source.
const DefaultSeed int64 = 100

// Source returns ids strictly greater than every id it returned before.
type Source interface {
	Next(ctx context.Context) (int64, error)
}

// Counter is an in-process Source backed by an atomic fetch-and-increment.
type Counter struct {
	last atomic.Int64
}

// NewCounter builds a Counter whose first id is seed.
func NewCounter(seed int64) *Counter {
	c := &Counter{}
	c.last.Store(seed - 1)
	return c
}

// Next never fails; the error is there to satisfy Source.
func (c *Counter) Next(_ context.Context) (int64, error) {
	return c.last.Add(1), nil
}

// Last returns the most recently issued id, or seed-1 if none was issued.
func (c *Counter) Last() int64 {
	return c.last.Load()
}
