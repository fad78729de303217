// Package lock serializes read-modify-write work on a single aggregate
// (a tenant's journal, a purchase order, a sale) across requests and instances.
package lock

import (
	"context"
	"fmt"
	"time"
)

// Locker obtains a named lock. The returned release func must be called exactly once.
type Locker interface {
	Obtain(ctx context.Context, key string) (release func(), err error)
}

// Options configures lock lifetime and retries
type Options struct {
	TTL          time.Duration
	RetryBackoff time.Duration
	RetryCount   int
}

// DefaultOptions mirrors the service defaults
func DefaultOptions() Options {
	return Options{
		TTL:          30 * time.Second,
		RetryBackoff: 100 * time.Millisecond,
		RetryCount:   50,
	}
}

// Key builds a lock key such as "posting:<tenant>"
func Key(kind string, parts ...any) string {
	key := kind
	for _, p := range parts {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}
