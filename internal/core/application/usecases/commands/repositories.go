// Package commands contains business operations that modify system state.
// All commands follow a consistent pattern: a validated command value built by
// its constructor, and a handler that loads, decides and persists.
package commands

import (
	"time"
)

// Clock returns the current time. Handlers take one so tests can pin it.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return utcNow
	}
	return c
}
