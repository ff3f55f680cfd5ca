// Package poll reconciles asynchronously-updating page state with the
// sequential flow of a scenario. The application under test renders state
// pushed over a WebSocket after the page has already finished loading, so a
// single immediate check would race the update; conditions are instead
// re-evaluated on a short fixed interval until they hold or a deadline passes.
package poll

import (
	"errors"
	"fmt"
	"time"
)

// DefaultInterval is the re-evaluation interval used when none is configured.
const DefaultInterval = 200 * time.Millisecond

// ErrTimeoutExceeded is returned when a predicate does not become true
// within its timeout.
var ErrTimeoutExceeded = errors.New("timeout exceeded")

// Predicate observes current page state. It must be a pure observation with
// no side effects: WaitFor may invoke it many times.
type Predicate func() (bool, error)

// WaitFor re-evaluates pred on a fixed interval until it returns true or
// timeout elapses. The first check happens immediately, before any sleep.
//
// Transient evaluation errors (an element detaching mid-render, for example)
// count as "not yet true"; the most recent one is attached to the timeout
// error so the failure reason is diagnosable.
//
// WaitFor fails no earlier than timeout and no later than timeout plus one
// interval.
func WaitFor(pred Predicate, timeout, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	start := time.Now()
	deadline := start.Add(timeout)

	var lastErr error
	for {
		ok, err := pred()
		if err == nil && ok {
			return nil
		}
		if err != nil {
			lastErr = err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			waited := time.Since(start).Round(time.Millisecond)
			if lastErr != nil {
				return fmt.Errorf("condition not met after %v (last check error: %v): %w", waited, lastErr, ErrTimeoutExceeded)
			}
			return fmt.Errorf("condition not met after %v: %w", waited, ErrTimeoutExceeded)
		}
		if remaining < interval {
			time.Sleep(remaining)
		} else {
			time.Sleep(interval)
		}
	}
}
