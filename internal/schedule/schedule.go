package schedule

import (
	"time"
)

// Scheduler runs periodic callbacks on a single logical execution context.
// Simulators depend on this interface rather than on timers directly so
// tests can drive them with a Manual clock.
type Scheduler interface {
	// Now returns the current time as seen by the scheduler.
	Now() time.Time
	// Every registers fn to run every interval. The callback receives the
	// firing time and must not block.
	Every(interval time.Duration, fn func(now time.Time)) Task
}

// Task is a registered periodic callback.
type Task interface {
	// Stop cancels the task. It is safe to call more than once and before
	// the first firing.
	Stop()
	// Stopped reports whether Stop has been called.
	Stopped() bool
}
