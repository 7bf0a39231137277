package schedule

import (
	"sync"
	"time"
)

// Manual is a Scheduler with its own notion of time. Nothing fires until the
// caller advances the clock, which makes simulator ticks deterministic in
// tests.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	m        *Manual
	seq      uint64
	interval time.Duration
	next     time.Time
	fn       func(time.Time)
	stopped  bool
}

// NewManual creates a manual scheduler starting at the given time.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Every registers fn to run every interval. The first firing is one interval
// after the current manual time.
func (m *Manual) Every(interval time.Duration, fn func(now time.Time)) Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	if interval <= 0 {
		interval = time.Second
	}
	m.seq++
	t := &manualTask{
		m:        m,
		seq:      m.seq,
		interval: interval,
		next:     m.now.Add(interval),
		fn:       fn,
	}
	m.tasks = append(m.tasks, t)
	return t
}

// Set moves the clock to t without firing anything. Time never goes
// backwards; earlier values are ignored.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.Before(m.now) {
		return
	}
	m.now = t
	for _, task := range m.tasks {
		for !task.next.After(t) {
			task.next = task.next.Add(task.interval)
		}
	}
}

// Advance moves the clock forward by d, firing every due callback in
// chronological order. Ties are broken by registration order.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDueLocked(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.next
		next.next = next.next.Add(next.interval)
		fn, at := next.fn, m.now
		m.mu.Unlock()

		// Execute outside the lock so callbacks may register or stop tasks.
		fn(at)
	}
}

// Tick advances the clock by exactly one interval of the shortest
// registered task.
func (m *Manual) Tick() {
	m.mu.Lock()
	var shortest time.Duration
	for _, t := range m.tasks {
		if t.stopped {
			continue
		}
		if shortest == 0 || t.interval < shortest {
			shortest = t.interval
		}
	}
	m.mu.Unlock()
	if shortest > 0 {
		m.Advance(shortest)
	}
}

// Active returns the number of tasks that have not been stopped.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (m *Manual) nextDueLocked(target time.Time) *manualTask {
	var best *manualTask
	for _, t := range m.tasks {
		if t.stopped || t.next.After(target) {
			continue
		}
		if best == nil || t.next.Before(best.next) || (t.next.Equal(best.next) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (t *manualTask) Stop() {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.stopped = true
}

func (t *manualTask) Stopped() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	return t.stopped
}

var _ Scheduler = (*Manual)(nil)
