package schedule

import (
	"sync"
	"sync/atomic"
	"time"
)

// Loop is the real-time Scheduler. Every tick callback and every command
// posted with Post runs on one goroutine, so the state owned by a simulator
// is never mutated in parallel.
type Loop struct {
	jobs chan func()
	done chan struct{}
	now  func() time.Time

	mu    sync.Mutex
	tasks map[*loopTask]struct{}
	once  sync.Once
}

// NewLoop starts the execution goroutine. queue is the capacity of the job
// queue; values below 1 use 64.
func NewLoop(queue int) *Loop {
	if queue < 1 {
		queue = 64
	}
	l := &Loop{
		jobs:  make(chan func(), queue),
		done:  make(chan struct{}),
		now:   time.Now,
		tasks: make(map[*loopTask]struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	for {
		select {
		case <-l.done:
			return
		case job := <-l.jobs:
			job()
		}
	}
}

// Now returns the wall-clock time.
func (l *Loop) Now() time.Time {
	return l.now()
}

// Post enqueues fn on the loop. It returns false if the loop was stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.jobs <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish. It returns false
// without running fn if the loop was stopped.
func (l *Loop) Do(fn func()) bool {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// Every starts a ticker whose firings are executed on the loop.
func (l *Loop) Every(interval time.Duration, fn func(now time.Time)) Task {
	t := &loopTask{
		loop:   l,
		ticker: time.NewTicker(interval),
		quit:   make(chan struct{}),
	}

	l.mu.Lock()
	l.tasks[t] = struct{}{}
	l.mu.Unlock()

	go func() {
		for {
			select {
			case <-t.quit:
				return
			case <-l.done:
				return
			case now := <-t.ticker.C:
				l.Post(func() {
					// A firing already queued when Stop was called is dropped.
					if t.Stopped() {
						return
					}
					fn(now)
				})
			}
		}
	}()
	return t
}

// Stop stops every task and the execution goroutine. Queued jobs that did
// not run yet are discarded.
func (l *Loop) Stop() {
	l.once.Do(func() {
		l.mu.Lock()
		tasks := make([]*loopTask, 0, len(l.tasks))
		for t := range l.tasks {
			tasks = append(tasks, t)
		}
		l.mu.Unlock()

		for _, t := range tasks {
			t.Stop()
		}
		close(l.done)
	})
}

type loopTask struct {
	loop    *Loop
	ticker  *time.Ticker
	quit    chan struct{}
	stopped atomic.Bool
}

func (t *loopTask) Stop() {
	if !t.stopped.CompareAndSwap(false, true) {
		return
	}
	t.ticker.Stop()
	close(t.quit)

	t.loop.mu.Lock()
	delete(t.loop.tasks, t)
	t.loop.mu.Unlock()
}

func (t *loopTask) Stopped() bool {
	return t.stopped.Load()
}

// Compile-time check that Loop implements Scheduler
var _ Scheduler = (*Loop)(nil)
