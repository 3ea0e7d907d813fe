// Package tsched is a concurrent, priority-queue-based timer scheduler:
// callbacks are registered with a daily run window, a repeat count and an
// interval, and fire on a bounded worker pool once their time arrives.
package tsched

import (
	"container/heap"
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tradecore/internal/core"
	"tradecore/internal/logger"
)

// Func is a scheduled callback. It receives the instant the detector loop
// decided it was due, not necessarily wall-clock now.
type Func func(ctx context.Context, fired core.Datetime)

// Unlimited marks a timer that repeats forever.
const Unlimited = math.MaxInt32

const oneDay = core.TimeDelta(24 * time.Hour)

// epsilon nudges a rolled-over instant one tick past its window boundary,
// matching TimerManager::start/detectThread's "+ TimeDelta(1)".
const epsilon = core.TimeDelta(time.Microsecond)

type timer struct {
	id         int
	startDate  core.Datetime
	endDate    core.Datetime
	startTime  core.TimeDelta
	endTime    core.TimeDelta
	duration   core.TimeDelta
	repeatLeft int
	fn         Func
}

func (t *timer) windowed() bool { return t.startTime != t.endTime }

// entry is one slot in the min-heap: the next instant a timer id is due.
type entry struct {
	at core.Datetime
	id int
}

type entryHeap []entry

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return h[i].at.Before(h[j].at) }
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)        { *h = append(*h, x.(entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	last := old[n-1]
	*h = old[:n-1]
	return last
}

// Scheduler runs registered timers on a capped worker pool. Stop clears
// the pending queue but keeps the timer set alive; it returns only after
// callbacks already handed to the worker pool have finished. A later Start
// rebuilds the queue from whatever
// timers are still registered, matching TimerManager::stop/start.
type Scheduler struct {
	mu     sync.Mutex
	queue  entryHeap
	timers map[int]*timer
	nextID int

	poolSize int
	now      func() core.Datetime

	wake   chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a scheduler whose worker pool runs up to poolSize callbacks
// concurrently. now lets tests substitute a deterministic clock; pass nil
// to use the wall clock.
func New(poolSize int, now func() core.Datetime) *Scheduler {
	if poolSize <= 0 {
		poolSize = 1
	}
	if now == nil {
		now = func() core.Datetime { return core.NewDatetime(time.Now()) }
	}
	return &Scheduler{
		timers:   make(map[int]*timer),
		poolSize: poolSize,
		now:      now,
		wake:     make(chan struct{}, 1),
	}
}

// Start launches the detection loop. Safe to call again after Stop: it
// rebuilds the queue from whatever timers survived the stop rather than
// starting empty, so a caller never has to re-register timers across a
// restart.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.rebuildQueue()
	s.mu.Unlock()

	go s.detectLoop(runCtx)
}

// Stop halts the detection loop and clears the pending queue. The timer
// set itself is left intact so a later Start can rebuild from it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.queue = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// rebuildQueue reseeds the heap from s.timers, one entry per surviving
// timer, at its next due instant from now. A timer whose next instant
// would already fall past its end window is dropped rather than
// requeued, matching the already-expired-timers caveat in
// TimerManager::start. Callers must hold s.mu.
func (s *Scheduler) rebuildQueue() {
	s.queue = nil
	for id, t := range s.timers {
		at := snapToWindow(s.now().Add(t.duration), t)
		if t.endDate != core.MaxDatetime && at.After(t.endDate.Add(t.endTime)) {
			delete(s.timers, id)
			continue
		}
		heap.Push(&s.queue, entry{at: at, id: id})
	}
}

// AddFunc registers a windowed, repeating timer: it may only fire between
// startTime and endTime on each day in [startDate, endDate], at the given
// duration, for repeatNum firings (Unlimited for forever). It returns the
// timer id, which can be passed to Remove.
func (s *Scheduler) AddFunc(startDate, endDate core.Datetime, startTime, endTime core.TimeDelta, repeatNum int, duration core.TimeDelta, fn Func) (int, error) {
	if err := validateWindow(startDate, endDate, startTime, endTime, repeatNum, duration); err != nil {
		logger.Warnf("tsched: rejecting timer registration: %v", err)
		return -1, err
	}
	return s.addTimer(startDate, endDate, startTime, endTime, repeatNum, duration, fn), nil
}

// AddDurationFunc registers an unwindowed timer that fires every duration,
// repeatNum times (Unlimited for forever).
func (s *Scheduler) AddDurationFunc(repeatNum int, duration core.TimeDelta, fn Func) (int, error) {
	if repeatNum <= 0 {
		return -1, errInvalidRepeat
	}
	if duration.IsZero() || duration.Less(core.TimeDelta(0)) {
		return -1, errInvalidDuration
	}
	return s.addTimer(core.MinDatetime, core.MaxDatetime, core.TimeDelta(0), core.TimeDelta(0), repeatNum, duration, fn), nil
}

// AddDelayFunc fires fn exactly once, after delay has elapsed.
func (s *Scheduler) AddDelayFunc(delay core.TimeDelta, fn Func) (int, error) {
	return s.AddDurationFunc(1, delay, fn)
}

// AddAtFunc fires fn exactly once, at the given instant (or immediately
// if that instant has already passed when the detector next wakes).
func (s *Scheduler) AddAtFunc(at core.Datetime, fn Func) (int, error) {
	delay := at.Sub(s.now())
	if delay.Less(epsilon) {
		delay = epsilon
	}
	return s.AddDelayFunc(delay, fn)
}

// Remove cancels a pending timer. It is a no-op if the id is unknown or
// already fired its last repeat.
func (s *Scheduler) Remove(id int) {
	s.mu.Lock()
	delete(s.timers, id)
	s.mu.Unlock()
}

var (
	errInvalidRepeat   = schedErr("repeat_num must be > 0")
	errInvalidDuration = schedErr("duration must be > 0")
)

type schedErr string

func (e schedErr) Error() string { return string(e) }

func validateWindow(startDate, endDate core.Datetime, startTime, endTime core.TimeDelta, repeatNum int, duration core.TimeDelta) error {
	if startDate.IsZero() || endDate.IsZero() {
		return schedErr("start_date/end_date must be set")
	}
	if !endDate.After(startDate) {
		return schedErr("end_date must be after start_date")
	}
	if !startTime.InDailyWindow() || !endTime.InDailyWindow() {
		return schedErr("start_time/end_time must be within a day")
	}
	if endTime.Less(startTime) {
		return schedErr("end_time must be >= start_time")
	}
	if repeatNum <= 0 {
		return errInvalidRepeat
	}
	if duration.IsZero() || duration.Less(core.TimeDelta(0)) {
		return errInvalidDuration
	}
	return nil
}

func (s *Scheduler) addTimer(startDate, endDate core.Datetime, startTime, endTime core.TimeDelta, repeatNum int, duration core.TimeDelta, fn Func) int {
	t := &timer{
		startDate: startDate, endDate: endDate,
		startTime: startTime, endTime: endTime,
		repeatLeft: repeatNum, duration: duration, fn: fn,
	}

	s.mu.Lock()
	id := s.allocateID()
	t.id = id
	s.timers[id] = t
	at := snapToWindow(s.now().Add(duration), t)
	heap.Push(&s.queue, entry{at: at, id: id})
	s.mu.Unlock()
	s.wakeDetector()
	return id
}

func (s *Scheduler) wakeDetector() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// allocateID mirrors getNewTimerId: increment with int32 wraparound,
// forward-probing past ids still in use.
func (s *Scheduler) allocateID() int {
	if s.nextID >= math.MaxInt32 {
		logger.Warnf("tsched: timer id space wrapped around at %d live timers", len(s.timers))
		s.nextID = 0
	} else {
		s.nextID++
	}
	for {
		if _, used := s.timers[s.nextID]; !used {
			return s.nextID
		}
		if s.nextID >= math.MaxInt32 {
			s.nextID = 0
		} else {
			s.nextID++
		}
	}
}

// snapToWindow pulls a candidate instant forward into [startTime,endTime]
// on its own day when the timer is windowed, matching TimerManager::start:
// before the window it jumps to start_time, after the window it rolls to
// the next day's start_time plus an epsilon tick, and inside the window it
// rounds up to the next start_time+k*duration grid point.
func snapToWindow(at core.Datetime, t *timer) core.Datetime {
	if !t.windowed() {
		return at
	}
	day := at.StartOfDay()
	tod := at.TimeOfDay()
	switch {
	case tod.Less(t.startTime):
		return day.Add(t.startTime)
	case t.endTime.Less(tod):
		return day.Add(t.startTime).Add(oneDay).Add(epsilon)
	default:
		gap := tod - t.startTime
		if rem := gap % t.duration; rem != 0 {
			steps := int64(gap/t.duration) + 1
			snapped := t.startTime + core.TimeDelta(steps*int64(t.duration))
			if t.endTime.Less(snapped) {
				return day.Add(t.startTime).Add(oneDay).Add(epsilon)
			}
			return day.Add(snapped)
		}
		return at
	}
}

// detectLoop is the single goroutine that owns the queue: it sleeps until
// the earliest entry is due, dispatches it to the worker pool, reschedules
// repeating timers, reacts to wake signals from addTimer, and exits when
// Stop cancels its context.
func (s *Scheduler) detectLoop(ctx context.Context) {
	defer close(s.done)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.poolSize)

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-ctx.Done():
				_ = eg.Wait()
				return
			case <-s.wake:
				continue
			}
		}

		next := s.queue[0]
		diff := next.at.Sub(s.now())
		s.mu.Unlock()

		if diff > 0 {
			timer := time.NewTimer(diff.Duration())
			select {
			case <-ctx.Done():
				timer.Stop()
				_ = eg.Wait()
				return
			case <-s.wake:
				timer.Stop()
				continue
			case <-timer.C:
			}
		}

		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			continue
		}
		next = heap.Pop(&s.queue).(entry)
		t, ok := s.timers[next.id]
		if !ok {
			s.mu.Unlock()
			continue
		}

		fired := next.at
		fn := t.fn
		eg.Go(func() error {
			fn(egCtx, fired)
			return nil
		})

		if t.repeatLeft != Unlimited {
			t.repeatLeft--
		}
		if t.repeatLeft <= 0 {
			delete(s.timers, t.id)
			s.mu.Unlock()
			continue
		}

		nextAt := next.at.Add(t.duration)
		if t.endDate != core.MaxDatetime && nextAt.After(t.endDate.Add(t.endTime)) {
			delete(s.timers, t.id)
			s.mu.Unlock()
			continue
		}
		if t.windowed() && t.endTime.Less(nextAt.TimeOfDay()) {
			nextAt = nextAt.StartOfDay().Add(t.startTime).Add(oneDay).Add(epsilon)
		}
		heap.Push(&s.queue, entry{at: nextAt, id: t.id})
		s.mu.Unlock()
	}
}
