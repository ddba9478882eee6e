package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

type Kind string

const (
	KindDayRollover Kind = "day_rollover"
	KindLessonStart Kind = "lesson_start"
)

// rank orders kinds that fire at the same instant. The rollover goes first
// so a lesson at midnight is reported against the new day.
func (k Kind) rank() int {
	if k == KindDayRollover {
		return 0
	}
	return 1
}

// Event fires at At. BlockID is set for lesson events.
type Event struct {
	ID      string
	Kind    Kind
	BlockID string
	At      time.Time
}

func (ev Event) firesBefore(o Event) bool {
	if !ev.At.Equal(o.At) {
		return ev.At.Before(o.At)
	}
	if ev.Kind.rank() != o.Kind.rank() {
		return ev.Kind.rank() < o.Kind.rank()
	}
	return ev.ID < o.ID
}

// eventHeap implements heap.Interface over events in firing order.
type eventHeap []Event

func (h eventHeap) Len() int           { return len(h) }
func (h eventHeap) Less(i, j int) bool { return h[i].firesBefore(h[j]) }
func (h eventHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)        { *h = append(*h, x.(Event)) }

func (h *eventHeap) Pop() any {
	old := *h
	last := old[len(old)-1]
	*h = old[:len(old)-1]
	return last
}

// Engine is a single-goroutine timer queue. Due events are delivered on C
// without blocking; when the buffer is full they are counted as dropped.
type Engine struct {
	mu       sync.Mutex
	pending  eventHeap
	out      chan Event
	wake     chan struct{}
	quit     chan struct{}
	done     chan struct{}
	running  bool
	finished bool
	dropped  atomic.Uint64
}

func NewEngine(buffer int) *Engine {
	return &Engine{
		out:  make(chan Event, max(buffer, 1)),
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// C delivers due events. It is closed after Stop.
func (e *Engine) C() <-chan Event { return e.out }

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running || e.finished {
		return
	}
	e.running = true
	go e.run()
}

// Stop ends the loop and waits for it. Queued events are discarded.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running || e.finished {
		e.mu.Unlock()
		return
	}
	e.finished = true
	close(e.quit)
	e.mu.Unlock()
	<-e.done
}

// Schedule queues ev. An event whose ID is already queued replaces the
// earlier one.
func (e *Engine) Schedule(ev Event) error {
	if ev.At.IsZero() {
		return ErrInvalidTriggerTime
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finished {
		return ErrStopped
	}
	if ev.ID != "" {
		e.dropWhere(func(q Event) bool { return q.ID == ev.ID })
	}
	heap.Push(&e.pending, ev)
	e.poke()
	return nil
}

// Cancel drops every queued event of kind k and reports how many went.
func (e *Engine) Cancel(k Kind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.dropWhere(func(q Event) bool { return q.Kind == k })
	if n > 0 {
		e.poke()
	}
	return n
}

// Pending returns the queued events in firing order.
func (e *Engine) Pending() []Event {
	e.mu.Lock()
	snapshot := append(eventHeap(nil), e.pending...)
	e.mu.Unlock()

	out := make([]Event, 0, len(snapshot))
	for snapshot.Len() > 0 {
		out = append(out, heap.Pop(&snapshot).(Event))
	}
	return out
}

func (e *Engine) Dropped() uint64 { return e.dropped.Load() }

func (e *Engine) run() {
	defer close(e.done)
	defer close(e.out)

	timer := time.NewTimer(time.Hour)
	disarm(timer)
	defer timer.Stop()

	for {
		var fire <-chan time.Time
		if next, ok := e.head(); ok {
			timer.Reset(max(time.Until(next.At), 0))
			fire = timer.C
		}

		select {
		case <-fire:
			for _, ev := range e.takeDue(time.Now()) {
				select {
				case e.out <- ev:
				default:
					e.dropped.Add(1)
				}
			}
		case <-e.wake:
			disarm(timer)
		case <-e.quit:
			return
		}
	}
}

// dropWhere removes matching events; the caller holds mu.
func (e *Engine) dropWhere(match func(Event) bool) int {
	kept := e.pending[:0]
	for _, ev := range e.pending {
		if !match(ev) {
			kept = append(kept, ev)
		}
	}
	n := len(e.pending) - len(kept)
	if n > 0 {
		e.pending = kept
		heap.Init(&e.pending)
	}
	return n
}

func (e *Engine) poke() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *Engine) head() (Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) == 0 {
		return Event{}, false
	}
	return e.pending[0], true
}

func (e *Engine) takeDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	var due []Event
	for len(e.pending) > 0 && !e.pending[0].At.After(now) {
		due = append(due, heap.Pop(&e.pending).(Event))
	}
	return due
}

// disarm stops t and drains a tick that already fired.
func disarm(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
