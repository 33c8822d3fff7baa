package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

var (
	ErrCancelled = errors.New("task cancelled")
	ErrClosed    = errors.New("task closed to new work")
)

// Weight is the relative cost of a sub-task. Only the ratios matter.
type Weight int

const (
	Lowest Weight = iota + 1
	Lower
	Low
	Normal
	High
	Higher
	Highest
)

func (w Weight) String() string {
	switch w {
	case Lowest:
		return "lowest"
	case Lower:
		return "lower"
	case Low:
		return "low"
	case Normal:
		return "normal"
	case High:
		return "high"
	case Higher:
		return "higher"
	case Highest:
		return "highest"
	}
	return fmt.Sprintf("weight(%d)", int(w))
}

type State int32

const (
	Pending State = iota
	Running
	Completed
	Failed
	Cancelled
)

var stateNames = [...]string{"pending", "running", "completed", "failed", "cancelled"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) Terminal() bool { return s >= Completed }

type sub struct {
	name   string
	weight Weight
	fn     func(context.Context) error
}

type Option func(*Tracked)

func WithLogger(log *slog.Logger) Option {
	return func(t *Tracked) { t.log = log }
}

// Tracked runs weighted sub-tasks on a pool of workers and reports their
// combined progress. Sub-tasks may submit further sub-tasks.
type Tracked struct {
	ID   uuid.UUID
	Name string

	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	cond      *sync.Cond
	queue     []sub
	inflight  int
	closed    bool
	ending    State
	finished  bool
	err       error
	progress  float64
	listeners []func(float64)

	total    atomic.Int64
	credited atomic.Int64
	state    atomic.Int32
	done     chan struct{}
	workers  sync.WaitGroup
}

// New starts a task with the given number of workers. It stays Pending
// until the first sub-task starts.
func New(name string, workers int, opts ...Option) *Tracked {
	if workers < 1 {
		workers = 1
	}
	t := &Tracked{
		ID:   uuid.New(),
		Name: name,
		log:  slog.Default(),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.With("task", name, "id", t.ID)
	t.ctx, t.cancel = context.WithCancel(context.Background())
	t.cond = sync.NewCond(&t.mu)
	for i := 0; i < workers; i++ {
		t.workers.Add(1)
		go t.worker()
	}
	tasksStarted.Inc()
	return t
}

// Submit queues fn. After Close, only running sub-tasks may submit.
func (t *Tracked) Submit(name string, weight Weight, fn func(context.Context) error) error {
	if weight < Lowest || weight > Highest {
		return errors.Errorf("sub-task %s: bad weight %d", name, int(weight))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.ending == Cancelled:
		return errors.Wrapf(ErrCancelled, "submitting %s", name)
	case t.ending != 0 || t.finished:
		return errors.Wrapf(ErrClosed, "submitting %s after the task ended", name)
	case t.closed && t.inflight == 0:
		return errors.Wrapf(ErrClosed, "submitting %s", name)
	}
	t.queue = append(t.queue, sub{name: name, weight: weight, fn: fn})
	t.total.Add(int64(weight))
	subtaskWeight.WithLabelValues("submitted").Add(float64(weight))
	t.cond.Signal()
	return nil
}

// Close marks the end of top-level submissions. The task completes once
// the queue drains.
func (t *Tracked) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.maybeFinishLocked()
}

func (t *Tracked) worker() {
	defer t.workers.Done()
	t.mu.Lock()
	defer t.mu.Unlock()
	for {
		for len(t.queue) == 0 && !t.finished {
			t.cond.Wait()
		}
		if len(t.queue) == 0 {
			return
		}
		s := t.queue[0]
		t.queue = t.queue[1:]
		t.inflight++
		t.state.CAS(int32(Pending), int32(Running))
		t.mu.Unlock()

		subtasksInflight.Inc()
		err := s.run(t.ctx)
		subtasksInflight.Dec()

		t.mu.Lock()
		t.inflight--
		t.finishLocked(s, err)
		t.maybeFinishLocked()
	}
}

// run calls fn, turning a panic into the sub-task's error so the worker
// survives it.
func (s sub) run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()
	return s.fn(ctx)
}

func (t *Tracked) finishLocked(s sub, err error) {
	if err != nil {
		subtasks.WithLabelValues("failed").Inc()
		if t.ending != 0 {
			t.log.Debug("dropping sub-task error", "subtask", s.name, "err", err)
			return
		}
		t.err = errors.Wrapf(err, "%s", s.name)
		t.log.Warn("sub-task failed", "subtask", s.name, "err", err)
		t.stopLocked(Failed)
		return
	}
	subtasks.WithLabelValues("completed").Inc()
	if t.ending != 0 {
		return
	}
	t.credited.Add(int64(s.weight))
	subtaskWeight.WithLabelValues("credited").Add(float64(s.weight))
	t.reportLocked()
}

// stopLocked drops queued work; the task ends in st once the in-flight
// sub-tasks drain.
func (t *Tracked) stopLocked(st State) {
	if len(t.queue) > 0 {
		t.log.Debug("dropping queued sub-tasks", "count", len(t.queue))
	}
	t.queue = nil
	t.closed = true
	t.ending = st
	t.cancel()
	t.cond.Broadcast()
	t.maybeFinishLocked()
}

func (t *Tracked) maybeFinishLocked() {
	if t.finished || t.inflight > 0 || len(t.queue) > 0 || !t.closed {
		return
	}
	t.finished = true
	if t.ending == 0 {
		t.reportLocked()
		t.state.Store(int32(Completed))
	} else {
		t.state.Store(int32(t.ending))
	}
	t.cancel()
	t.cond.Broadcast()
	close(t.done)
	tasksFinished.WithLabelValues(t.State().String()).Inc()
	t.log.Info("task finished", "state", t.State(), "progress", t.progress)
}

// reportLocked recomputes progress and notifies listeners when it rose.
// Progress never goes down, even as children grow the total.
func (t *Tracked) reportLocked() {
	p := 1.0
	if total := t.total.Load(); total > 0 {
		p = float64(t.credited.Load()) / float64(total)
	}
	if p <= t.progress {
		return
	}
	t.progress = p
	for _, fn := range t.listeners {
		fn(p)
	}
}

// Cancel stops scheduling. In-flight sub-tasks finish but aren't credited.
func (t *Tracked) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ending != 0 || t.finished {
		return
	}
	t.log.Info("cancelling", "inflight", t.inflight)
	t.stopLocked(Cancelled)
}

// Progress is the credited fraction of submitted weight as of the last
// credit, in [0, 1].
func (t *Tracked) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

// OnProgress registers fn to be called with each new progress value. fn
// runs on a worker with the task locked and must not call back into it.
func (t *Tracked) OnProgress(fn func(float64)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

func (t *Tracked) State() State { return State(t.state.Load()) }

func (t *Tracked) Done() <-chan struct{} { return t.done }

// Err is nil unless the task failed or was cancelled.
func (t *Tracked) Err() error {
	switch t.State() {
	case Cancelled:
		return ErrCancelled
	case Failed:
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.err
	}
	return nil
}

// Wait blocks until the task finishes or ctx is done.
func (t *Tracked) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		t.workers.Wait()
		return t.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot is a point-in-time view for status reporting.
type Snapshot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	State    string  `json:"state"`
	Progress float64 `json:"progress"`
	Error    string  `json:"error,omitempty"`
}

func (t *Tracked) Snapshot() Snapshot {
	s := Snapshot{
		ID:       t.ID.String(),
		Name:     t.Name,
		State:    t.State().String(),
		Progress: t.Progress(),
	}
	if err := t.Err(); err != nil {
		s.Error = err.Error()
	}
	return s
}
