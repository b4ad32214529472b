package pool

import (
	"container/heap"
	"sync/atomic"
	"time"
)

// Config controls pool sizing and idle-worker retirement.
type Config struct {
	// MaxWorkers bounds the number of live worker goroutines.
	MaxWorkers int
	// CoreWorkers is the floor below which idle workers are never
	// retired. Defaults to 0 if unset (all idle workers are retirement
	// candidates).
	CoreWorkers int
	// KeepAlive is how long a worker above CoreWorkers waits idle before
	// retiring. Defaults to 1 second if zero.
	KeepAlive time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = 1
	}
	if c.KeepAlive <= 0 {
		c.KeepAlive = time.Second
	}
	return c
}

// Pool is a priority-ordered worker pool with eager-spawn semantics.
type Pool struct {
	cfg Config

	submitCh   chan *item
	idleCh     chan idleReport
	shutdownCh chan struct{}
	doneCh     chan struct{}

	liveWorkers atomic.Int32
	seq         atomic.Int64
}

type idleReport struct {
	ch       chan *item
	retireAt time.Time
}

// New starts a pool's dispatcher goroutine and returns the pool handle.
func New(cfg Config) *Pool {
	cfg = cfg.withDefaults()
	p := &Pool{
		cfg:        cfg,
		submitCh:   make(chan *item),
		idleCh:     make(chan idleReport),
		shutdownCh: make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	go p.dispatch()
	return p
}

// Submit enqueues fn to run with the given priority. Higher priority runs
// first; equal priorities run in submission order.
func (p *Pool) Submit(priority int, fn func()) {
	it := &item{priority: priority, seq: p.seq.Add(1), run: fn}
	select {
	case p.submitCh <- it:
	case <-p.shutdownCh:
	}
}

// LiveWorkers reports the current number of live worker goroutines.
// Intended for diagnostics and tests.
func (p *Pool) LiveWorkers() int {
	return int(p.liveWorkers.Load())
}

// Shutdown stops accepting new work and waits for in-flight jobs and
// workers to finish.
func (p *Pool) Shutdown() {
	close(p.shutdownCh)
	<-p.doneCh
}

// dispatch is the pool's single goroutine that owns the priority queue and
// the set of idle workers. Owning both exclusively avoids locking the heap
// from multiple goroutines.
func (p *Pool) dispatch() {
	defer close(p.doneCh)

	queue := &priorityQueue{}
	var idle []idleReport
	workers := make(map[chan *item]struct{})

	sweep := time.NewTicker(p.cfg.KeepAlive / 2)
	defer sweep.Stop()

	shuttingDown := false

	for {
		if shuttingDown && queue.Len() == 0 && len(workers) == 0 {
			return
		}

		select {
		case it, ok := <-p.submitCh:
			if !ok {
				continue
			}
			p.assign(it, queue, &idle, workers)

		case rep := <-p.idleCh:
			if queue.Len() > 0 {
				it := heap.Pop(queue).(*item)
				rep.ch <- it
				continue
			}
			if shuttingDown {
				delete(workers, rep.ch)
				p.liveWorkers.Add(-1)
				close(rep.ch)
				continue
			}
			idle = append(idle, rep)

		case <-sweep.C:
			idle = p.retireStale(idle, workers)

		case <-p.shutdownCh:
			if shuttingDown {
				continue
			}
			shuttingDown = true
			// Retire every idle worker now; workers still running a job
			// will report idle when they finish, take any job still
			// queued, and are retired above once the queue is empty.
			idle = p.retireAll(idle, workers)
		}
	}
}

func (p *Pool) assign(it *item, queue *priorityQueue, idle *[]idleReport, workers map[chan *item]struct{}) {
	if int(p.liveWorkers.Load()) < p.cfg.MaxWorkers {
		ch := make(chan *item, 1)
		workers[ch] = struct{}{}
		p.liveWorkers.Add(1)
		go p.runWorker(ch)
		ch <- it
		return
	}
	if n := len(*idle); n > 0 {
		rep := (*idle)[n-1]
		*idle = (*idle)[:n-1]
		rep.ch <- it
		return
	}
	heap.Push(queue, it)
}

func (p *Pool) retireStale(idle []idleReport, workers map[chan *item]struct{}) []idleReport {
	if int(p.liveWorkers.Load()) <= p.cfg.CoreWorkers {
		return idle
	}
	now := time.Now()
	kept := idle[:0]
	for _, rep := range idle {
		if now.After(rep.retireAt) && int(p.liveWorkers.Load()) > p.cfg.CoreWorkers {
			delete(workers, rep.ch)
			p.liveWorkers.Add(-1)
			close(rep.ch)
			continue
		}
		kept = append(kept, rep)
	}
	return kept
}

func (p *Pool) retireAll(idle []idleReport, workers map[chan *item]struct{}) []idleReport {
	for _, rep := range idle {
		delete(workers, rep.ch)
		p.liveWorkers.Add(-1)
		close(rep.ch)
	}
	return idle[:0]
}

func (p *Pool) runWorker(ch chan *item) {
	for it := range ch {
		it.run()
		rep := idleReport{ch: ch, retireAt: time.Now().Add(p.cfg.KeepAlive)}
		// Always report idle, even while shutting down: dispatch is the
		// only place that removes ch from workers and decrements
		// liveWorkers, and it does so as soon as it sees this report (by
		// closing ch, which ends the loop below). Escaping here instead
		// would leave dispatch's bookkeeping short and its termination
		// guard never satisfied.
		p.idleCh <- rep
	}
}
