package scheduler

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/leetcoder91/activities/internal/config"
	"github.com/leetcoder91/activities/internal/ctxlog"
	"github.com/leetcoder91/activities/internal/graph"
	"github.com/leetcoder91/activities/internal/pool"
	"github.com/leetcoder91/activities/internal/tag"
	"github.com/leetcoder91/activities/internal/task"
)

// nonWordRun matches a run of characters outside A-Za-z0-9_, used to
// normalise task names for DOT output the same way the original system's
// normalizeVertexName does.
var nonWordRun = regexp.MustCompile(`\W+`)

func normalizeVertexName(name string) string {
	if name == "" {
		return "unknown"
	}
	return nonWordRun.ReplaceAllString(name, "_")
}

// Scheduler owns a graph of tasks and runs them sequentially or in
// parallel. The zero value is not usable; construct with New.
type Scheduler struct {
	mu sync.Mutex

	g    *graph.Graph[*task.Task]
	tags *tag.Registry
	opts config.Options

	tagMembers map[*tag.Tag]map[*task.Task]struct{}
	taskTags   map[*task.Task]map[*tag.Tag]struct{}

	observers []Observer

	pool     *pool.Pool
	poolOnce sync.Once
}

// New creates an empty scheduler configured with opts.
func New(opts config.Options) *Scheduler {
	return &Scheduler{
		g:          graph.New[*task.Task](),
		tags:       tag.NewRegistry(),
		opts:       opts,
		tagMembers: make(map[*tag.Tag]map[*task.Task]struct{}),
		taskTags:   make(map[*task.Task]map[*tag.Tag]struct{}),
	}
}

func (s *Scheduler) workerPool() *pool.Pool {
	s.poolOnce.Do(func() {
		s.pool = pool.New(pool.Config{MaxWorkers: s.opts.MaxActivityPoolSize})
	})
	return s.pool
}

// Create wraps action in a new Task and adds it to the graph. It returns
// ErrInvalidAction if action is nil.
func (s *Scheduler) Create(name string, action task.Action) (*task.Task, error) {
	if action == nil {
		return nil, ErrInvalidAction
	}
	t := task.New(name, action)
	s.mu.Lock()
	s.g.AddVertex(t)
	s.mu.Unlock()
	return t, nil
}

// Add registers an already-constructed task with the scheduler.
func (s *Scheduler) Add(t *task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.g.AddVertex(t)
}

// Before records that a must run before b.
func (s *Scheduler) Before(a, b *task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.g.Before(a, b)
}

// After records that a must run after b.
func (s *Scheduler) After(a, b *task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.g.After(a, b)
}

// Remove drops t from the graph, re-stitching its predecessors directly to
// its successors. It reports whether t was present.
func (s *Scheduler) Remove(t *task.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.g.RemoveVertex(t)
	if removed {
		s.untagAllLocked(t)
	}
	return removed
}

// Dependents returns the tasks that directly depend on t.
func (s *Scheduler) Dependents(t *task.Task) []*task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.Dependents(t)
}

// DependsOn returns the tasks that t directly depends on.
func (s *Scheduler) DependsOn(t *task.Task) []*task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.DependsOn(t)
}

// CreateTag interns and returns the tag for name.
func (s *Scheduler) CreateTag(name string) *tag.Tag {
	return s.tags.Intern(name)
}

// Tag attaches tags to t.
func (s *Scheduler) Tag(t *task.Task, tags ...*tag.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.taskTags[t] == nil {
		s.taskTags[t] = make(map[*tag.Tag]struct{})
	}
	for _, tg := range tags {
		s.taskTags[t][tg] = struct{}{}
		if s.tagMembers[tg] == nil {
			s.tagMembers[tg] = make(map[*task.Task]struct{})
		}
		s.tagMembers[tg][t] = struct{}{}
	}
}

// Untag removes tags from t.
func (s *Scheduler) Untag(t *task.Task, tags ...*tag.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tg := range tags {
		delete(s.taskTags[t], tg)
		delete(s.tagMembers[tg], t)
	}
}

func (s *Scheduler) untagAllLocked(t *task.Task) {
	for tg := range s.taskTags[t] {
		delete(s.tagMembers[tg], t)
	}
	delete(s.taskTags, t)
}

// GetTaggedActivities returns every task carrying at least one of tags. If
// taggedOnly is false, the result is expanded to include the full
// transitive dependency closure of each matched task, so running the
// returned set also runs whatever it needs to succeed.
func (s *Scheduler) GetTaggedActivities(taggedOnly bool, tags ...*tag.Tag) []*task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make(map[*task.Task]struct{})
	for _, tg := range tags {
		for t := range s.tagMembers[tg] {
			matched[t] = struct{}{}
		}
	}

	if !taggedOnly {
		var stack []*task.Task
		for t := range matched {
			stack = append(stack, t)
		}
		for len(stack) > 0 {
			t := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, dep := range s.g.DependsOn(t) {
				if _, ok := matched[dep]; !ok {
					matched[dep] = struct{}{}
					stack = append(stack, dep)
				}
			}
		}
	}

	out := make([]*task.Task, 0, len(matched))
	for t := range matched {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Subscribe registers observer to be called after every Task.Execute call
// in subsequent passes. The returned function unsubscribes it.
func (s *Scheduler) Subscribe(observer Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
	idx := len(s.observers) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers[idx] = nil
	}
}

func (s *Scheduler) notify(t *task.Task, outcome task.Outcome, err error) {
	s.mu.Lock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()
	for _, obs := range observers {
		if obs != nil {
			obs(t, outcome, err)
		}
	}
}

// Reset drops every task, edge, and tag membership, returning the
// scheduler to its just-constructed state. It does not shut down a worker
// pool that has already been created, so a subsequent run reuses it, and
// observers registered with Subscribe stay registered.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.g = graph.New[*task.Task]()
	s.tagMembers = make(map[*tag.Tag]map[*task.Task]struct{})
	s.taskTags = make(map[*task.Task]map[*tag.Tag]struct{})
}

// Shutdown releases the scheduler's worker pool, if one was created. Call
// this when the scheduler will no longer be used.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	p := s.pool
	s.mu.Unlock()
	if p != nil {
		p.Shutdown()
	}
}

// ExecuteAll runs every task currently in the scheduler, in dependency
// order. parallel selects the priority-pool algorithm over the plain
// sequential walk.
func (s *Scheduler) ExecuteAll(ctx context.Context, parallel bool) error {
	s.mu.Lock()
	tasks := s.g.Vertices()
	s.mu.Unlock()
	return s.execute(ctx, parallel, tasks)
}

// ExecuteFiltered runs only the given tasks (and whatever dependency
// ordering among them the graph implies), in dependency order.
func (s *Scheduler) ExecuteFiltered(ctx context.Context, parallel bool, tasks []*task.Task) error {
	return s.execute(ctx, parallel, tasks)
}

func (s *Scheduler) execute(ctx context.Context, parallel bool, tasks []*task.Task) error {
	logger := ctxlog.FromContext(ctx)

	s.mu.Lock()
	if s.opts.DebugOperations {
		logger.Debug("scheduler: pass starting", "dot", s.dotLocked(tasks))
	}
	order, err := s.g.TopoSort(tasks)
	s.mu.Unlock()
	if err != nil {
		var cyc *graph.CyclicError[*task.Task]
		if errors.As(err, &cyc) {
			return &CyclicDependenciesError{Task: cyc.Vertex}
		}
		return err
	}

	for _, t := range order {
		t.BeginPass()
	}

	if parallel {
		return s.executeParallel(ctx, order)
	}
	return s.executeSequential(ctx, order)
}

func (s *Scheduler) executeSequential(ctx context.Context, order []*task.Task) error {
	var failures []TaskFailure
	for _, t := range order {
		if ctx.Err() != nil {
			return &CancelledError{Cause: ctx.Err()}
		}
		if !t.Enabled() {
			s.disablePropagate(t)
			continue
		}
		outcome, err := t.Execute(ctx, s.opts.MaxActivityRetry)
		s.notify(t, outcome, err)
		// A Failure/Disable outcome is an ordinary, expected result: the
		// action's own error is already absorbed into the outcome and
		// observed via disable propagation below, not surfaced as a
		// pass-level error. Only a wrapper-contract violation does that.
		if errors.Is(err, task.ErrAlreadyExecuting) {
			failures = append(failures, TaskFailure{Task: t, Outcome: outcome, Err: err})
		}
		if !t.Enabled() {
			s.disablePropagate(t)
		}
	}
	if len(failures) > 0 {
		return &TaskFailedError{Failures: failures}
	}
	return nil
}

func (s *Scheduler) executeParallel(ctx context.Context, order []*task.Task) error {
	levels := s.groupByLevel(order)
	p := s.workerPool()

	var mu sync.Mutex
	var failures []TaskFailure

	for depth := 0; depth < len(levels); depth++ {
		level := levels[depth]
		if ctx.Err() != nil {
			return &CancelledError{Cause: ctx.Err()}
		}

		var wg sync.WaitGroup
		for _, t := range level {
			if !t.Enabled() {
				s.disablePropagate(t)
				continue
			}
			wg.Add(1)
			t := t
			// Base priority comes from depth (earlier levels drain first);
			// a step's own Priority breaks ties within the same level.
			priority := (len(levels)-1-depth)*1000 + t.Priority()
			p.Submit(priority, func() {
				defer wg.Done()
				outcome, err := t.Execute(ctx, s.opts.MaxActivityRetry)
				s.notify(t, outcome, err)
				// Same rule as the sequential path: ordinary task failures
				// surface only as disabled dependents, never as a pass
				// error. A TaskFailed error is reserved for the wrapper
				// itself misbehaving.
				if errors.Is(err, task.ErrAlreadyExecuting) {
					mu.Lock()
					failures = append(failures, TaskFailure{Task: t, Outcome: outcome, Err: err})
					mu.Unlock()
				}
				if !t.Enabled() {
					s.disablePropagate(t)
				}
			})
		}
		wg.Wait()
	}

	if ctx.Err() != nil {
		return &CancelledError{Cause: ctx.Err()}
	}
	if len(failures) > 0 {
		return &TaskFailedError{Failures: failures}
	}
	return nil
}

// groupByLevel buckets order (already topologically sorted) by depth,
// where depth(t) is the length of the longest dependsOn chain ending at t
// within order. Root tasks (no dependencies within order) sit at depth 0.
func (s *Scheduler) groupByLevel(order []*task.Task) [][]*task.Task {
	included := make(map[*task.Task]struct{}, len(order))
	for _, t := range order {
		included[t] = struct{}{}
	}

	depth := make(map[*task.Task]int, len(order))
	maxDepth := 0
	for _, t := range order { // order is already a valid topological sort
		d := 0
		s.mu.Lock()
		deps := s.g.DependsOn(t)
		s.mu.Unlock()
		for _, dep := range deps {
			if _, ok := included[dep]; !ok {
				continue
			}
			if depth[dep]+1 > d {
				d = depth[dep] + 1
			}
		}
		depth[t] = d
		if d > maxDepth {
			maxDepth = d
		}
	}

	levels := make([][]*task.Task, maxDepth+1)
	for _, t := range order {
		levels[depth[t]] = append(levels[depth[t]], t)
	}
	return levels
}

// disablePropagate recursively disables every transitive dependent of t
// that isn't already disabled. Already-disabled dependents are left alone
// so their own, independently-triggered propagation (if any) isn't
// duplicated.
func (s *Scheduler) disablePropagate(t *task.Task) {
	s.mu.Lock()
	queue := append([]*task.Task{}, s.g.Dependents(t)...)
	s.mu.Unlock()

	visited := make(map[*task.Task]struct{})
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if _, ok := visited[cur]; ok {
			continue
		}
		visited[cur] = struct{}{}

		if !cur.Enabled() {
			continue
		}
		if stillEnabled := cur.Disable(); !stillEnabled {
			s.mu.Lock()
			queue = append(queue, s.g.Dependents(cur)...)
			s.mu.Unlock()
		}
		// Disable returning true means cur is currently executing: the
		// request was ignored, so its own dependents are left alone — a
		// later level will observe cur's enabled state before it starts.
	}
}

// DOT renders the current graph (or, if tasks is non-empty, the requested
// subset) as GraphViz DOT, for diagnostics.
func (s *Scheduler) DOT(tasks []*task.Task) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dotLocked(tasks)
}

func (s *Scheduler) dotLocked(tasks []*task.Task) string {
	if len(tasks) == 0 {
		tasks = s.g.Vertices()
	}
	var b strings.Builder
	b.WriteString("digraph Activities {\n")
	for _, t := range tasks {
		for _, dep := range s.g.DependsOn(t) {
			fmt.Fprintf(&b, "  %s -> %s;\n", normalizeVertexName(dep.Name()), normalizeVertexName(t.Name()))
		}
	}
	b.WriteString("}\n")
	return b.String()
}
