package pipeline

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/leetcoder91/activities/internal/scheduler"
	"github.com/leetcoder91/activities/internal/task"
)

// ActionConstructor builds a task.Action from a step's remaining HCL body.
// Registered per step type (e.g. "print", "http_get").
type ActionConstructor func(ctx context.Context, body hcl.Body) (task.Action, error)

// Registry maps step type names to the constructor used to build that
// step's Action.
type Registry map[string]ActionConstructor

// Build compiles steps into scheduler tasks: one task.Task per step, wired
// with Before edges from each step's depends_on, and tagged per its tags.
// It returns the created tasks keyed by step name.
func Build(ctx context.Context, sched *scheduler.Scheduler, steps []*StepConfig, registry Registry) (map[string]*task.Task, error) {
	tasks := make(map[string]*task.Task, len(steps))

	for _, st := range steps {
		ctor, ok := registry[st.Type]
		if !ok {
			return nil, fmt.Errorf("pipeline: no constructor registered for step type %q (step %q)", st.Type, st.Name)
		}
		action, err := ctor(ctx, st.Body)
		if err != nil {
			return nil, fmt.Errorf("pipeline: building step %q: %w", st.Name, err)
		}
		t, err := sched.Create(st.Name, action)
		if err != nil {
			return nil, fmt.Errorf("pipeline: creating step %q: %w", st.Name, err)
		}
		tasks[st.Name] = t
		t.SetPriority(st.Priority)

		for _, tagName := range st.Tags {
			sched.Tag(t, sched.CreateTag(tagName))
		}
	}

	for _, st := range steps {
		for _, depName := range st.DependsOn {
			dep, ok := tasks[depName]
			if !ok {
				return nil, fmt.Errorf("pipeline: step %q depends_on unknown step %q", st.Name, depName)
			}
			sched.Before(dep, tasks[st.Name])
		}
	}

	return tasks, nil
}
