package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leetcoder91/activities/internal/config"
	"github.com/leetcoder91/activities/internal/scheduler"
	"github.com/leetcoder91/activities/internal/task"
)

const samplePipeline = `
step "print" "hello" {
  message = "hello"
}

step "print" "world" {
  message    = "world"
  depends_on = ["hello"]
  tags       = ["greeting"]
}
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.hcl")
	require.NoError(t, os.WriteFile(path, []byte(samplePipeline), 0o644))
	return path
}

type printBody struct {
	Message string `hcl:"message"`
}

func printConstructor(ctx context.Context, body hcl.Body) (task.Action, error) {
	var cfg printBody
	if diags := gohcl.DecodeBody(body, nil, &cfg); diags.HasErrors() {
		return nil, diags
	}
	return task.ActionFunc(func(ctx context.Context) (task.Outcome, error) {
		return task.Success, nil
	}), nil
}

func TestLoad_ParsesSteps(t *testing.T) {
	path := writeSample(t)
	steps, err := Load(path)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "print", steps[0].Type)
	assert.Equal(t, "hello", steps[0].Name)
	assert.Equal(t, []string{"hello"}, steps[1].DependsOn)
	assert.Equal(t, []string{"greeting"}, steps[1].Tags)
}

func TestBuild_WiresDependenciesAndTags(t *testing.T) {
	path := writeSample(t)
	steps, err := Load(path)
	require.NoError(t, err)

	sched := scheduler.New(config.Default())
	tasks, err := Build(context.Background(), sched, steps, Registry{"print": printConstructor})
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.ElementsMatch(t, []*task.Task{tasks["hello"]}, sched.DependsOn(tasks["world"]))

	greeting := sched.CreateTag("greeting")
	assert.Equal(t, []*task.Task{tasks["world"]}, sched.GetTaggedActivities(true, greeting))
}

func TestBuild_UnknownStepType(t *testing.T) {
	sched := scheduler.New(config.Default())
	_, err := Build(context.Background(), sched, []*StepConfig{{Type: "missing", Name: "x"}}, Registry{})
	require.Error(t, err)
}

const priorityPipeline = `
step "print" "urgent" {
  message  = "urgent"
  priority = 5
}

step "print" "background" {
  message = "background"
}
`

func TestLoad_ParsesPriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.hcl")
	require.NoError(t, os.WriteFile(path, []byte(priorityPipeline), 0o644))

	steps, err := Load(path)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, 5, steps[0].Priority)
	assert.Equal(t, 0, steps[1].Priority, "absent priority defaults to zero")
}

func TestBuild_AppliesPriorityToTask(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.hcl")
	require.NoError(t, os.WriteFile(path, []byte(priorityPipeline), 0o644))
	steps, err := Load(path)
	require.NoError(t, err)

	sched := scheduler.New(config.Default())
	tasks, err := Build(context.Background(), sched, steps, Registry{"print": printConstructor})
	require.NoError(t, err)

	assert.Equal(t, 5, tasks["urgent"].Priority())
	assert.Equal(t, 0, tasks["background"].Priority())
}
