package demoaction

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"

	"github.com/leetcoder91/activities/internal/ctxlog"
	"github.com/leetcoder91/activities/internal/task"
)

type printConfig struct {
	Message string `hcl:"message"`
}

// Print logs its configured message and always reports Success.
type Print struct {
	Message string
}

func (p *Print) Perform(ctx context.Context) (task.Outcome, error) {
	ctxlog.FromContext(ctx).Info("print", "message", p.Message)
	return task.Success, nil
}

// CanRetry is irrelevant: Perform never returns Failure.
func (p *Print) CanRetry() bool { return false }

// IsEnabled is always true; Print has no external state to disable on.
func (p *Print) IsEnabled() bool { return true }

// NewPrint builds a Print action from a step body's `message` attribute.
// It satisfies pipeline.ActionConstructor.
func NewPrint(ctx context.Context, body hcl.Body) (task.Action, error) {
	var cfg printConfig
	if diags := gohcl.DecodeBody(body, nil, &cfg); diags.HasErrors() {
		return nil, diags
	}
	return &Print{Message: cfg.Message}, nil
}
