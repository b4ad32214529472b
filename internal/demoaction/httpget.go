package demoaction

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"resty.dev/v3"

	"github.com/leetcoder91/activities/internal/ctxlog"
	"github.com/leetcoder91/activities/internal/task"
)

type httpGetConfig struct {
	URL string `hcl:"url"`
}

// HTTPGet issues a GET request and maps the response to an outcome: 2xx is
// Success, 5xx is a retryable Failure, anything else (including a request
// error) is a non-retryable Failure — retrying a 4xx or a malformed
// request would just repeat the same client error.
type HTTPGet struct {
	URL    string
	client *resty.Client

	retryable bool
}

func (h *HTTPGet) Perform(ctx context.Context) (task.Outcome, error) {
	client := h.client
	if client == nil {
		client = resty.New()
	}

	resp, err := client.R().SetContext(ctx).Get(h.URL)
	if err != nil {
		h.retryable = false
		return task.Failure, err
	}
	if resp.RawResponse != nil {
		defer resp.RawResponse.Body.Close()
	}

	status := resp.StatusCode()
	ctxlog.FromContext(ctx).Debug("http_get", "url", h.URL, "status", status)

	switch {
	case status >= 200 && status < 300:
		return task.Success, nil
	case status >= 500:
		h.retryable = true
		return task.Failure, fmt.Errorf("http_get: server error: %d", status)
	default:
		h.retryable = false
		return task.Failure, fmt.Errorf("http_get: non-retryable status: %d", status)
	}
}

// CanRetry reports whether the most recent Failure came from a 5xx
// response; everything else (a 4xx, a request-level error) is worth
// retrying only in the sense that retrying would reproduce it exactly.
func (h *HTTPGet) CanRetry() bool { return h.retryable }

// IsEnabled is always true; HTTPGet has no external state to disable on.
func (h *HTTPGet) IsEnabled() bool { return true }

// NewHTTPGet builds an HTTPGet action from a step body's `url` attribute.
// It satisfies pipeline.ActionConstructor.
func NewHTTPGet(ctx context.Context, body hcl.Body) (task.Action, error) {
	var cfg httpGetConfig
	if diags := gohcl.DecodeBody(body, nil, &cfg); diags.HasErrors() {
		return nil, diags
	}
	return &HTTPGet{URL: cfg.URL}, nil
}
