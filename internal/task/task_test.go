package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_Success(t *testing.T) {
	tk := New("t", ActionFunc(func(ctx context.Context) (Outcome, error) {
		return Success, nil
	}))
	outcome, err := tk.Execute(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, Success, outcome)
	assert.True(t, tk.Enabled())
}

func TestExecute_FailureExhaustsRetriesThenDisables(t *testing.T) {
	var attempts atomic.Int32
	tk := New("t", ActionFunc(func(ctx context.Context) (Outcome, error) {
		attempts.Add(1)
		return Failure, errors.New("boom")
	}))
	outcome, err := tk.Execute(context.Background(), 3)
	require.Error(t, err)
	assert.Equal(t, Failure, outcome)
	assert.Equal(t, int32(4), attempts.Load(), "one initial attempt plus 3 retries")
	assert.False(t, tk.Enabled())
}

func TestExecute_FailureThenSuccessRetries(t *testing.T) {
	var attempts atomic.Int32
	tk := New("t", ActionFunc(func(ctx context.Context) (Outcome, error) {
		n := attempts.Add(1)
		if n < 2 {
			return Failure, errors.New("transient")
		}
		return Success, nil
	}))
	outcome, err := tk.Execute(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, Success, outcome)
	assert.Equal(t, int32(2), attempts.Load())
	assert.True(t, tk.Enabled())
}

func TestExecute_Disable(t *testing.T) {
	tk := New("t", ActionFunc(func(ctx context.Context) (Outcome, error) {
		return Disable, nil
	}))
	_, err := tk.Execute(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, tk.Enabled())
}

func TestExecute_DisableOnceRestoredNextPass(t *testing.T) {
	tk := New("t", ActionFunc(func(ctx context.Context) (Outcome, error) {
		return DisableOnce, nil
	}))
	_, err := tk.Execute(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, tk.Enabled())

	tk.BeginPass()
	assert.True(t, tk.Enabled())
}

// nonRetryableAction always fails and reports CanRetry() == false, so the
// wrapper must stop after the first attempt.
type nonRetryableAction struct {
	attempts *atomic.Int32
}

func (a *nonRetryableAction) Perform(ctx context.Context) (Outcome, error) {
	a.attempts.Add(1)
	return Failure, errors.New("permanent")
}
func (a *nonRetryableAction) CanRetry() bool  { return false }
func (a *nonRetryableAction) IsEnabled() bool { return true }

func TestExecute_FailureNotRetryableStopsAfterOneAttempt(t *testing.T) {
	var attempts atomic.Int32
	tk := New("t", &nonRetryableAction{attempts: &attempts})

	outcome, err := tk.Execute(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, Failure, outcome)
	assert.Equal(t, int32(1), attempts.Load())
	assert.False(t, tk.Enabled())
}

// disabledAction reports IsEnabled() == false regardless of the task
// wrapper's own enabled flag.
type disabledAction struct {
	performed *atomic.Int32
}

func (a *disabledAction) Perform(ctx context.Context) (Outcome, error) {
	a.performed.Add(1)
	return Success, nil
}
func (a *disabledAction) CanRetry() bool  { return true }
func (a *disabledAction) IsEnabled() bool { return false }

func TestExecute_ActionDisabledSkipsPerform(t *testing.T) {
	var performed atomic.Int32
	tk := New("t", &disabledAction{performed: &performed})

	outcome, err := tk.Execute(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, Disable, outcome)
	assert.Equal(t, int32(0), performed.Load())
	assert.False(t, tk.Enabled())
}

func TestExecute_AlreadyExecuting(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	tk := New("t", ActionFunc(func(ctx context.Context) (Outcome, error) {
		close(started)
		<-block
		return Success, nil
	}))

	go tk.Execute(context.Background(), 1)
	<-started

	outcome, err := tk.Execute(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAlreadyExecuting)
	assert.Equal(t, Failure, outcome)
	close(block)
}

func TestDisable_NoopWhileExecuting(t *testing.T) {
	started := make(chan struct{})
	block := make(chan struct{})
	tk := New("t", ActionFunc(func(ctx context.Context) (Outcome, error) {
		close(started)
		<-block
		return Success, nil
	}))

	done := make(chan struct{})
	go func() {
		tk.Execute(context.Background(), 1)
		close(done)
	}()
	<-started

	assert.True(t, tk.Disable(), "disable should be ignored while executing")
	close(block)
	<-done
}
