package progress

import (
	"net/http"

	"github.com/zishang520/socket.io/v2/socket"

	"github.com/leetcoder91/activities/internal/scheduler"
	"github.com/leetcoder91/activities/internal/task"
)

// Broadcaster runs a Socket.IO server room and emits a "task-outcome" event
// for every task execution a subscribed scheduler reports.
type Broadcaster struct {
	io *socket.Server
}

// New starts a Socket.IO server with default options.
func New() *Broadcaster {
	return &Broadcaster{io: socket.NewServer(nil, nil)}
}

// Handler returns the http.Handler that serves the Socket.IO transport.
// Mount it under the path your dashboard's client is configured to use.
func (b *Broadcaster) Handler() http.Handler {
	return b.io.ServeHandler(nil)
}

// Observer returns a scheduler.Observer that emits every outcome it
// receives. Pass it to Scheduler.Subscribe.
func (b *Broadcaster) Observer() scheduler.Observer {
	return func(t *task.Task, outcome task.Outcome, err error) {
		payload := map[string]any{
			"task":    t.Name(),
			"outcome": outcome.String(),
		}
		if err != nil {
			payload["error"] = err.Error()
		}
		b.io.Emit("task-outcome", payload)
	}
}

// Close shuts down the underlying Socket.IO server.
func (b *Broadcaster) Close() error {
	var closeErr error
	b.io.Close(func(err error) {
		closeErr = err
	})
	return closeErr
}
