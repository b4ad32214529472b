package progress

import (
	"context"
	"fmt"
	"net/url"

	"github.com/zishang520/engine.io-client-go/transports"
	engineiotypes "github.com/zishang520/engine.io/v2/types"
	clientsocket "github.com/zishang520/socket.io-client-go/socket"
)

// Watch connects to a Broadcaster's Socket.IO endpoint as a client and
// invokes onOutcome for every "task-outcome" event received, until ctx is
// cancelled. It is the counterpart a dashboard uses to observe a scheduler
// running elsewhere.
func Watch(ctx context.Context, target, namespace string, onOutcome func(payload map[string]any)) (func(), error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("progress: parsing watch target: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
	opts := clientsocket.DefaultOptions()
	opts.SetPath(parsed.Path)
	opts.SetTransports(engineiotypes.NewSet(transports.WebSocket))

	manager := clientsocket.NewManager(baseURL, opts)
	conn := manager.Socket(namespace, opts)

	conn.On(engineiotypes.EventName("task-outcome"), func(data ...any) {
		if len(data) == 0 {
			return
		}
		if payload, ok := data[0].(map[string]any); ok {
			onOutcome(payload)
		}
	})

	conn.Connect()

	go func() {
		<-ctx.Done()
		conn.Disconnect()
	}()

	return func() { conn.Disconnect() }, nil
}
