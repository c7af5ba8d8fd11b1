package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"

	"ciphera/internal/domain"
)

// wsChannel is the send half of one accepted WebSocket. Writes are
// serialized so events from several senders reach the client in the order
// their Send calls acquired the lock.
type wsChannel struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func newWSChannel(conn *websocket.Conn, writeTimeout time.Duration) *wsChannel {
	return &wsChannel{conn: conn, writeTimeout: writeTimeout}
}

// Send writes ev as one text frame.
func (c *wsChannel) Send(ctx context.Context, ev domain.Event) error {
	data, err := ev.Frame()
	if err != nil {
		return fmt.Errorf("server: marshal event: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.writeTimeout)
		defer cancel()
	}
	if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("server: write: %w", err)
	}
	return nil
}

var _ domain.Channel = (*wsChannel)(nil)
