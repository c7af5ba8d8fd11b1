package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"ciphera/internal/domain"
)

// Conn is a live relay connection for one identity.
type Conn struct {
	ws       *websocket.Conn
	identity domain.Identity
}

// Dial opens a relay connection to wsURL as identity.
// The identity travels in the Authorization header.
func Dial(ctx context.Context, wsURL string, identity domain.Identity) (*Conn, error) {
	h := http.Header{}
	h.Set("Authorization", identity.String())
	ws, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{HTTPHeader: h})
	if err != nil {
		return nil, fmt.Errorf("client: dial: %w", err)
	}
	return &Conn{ws: ws, identity: identity}, nil
}

// Identity returns the identity the connection was opened as.
func (c *Conn) Identity() domain.Identity { return c.identity }

// SetInfo publishes info as this identity's key bundle. The relay sends no reply.
func (c *Conn) SetInfo(ctx context.Context, info domain.UserInfo) error {
	ev, err := domain.NewEvent(domain.EventSetInfo, info)
	if err != nil {
		return fmt.Errorf("client: encode %s: %w", domain.EventSetInfo, err)
	}
	return c.write(ctx, ev)
}

// SendMessage relays message, already encrypted by the caller, to the identity to.
// message goes out byte for byte.
func (c *Conn) SendMessage(ctx context.Context, to domain.Identity, message json.RawMessage) error {
	ev, err := domain.OutgoingMessage{UserID: to, Message: message}.Event()
	if err != nil {
		return fmt.Errorf("client: encode %s: %w", domain.EventMessage, err)
	}
	return c.write(ctx, ev)
}

// Receive blocks for the next event from the relay.
func (c *Conn) Receive(ctx context.Context) (domain.Event, error) {
	var ev domain.Event
	if err := wsjson.Read(ctx, c.ws, &ev); err != nil {
		return domain.Event{}, fmt.Errorf("client: read: %w", err)
	}
	return ev, nil
}

// ReceiveMessage waits for the next message event and decodes it, skipping
// any other events.
func (c *Conn) ReceiveMessage(ctx context.Context) (domain.RelayedMessage, error) {
	for {
		ev, err := c.Receive(ctx)
		if err != nil {
			return domain.RelayedMessage{}, err
		}
		if ev.Event != domain.EventMessage {
			continue
		}
		var msg domain.RelayedMessage
		if err := json.Unmarshal(ev.Data, &msg); err != nil {
			return domain.RelayedMessage{}, fmt.Errorf("client: decode message: %w", err)
		}
		return msg, nil
	}
}

func (c *Conn) write(ctx context.Context, ev domain.Event) error {
	frame, err := ev.Frame()
	if err != nil {
		return fmt.Errorf("client: encode %s: %w", ev.Event, err)
	}
	if err := c.ws.Write(ctx, websocket.MessageText, frame); err != nil {
		return fmt.Errorf("client: write %s: %w", ev.Event, err)
	}
	return nil
}

// Close sends a normal closure frame and then closes the connection.
func (c *Conn) Close() error {
	return c.ws.Close(websocket.StatusNormalClosure, "")
}

// CloseNow closes the connection immediately without a close frame.
func (c *Conn) CloseNow() error {
	return c.ws.CloseNow()
}

// WebSocketURL turns an http(s) relay base URL into its ws(s) form with path appended.
func WebSocketURL(base, path string) string {
	base = strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
