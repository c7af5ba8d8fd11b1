package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"ciphera/internal/client"
	"ciphera/internal/domain"
)

func TestServe_RelaysAndShutsDown(t *testing.T) {
	cfg, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	a, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	base := "http://" + ln.Addr().String()
	reqCtx, reqCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer reqCancel()

	alice, err := client.Dial(reqCtx, client.WebSocketURL(base, cfg.WSPath), "alice")
	if err != nil {
		t.Fatalf("dial alice: %v", err)
	}
	defer alice.CloseNow()
	bob, err := client.Dial(reqCtx, client.WebSocketURL(base, cfg.WSPath), "bob")
	if err != nil {
		t.Fatalf("dial bob: %v", err)
	}
	defer bob.CloseNow()

	deadline := time.Now().Add(2 * time.Second)
	for a.Wire().Conns.Len() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("connections never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := bob.SendMessage(reqCtx, "alice", json.RawMessage(`"ciphertext"`)); err != nil {
		t.Fatalf("send: %v", err)
	}
	msg, err := alice.ReceiveMessage(reqCtx)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if msg.UserID != domain.Identity("bob") || msg.DeviceID != 1 || string(msg.Message) != `"ciphertext"` {
		t.Fatalf("unexpected message: %+v", msg)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	cfg.PreKeyPolicy = "sometimes"
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected config error")
	}
}
