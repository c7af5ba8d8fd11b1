package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/coder/websocket"

	"ciphera/internal/domain"
	"ciphera/internal/relay"
)

// identityFromRequest returns the Authorization header verbatim.
func identityFromRequest(r *http.Request) domain.Identity {
	v := r.Header.Get("Authorization")
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return domain.Identity(v)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	identity := identityFromRequest(r)
	if identity == "" {
		s.log.Warn("websocket rejected: missing authorization", "remote", r.RemoteAddr)
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.opts.AllowedOrigins,
	})
	if err != nil {
		s.log.Warn("websocket accept failed", "identity", identity.String(), "err", err)
		return
	}
	defer conn.CloseNow()
	if s.opts.MaxFrameBytes > 0 {
		conn.SetReadLimit(s.opts.MaxFrameBytes)
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	id := s.track(cancel)
	defer s.untrack(id)

	session := s.proto.NewSession(identity, newWSChannel(conn, s.opts.WriteTimeout))
	if err := session.Open(); err != nil {
		s.log.Error("open session", "identity", identity.String(), "err", err)
		_ = conn.Close(websocket.StatusInternalError, "session unavailable")
		return
	}
	defer session.Close()

	s.serveSession(ctx, conn, session)
}

// serveSession reads frames until the connection ends, handing each to the
// session in arrival order.
func (s *Server) serveSession(ctx context.Context, conn *websocket.Conn, session *relay.Session) {
	log := s.log.With("identity", session.Identity().String())
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			switch status := websocket.CloseStatus(err); {
			case status == websocket.StatusNormalClosure, status == websocket.StatusGoingAway:
			case errors.Is(err, context.Canceled):
			default:
				log.Debug("websocket read ended", "err", err)
			}
			return
		}
		if typ != websocket.MessageText {
			log.Warn("skipping non-text frame", "type", int(typ))
			continue
		}

		var ev domain.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Warn("skipping malformed frame", "err", err, "bytes", len(data))
			continue
		}

		outcome, err := session.Handle(ctx, ev)
		if err != nil {
			if errors.Is(err, relay.ErrSessionState) {
				return
			}
			log.Warn("event not handled", "event", ev.Event, "outcome", outcome.String(), "err", err)
			continue
		}
		log.Debug("event handled", "event", ev.Event, "outcome", outcome.String())
	}
}
