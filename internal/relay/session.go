package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"ciphera/internal/crypto"
	"ciphera/internal/domain"
)

// State is where a Session is in its lifecycle.
type State int

const (
	StateConnecting State = iota
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is the relay state machine bound to one connection.
// Handle must be called from a single goroutine so events keep their order;
// Close may be called from any goroutine.
type Session struct {
	proto    *Protocol
	identity domain.Identity
	channel  domain.Channel
	log      *slog.Logger

	mu    sync.Mutex
	state State
}

// Identity returns the identity the session was opened with.
func (s *Session) Identity() domain.Identity { return s.identity }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Open registers the session's channel and moves it to Active.
// It may only be called once, before any event is handled.
func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConnecting {
		return fmt.Errorf("%w: open while %s", ErrSessionState, s.state)
	}
	if _, replaced := s.proto.conns.Lookup(s.identity); replaced {
		s.log.Warn("identity already connected; newest connection takes over")
	}
	s.proto.conns.Register(s.identity, s.channel)
	s.state = StateActive
	s.log.Info("user connected")
	return nil
}

// Close moves the session to Closed and unregisters its identity. With
// guarded release the entry is only dropped while it still points at this
// session's channel. Calling Close more than once is harmless.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}
	wasActive := s.state == StateActive
	s.state = StateClosed
	if !wasActive {
		return
	}
	if !s.proto.guardedRelease {
		s.proto.conns.Unregister(s.identity)
	} else if !s.proto.conns.Release(s.identity, s.channel) {
		s.log.Debug("registry entry already taken over by a newer connection")
	}
	s.log.Info("user disconnected")
}

// Handle processes one inbound event.
func (s *Session) Handle(ctx context.Context, ev domain.Event) (Outcome, error) {
	if st := s.State(); st != StateActive {
		return OutcomeIgnored, fmt.Errorf("%w: event %q while %s", ErrSessionState, ev.Event, st)
	}

	switch ev.Event {
	case domain.EventSetInfo:
		return s.handleSetInfo(ev.Data)
	case domain.EventMessage:
		return s.handleMessage(ctx, ev.Data)
	default:
		s.log.Debug("ignoring unknown event", "event", ev.Event)
		return OutcomeIgnored, nil
	}
}

func (s *Session) handleSetInfo(data json.RawMessage) (Outcome, error) {
	if len(data) == 0 || string(data) == "null" {
		return OutcomeIgnored, fmt.Errorf("%w: set_info: missing data", ErrMalformedEvent)
	}
	// The record is stored as published; the typed view only feeds the log.
	info, err := domain.ParseUserInfo(data)
	if err != nil {
		s.log.Debug("set_info data not in the usual shape", "err", err)
	}
	s.proto.keys.Put(s.identity, info)
	s.log.Info("setting bundle",
		"registration_id", info.RegistrationID,
		"device_id", info.DeviceID,
		"identity_key_fp", crypto.Fingerprint(info.Bundle.IdentityKey).String(),
		"bytes", len(data),
	)
	return OutcomeStored, nil
}

func (s *Session) handleMessage(ctx context.Context, data json.RawMessage) (Outcome, error) {
	var out domain.OutgoingMessage
	if err := json.Unmarshal(data, &out); err != nil {
		return OutcomeIgnored, fmt.Errorf("%w: message: %v", ErrMalformedEvent, err)
	}
	if out.UserID == "" {
		return OutcomeIgnored, fmt.Errorf("%w: message: missing userId", ErrMalformedEvent)
	}

	target, ok := s.proto.conns.Lookup(out.UserID)
	if !ok {
		s.log.Info("recipient unavailable", "to", out.UserID.String())
		s.noticeUndeliverable(ctx, out.UserID)
		return OutcomeRecipientUnavailable, nil
	}

	relayed, err := domain.RelayedMessage{
		UserID:   s.identity,
		DeviceID: domain.RelayedDeviceID,
		Message:  out.Message,
	}.Event()
	if err != nil {
		return OutcomeIgnored, fmt.Errorf("%w: message: %v", ErrMalformedEvent, err)
	}
	if err := target.Send(ctx, relayed); err != nil {
		s.log.Warn("relay write failed", "to", out.UserID.String(), "err", err)
		s.noticeUndeliverable(ctx, out.UserID)
		return OutcomeRecipientUnavailable, fmt.Errorf("relay to %s: %w", out.UserID, err)
	}
	s.log.Info("transferred encrypted message", "to", out.UserID.String(), "bytes", len(out.Message))
	return OutcomeDelivered, nil
}

func (s *Session) noticeUndeliverable(ctx context.Context, target domain.Identity) {
	if !s.proto.notifyUndeliverable {
		return
	}
	ev, err := domain.NewEvent(domain.EventUndeliverable, domain.Undeliverable{UserID: target})
	if err != nil {
		return
	}
	if err := s.channel.Send(ctx, ev); err != nil {
		s.log.Warn("undeliverable notice failed", "err", err)
	}
}
