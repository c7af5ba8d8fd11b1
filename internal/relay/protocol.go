package relay

import (
	"log/slog"

	"ciphera/internal/domain"
)

// Protocol is the shared half of the relay: the registries every session reads
// and writes. It is safe for concurrent use by many sessions.
type Protocol struct {
	keys                domain.KeyBundleStore
	conns               domain.ConnectionRegistry
	log                 *slog.Logger
	notifyUndeliverable bool
	guardedRelease      bool
}

// Option configures a Protocol.
type Option func(*Protocol)

// WithLogger sets the logger sessions write to.
func WithLogger(l *slog.Logger) Option {
	return func(p *Protocol) {
		if l != nil {
			p.log = l
		}
	}
}

// WithUndeliverableNotice makes a session tell its client, with an
// undeliverable event, when a message target has no live channel.
func WithUndeliverableNotice(enabled bool) Option {
	return func(p *Protocol) { p.notifyUndeliverable = enabled }
}

// WithGuardedRelease makes a closing session leave the registry alone when
// a newer connection for the same identity has already taken it over.
// Without it a disconnect always unregisters the identity.
func WithGuardedRelease(enabled bool) Option {
	return func(p *Protocol) { p.guardedRelease = enabled }
}

// New returns a Protocol over keys and conns.
func New(keys domain.KeyBundleStore, conns domain.ConnectionRegistry, opts ...Option) *Protocol {
	p := &Protocol{
		keys:  keys,
		conns: conns,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewSession returns a session in the Connecting state for one connection.
// channel is owned by the caller; the registry only ever holds it for lookup.
func (p *Protocol) NewSession(identity domain.Identity, channel domain.Channel) *Session {
	return &Session{
		proto:    p,
		identity: identity,
		channel:  channel,
		log:      p.log.With("identity", identity.String()),
		state:    StateConnecting,
	}
}

// Connected reports how many identities currently have a live channel.
func (p *Protocol) Connected() int { return p.conns.Len() }
