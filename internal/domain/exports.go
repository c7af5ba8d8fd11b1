package domain

import (
	interfaces "ciphera/internal/domain/interfaces"
	types "ciphera/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Identity        = types.Identity
	Fingerprint     = types.Fingerprint
	KeyBytes        = types.KeyBytes
	KeyBundle       = types.KeyBundle
	UserInfo        = types.UserInfo
	Event           = types.Event
	OutgoingMessage = types.OutgoingMessage
	RelayedMessage  = types.RelayedMessage
	Undeliverable   = types.Undeliverable
	LocalKeys       = types.LocalKeys
	X25519Public    = types.X25519Public
	X25519Private   = types.X25519Private
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	KeyBundleStore     = interfaces.KeyBundleStore
	ConnectionRegistry = interfaces.ConnectionRegistry
	LocalKeyStore      = interfaces.LocalKeyStore
	Channel            = interfaces.Channel
	KeyDirectory       = interfaces.KeyDirectory
)

// Event names and constants re-exported for callers that import domain only.
const (
	EventSetInfo       = types.EventSetInfo
	EventMessage       = types.EventMessage
	EventUndeliverable = types.EventUndeliverable
	RelayedDeviceID    = types.RelayedDeviceID
)

// NewEvent encodes data and wraps it in an Event named name.
func NewEvent(name string, data any) (Event, error) { return types.NewEvent(name, data) }

// ParseUserInfo keeps raw verbatim and decodes what it can into the typed view.
func ParseUserInfo(raw []byte) (UserInfo, error) { return types.ParseUserInfo(raw) }
