package interfaces

import domaintypes "ciphera/internal/domain/types"

// KeyBundleStore holds the latest UserInfo published by each identity.
type KeyBundleStore interface {
	Put(identity domaintypes.Identity, info domaintypes.UserInfo)
	Get(identity domaintypes.Identity) (domaintypes.UserInfo, bool)
	// Consume returns the record and clears its pre-key so it is served once.
	Consume(identity domaintypes.Identity) (domaintypes.UserInfo, bool)
}

// ConnectionRegistry maps each identity to its single live channel.
type ConnectionRegistry interface {
	Register(identity domaintypes.Identity, channel Channel)
	// Unregister is what a closing session calls by default.
	Unregister(identity domaintypes.Identity)
	// Release removes the entry only while it still points at channel.
	Release(identity domaintypes.Identity, channel Channel) bool
	Lookup(identity domaintypes.Identity) (Channel, bool)
	Len() int
}

// LocalKeyStore persists a client's own key material.
type LocalKeyStore interface {
	SaveLocalKeys(passphrase string, keys domaintypes.LocalKeys) error
	LoadLocalKeys(passphrase string) (domaintypes.LocalKeys, bool, error)
}
