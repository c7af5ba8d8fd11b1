// Package store holds the relay's in-memory registries and the client's
// on-disk key file.
//
// The package includes:
//   - BundleMemoryStore: identity -> last published UserInfo (domain.KeyBundleStore)
//   - ConnectionMemoryStore: identity -> live channel (domain.ConnectionRegistry)
//   - KeyFileStore: the client's own keys, sealed with scrypt + ChaCha20-Poly1305
//
// All methods are concurrency-safe via internal locking. The memory stores are
// volatile and lost on process exit.
package store
