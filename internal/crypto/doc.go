// Package crypto exposes the few primitives the relay and its client need.
//
// Contents
//
//   - X25519 key generation with RFC 7748 clamping (GenerateX25519,
//     PublicFromPrivate), used by the client to create publishable keys
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// The relay itself never validates key material. It only fingerprints the
// identity key it was handed so log lines can be correlated with clients.
package crypto
