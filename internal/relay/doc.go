// Package relay implements the per-connection relay protocol.
//
// A Protocol holds the two shared registries (key bundles and live
// connections). Each accepted connection gets its own Session, which moves
// through three states:
//
//	Connecting --Open--> Active --Close--> Closed
//
// Open registers the session's channel under its identity. While Active the
// session handles inbound events in order:
//
//   - set_info: the data is stored as the identity's UserInfo. No reply.
//   - message: the data names a target identity; if it has a live channel the
//     payload is re-wrapped with the sender's identity and deviceId 1 and sent
//     there, otherwise the outcome is RecipientUnavailable.
//   - anything else is ignored.
//
// Close releases the registry entry if it still belongs to this session.
//
// The identity is whatever the transport hands to NewSession; it is not
// authenticated here.
package relay
