// Package main runs the ciphera relay: a key bundle directory plus a live
// WebSocket relay for already-encrypted messages.
//
// HTTP API
//
//	GET /keys/{identity}
//	    Return the UserInfo last published by {identity}; 404 if none.
//
//	GET /up
//	    Liveness probe.
//
//	GET / (WebSocket)
//	    Relay connection. The Authorization header is taken as the identity.
//	    Inbound events: set_info (publish UserInfo), message (relay to a
//	    connected identity). Outbound event: message, stamped with the
//	    sender's identity and deviceId 1.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - One live connection per identity; a newer connection takes over.
//   - Messages to identities that are not connected are not queued.
//   - Configuration comes from CIPHERA_RELAY_* environment variables;
//     flags override them. The default listen address is :3000.
//
// The relay is an untrusted middleman. It never sees plaintext or private
// keys, and it does not authenticate the identity a client claims.
package main
