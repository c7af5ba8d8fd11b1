// Package server exposes the relay over HTTP.
//
// HTTP API
//
//	GET /keys/{identity}
//	    Return the UserInfo last published by {identity}, or 404 if none.
//
//	GET /up
//	    Liveness probe; always 200 "OK".
//
//	GET / (WebSocket upgrade; path configurable)
//	    Open a relay connection. The Authorization header carries the
//	    identity verbatim; a missing one is rejected with 401.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Each WebSocket text frame is one {"event", "data"} JSON object. Frames
//     that do not parse are logged and skipped; the connection stays open.
//   - Every request gets an access log line (method, path, remote, status,
//     bytes, duration).
//
// The relay never sees plaintext or private keys; it only stores public
// bundles and forwards ciphertext between live connections.
package server
