// Package client talks to a ciphera relay.
//
// HTTP fetches another identity's published key bundle. Conn is a live
// WebSocket relay connection used to publish this device's bundle
// (set_info), hand ciphertext to a peer (message), and receive what peers
// send back.
//
// All calls accept a context for cancellation and deadlines. Payloads are
// treated as opaque; encrypting them is the caller's job.
package client
