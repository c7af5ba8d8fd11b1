// Package app wires the relay process together.
//
// Config is read from CIPHERA_RELAY_* environment variables (flags in
// cmd/relay may override them). NewWire builds the in-memory registries, the
// relay protocol and the HTTP server from it; App runs that server with
// graceful shutdown and optional mDNS advertisement.
package app
