// Package commands defines the ciphera client CLI.
//
// Commands
//
//   - init         Create local keys (or rotate pre-keys with --rotate)
//   - fingerprint  Print the identity fingerprint
//   - publish      Publish your key bundle to a relay (set_info)
//   - fetch        Print a peer's published key bundle
//   - send         Relay a message to a connected peer
//   - listen       Stay connected and print relayed messages
//   - discover     Browse mDNS for relays on the local network
//
// # Implementation
//
// The root command builds the local key store, pre-key service and relay HTTP
// client before any subcommand runs. Commands that talk over the relay
// channel dial a fresh WebSocket as --username.
package commands
