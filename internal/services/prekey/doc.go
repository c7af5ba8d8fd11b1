// Package prekey manages this device's identity key, signed pre-key and
// pre-key for publishing to a relay.
//
// It generates the keys on first use, rotates the pre-keys on request and
// builds the public UserInfo that set_info carries. Private halves stay in
// the local key store.
package prekey
