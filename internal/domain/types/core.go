package types

// Identity is the string a client claims for itself when it connects.
// The relay takes it verbatim from the Authorization header and never verifies it.
type Identity string

// String returns the string form of the identity.
func (id Identity) String() string { return string(id) }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// RelayedDeviceID is the device id stamped on every relayed message.
// Only one device per identity is tracked, so the sender's real device id is unknown here.
const RelayedDeviceID = 1
