package types

import (
	"encoding/json"
	"fmt"
)

// X25519Public is a Curve25519 public key.
type X25519Public [32]byte

// Slice returns the key as a []byte.
func (p X25519Public) Slice() []byte { return p[:] }

// X25519Private is a Curve25519 private key.
type X25519Private [32]byte

// Slice returns the key as a []byte.
func (k X25519Private) Slice() []byte { return k[:] }

// KeyBytes is opaque key material. It encodes as a JSON array of numbers
// rather than base64, matching what browser clients send.
type KeyBytes []byte

// Clone returns a copy that shares no memory with k.
func (k KeyBytes) Clone() KeyBytes {
	if k == nil {
		return nil
	}
	return append(KeyBytes(nil), k...)
}

// MarshalJSON encodes k as [1,2,3].
func (k KeyBytes) MarshalJSON() ([]byte, error) {
	if k == nil {
		return []byte("null"), nil
	}
	ints := make([]int, len(k))
	for i, b := range k {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}

// UnmarshalJSON mirrors MarshalJSON. Every element must fit in a byte.
func (k *KeyBytes) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	if ints == nil {
		*k = nil
		return nil
	}
	out := make(KeyBytes, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("key byte %d out of range: %d", i, v)
		}
		out[i] = byte(v)
	}
	*k = out
	return nil
}
