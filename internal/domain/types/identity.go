package types

// LocalKeys is the key material a client keeps for itself. Only the public
// halves ever leave the machine, inside a UserInfo.
type LocalKeys struct {
	RegistrationID   int           `json:"registration_id"`
	DeviceID         int           `json:"device_id"`
	IdentityPub      X25519Public  `json:"identity_pub"`
	IdentityPriv     X25519Private `json:"identity_priv"`
	SignedPreKeyPub  X25519Public  `json:"signed_pre_key_pub"`
	SignedPreKeyPriv X25519Private `json:"signed_pre_key_priv"`
	PreKeyPub        X25519Public  `json:"pre_key_pub"`
	PreKeyPriv       X25519Private `json:"pre_key_priv"`
	CreatedUTC       int64         `json:"created_utc"`
}

// UserInfo returns the public record to publish for these keys.
func (k LocalKeys) UserInfo() UserInfo {
	return UserInfo{
		RegistrationID: k.RegistrationID,
		DeviceID:       k.DeviceID,
		Bundle: KeyBundle{
			IdentityKey:  KeyBytes(k.IdentityPub.Slice()),
			SignedPreKey: KeyBytes(k.SignedPreKeyPub.Slice()),
			PreKey:       KeyBytes(k.PreKeyPub.Slice()),
		},
	}
}
