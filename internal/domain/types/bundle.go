package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// KeyBundle is the public key material a device publishes so peers can start
// a session with it while it is offline. The relay never interprets it.
type KeyBundle struct {
	IdentityKey  KeyBytes `json:"identityKey"`
	SignedPreKey KeyBytes `json:"signedPreKey"`
	PreKey       KeyBytes `json:"preKey"`
}

// Clone returns a deep copy of b.
func (b KeyBundle) Clone() KeyBundle {
	return KeyBundle{
		IdentityKey:  b.IdentityKey.Clone(),
		SignedPreKey: b.SignedPreKey.Clone(),
		PreKey:       b.PreKey.Clone(),
	}
}

// UserInfo is the registration record a connected device publishes with set_info.
//
// Raw holds the record exactly as it was published, including fields the
// typed view does not know about. When Raw is set it is what gets encoded;
// the typed fields are a best-effort reading of it.
type UserInfo struct {
	RegistrationID int             `json:"registrationId"`
	DeviceID       int             `json:"deviceId"`
	Bundle         KeyBundle       `json:"bundle"`
	Raw            json.RawMessage `json:"-"`
}

// userInfoView has UserInfo's fields without its methods.
type userInfoView UserInfo

// ParseUserInfo keeps raw verbatim and decodes what it can of it into the
// typed view. The returned UserInfo carries Raw even when err is non-nil.
func ParseUserInfo(raw json.RawMessage) (UserInfo, error) {
	var v userInfoView
	err := json.Unmarshal(raw, &v)
	if err != nil {
		v = userInfoView{}
	}
	v.Raw = append(json.RawMessage(nil), raw...)
	return UserInfo(v), err
}

// Clone returns a deep copy of u.
func (u UserInfo) Clone() UserInfo {
	out := UserInfo{
		RegistrationID: u.RegistrationID,
		DeviceID:       u.DeviceID,
		Bundle:         u.Bundle.Clone(),
	}
	if u.Raw != nil {
		out.Raw = append(json.RawMessage(nil), u.Raw...)
	}
	return out
}

// MarshalJSON returns Raw when present and the typed view otherwise.
func (u UserInfo) MarshalJSON() ([]byte, error) {
	if len(u.Raw) > 0 {
		return u.Raw, nil
	}
	return json.Marshal(userInfoView(u))
}

// UnmarshalJSON decodes the typed view and remembers data as Raw.
func (u *UserInfo) UnmarshalJSON(data []byte) error {
	info, err := ParseUserInfo(data)
	if err != nil {
		return err
	}
	*u = info
	return nil
}

// WithoutPreKey returns a copy of u whose bundle no longer carries a pre-key.
// Raw keeps its other fields but has bundle.preKey set to null; if Raw is not
// an object with an object bundle it is left as is.
func (u UserInfo) WithoutPreKey() (UserInfo, error) {
	out := u.Clone()
	out.Bundle.PreKey = nil
	if len(out.Raw) == 0 {
		return out, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(out.Raw, &top); err != nil || top == nil {
		return out, nil
	}
	var bundle map[string]json.RawMessage
	if err := json.Unmarshal(top["bundle"], &bundle); err != nil || bundle == nil {
		return out, nil
	}
	if _, ok := bundle["preKey"]; !ok {
		return out, nil
	}
	bundle["preKey"] = json.RawMessage("null")

	b, err := marshalVerbatim(bundle)
	if err != nil {
		return u, fmt.Errorf("clear pre-key: %w", err)
	}
	top["bundle"] = b
	raw, err := marshalVerbatim(top)
	if err != nil {
		return u, fmt.Errorf("clear pre-key: %w", err)
	}
	out.Raw = raw
	return out, nil
}

// marshalVerbatim encodes v without HTML escaping and without the trailing
// newline json.Encoder adds.
func marshalVerbatim(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
