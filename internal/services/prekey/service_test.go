package prekey_test

import (
	"errors"
	"testing"

	"ciphera/internal/services/prekey"
	"ciphera/internal/store"
)

func newService(t *testing.T) *prekey.Service {
	t.Helper()
	ks := store.NewKeyFileStoreWithParams(t.TempDir(), store.ScryptParams{N: 1 << 10, R: 8, P: 1})
	return prekey.New(ks)
}

func TestInit_CreatesKeys(t *testing.T) {
	svc := newService(t)

	keys, err := svc.Init("pass", false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if keys.RegistrationID < 1 || keys.RegistrationID > 16380 {
		t.Fatalf("registration id out of range: %d", keys.RegistrationID)
	}
	if keys.DeviceID < 1 {
		t.Fatalf("device id: %d", keys.DeviceID)
	}
	if keys.IdentityPub == keys.SignedPreKeyPub || keys.SignedPreKeyPub == keys.PreKeyPub {
		t.Fatal("keys should be distinct")
	}

	again, err := svc.Init("pass", false)
	if err != nil {
		t.Fatalf("second init: %v", err)
	}
	if again != keys {
		t.Fatal("init without rotate must keep existing keys")
	}
}

func TestInit_RotateKeepsIdentity(t *testing.T) {
	svc := newService(t)
	before, err := svc.Init("pass", false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	after, err := svc.Init("pass", true)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if after.IdentityPub != before.IdentityPub || after.RegistrationID != before.RegistrationID || after.DeviceID != before.DeviceID {
		t.Fatal("rotate changed the identity")
	}
	if after.SignedPreKeyPub == before.SignedPreKeyPub || after.PreKeyPub == before.PreKeyPub {
		t.Fatal("rotate did not replace pre-keys")
	}
}

func TestBundle(t *testing.T) {
	svc := newService(t)
	if _, err := svc.Bundle("pass"); !errors.Is(err, prekey.ErrNoKeys) {
		t.Fatalf("expected ErrNoKeys, got %v", err)
	}

	keys, err := svc.Init("pass", false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	info, err := svc.Bundle("pass")
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if info.RegistrationID != keys.RegistrationID || info.DeviceID != keys.DeviceID {
		t.Fatalf("ids: %+v", info)
	}
	if string(info.Bundle.IdentityKey) != string(keys.IdentityPub[:]) {
		t.Fatal("identity key mismatch")
	}
	if len(info.Bundle.SignedPreKey) != 32 || len(info.Bundle.PreKey) != 32 {
		t.Fatal("pre-keys should be 32 bytes")
	}

	fp, err := svc.Fingerprint("pass")
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	if len(fp) != 20 {
		t.Fatalf("fingerprint length: %d", len(fp))
	}
}
