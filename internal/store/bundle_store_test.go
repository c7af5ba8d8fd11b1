package store_test

import (
	"bytes"
	"testing"

	"ciphera/internal/domain"
	"ciphera/internal/store"
)

func sampleInfo(reg int, pre ...byte) domain.UserInfo {
	return domain.UserInfo{
		RegistrationID: reg,
		DeviceID:       7,
		Bundle: domain.KeyBundle{
			IdentityKey:  domain.KeyBytes{1, 2, 3},
			SignedPreKey: domain.KeyBytes{4, 5},
			PreKey:       domain.KeyBytes(pre),
		},
	}
}

func TestBundleStore_Get_NeverPut_Absent(t *testing.T) {
	var s domain.KeyBundleStore = store.NewBundleMemoryStore()

	for _, id := range []domain.Identity{"", "alice", "bob"} {
		if _, ok := s.Get(id); ok {
			t.Fatalf("Get(%q): expected absent", id)
		}
		if _, ok := s.Consume(id); ok {
			t.Fatalf("Consume(%q): expected absent", id)
		}
	}
}

func TestBundleStore_Put_LastWriteWins(t *testing.T) {
	s := store.NewBundleMemoryStore()

	s.Put("alice", sampleInfo(1, 6))
	s.Put("alice", domain.UserInfo{RegistrationID: 2})

	got, ok := s.Get("alice")
	if !ok {
		t.Fatal("expected record for alice")
	}
	if got.RegistrationID != 2 || got.DeviceID != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.Bundle.IdentityKey != nil || got.Bundle.PreKey != nil {
		t.Fatalf("expected no merge with earlier bundle, got %+v", got.Bundle)
	}
}

func TestBundleStore_Get_ReturnsCopy(t *testing.T) {
	s := store.NewBundleMemoryStore()
	in := sampleInfo(1, 6)
	s.Put("alice", in)

	in.Bundle.IdentityKey[0] = 99
	got, _ := s.Get("alice")
	if got.Bundle.IdentityKey[0] != 1 {
		t.Fatal("store shares memory with the caller's Put value")
	}

	got.Bundle.PreKey[0] = 42
	again, _ := s.Get("alice")
	if again.Bundle.PreKey[0] != 6 {
		t.Fatal("store shares memory with a Get result")
	}
}

func TestBundleStore_Consume_ServesPreKeyOnce(t *testing.T) {
	s := store.NewBundleMemoryStore()
	s.Put("alice", sampleInfo(1, 6))

	first, ok := s.Consume("alice")
	if !ok {
		t.Fatal("expected record")
	}
	if !bytes.Equal(first.Bundle.PreKey, []byte{6}) {
		t.Fatalf("first fetch pre-key: got %v", first.Bundle.PreKey)
	}

	second, ok := s.Consume("alice")
	if !ok {
		t.Fatal("record must survive consumption")
	}
	if second.Bundle.PreKey != nil {
		t.Fatalf("second fetch should carry no pre-key, got %v", second.Bundle.PreKey)
	}
	if !bytes.Equal(second.Bundle.IdentityKey, []byte{1, 2, 3}) {
		t.Fatalf("identity key lost: %v", second.Bundle.IdentityKey)
	}

	s.Put("alice", sampleInfo(1, 8))
	third, _ := s.Get("alice")
	if !bytes.Equal(third.Bundle.PreKey, []byte{8}) {
		t.Fatalf("republished pre-key: got %v", third.Bundle.PreKey)
	}
}

func TestBundleStore_Consume_RewritesPublishedBytes(t *testing.T) {
	s := store.NewBundleMemoryStore()
	published := `{"registrationId":1,"bundle":{"identityKey":[1],"preKey":[6],"signature":[7,7]},"label":"a<b>"}`
	info, err := domain.ParseUserInfo([]byte(published))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s.Put("alice", info)

	first, _ := s.Consume("alice")
	if string(first.Raw) != published {
		t.Fatalf("first fetch:\n got %s\nwant %s", first.Raw, published)
	}

	second, _ := s.Consume("alice")
	want := `{"bundle":{"identityKey":[1],"preKey":null,"signature":[7,7]},"label":"a<b>","registrationId":1}`
	if string(second.Raw) != want {
		t.Fatalf("second fetch:\n got %s\nwant %s", second.Raw, want)
	}
	if second.Bundle.PreKey != nil {
		t.Fatalf("typed pre-key should be gone, got %v", second.Bundle.PreKey)
	}
}
