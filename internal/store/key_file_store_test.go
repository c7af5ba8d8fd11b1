package store_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ciphera/internal/domain"
	"ciphera/internal/store"
)

var fastScrypt = store.ScryptParams{N: 1 << 10, R: 8, P: 1}

func TestKeyFileStore_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	var ks domain.LocalKeyStore = store.NewKeyFileStoreWithParams(home, fastScrypt)

	keys := domain.LocalKeys{
		RegistrationID: 11,
		DeviceID:       3,
		IdentityPub:    domain.X25519Public{1},
		IdentityPriv:   domain.X25519Private{2},
		PreKeyPub:      domain.X25519Public{5},
	}
	if err := ks.SaveLocalKeys("pass", keys); err != nil {
		t.Fatalf("save keys: %v", err)
	}

	got, ok, err := ks.LoadLocalKeys("pass")
	if err != nil {
		t.Fatalf("load keys: %v", err)
	}
	if !ok {
		t.Fatal("expected keys to be present")
	}
	if got != keys {
		t.Fatalf("mismatch after load: %+v", got)
	}

	info, err := os.Stat(filepath.Join(home, "keys.json.enc"))
	if err != nil {
		t.Fatalf("stat key file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("key file mode: got %v", info.Mode().Perm())
	}
}

func TestKeyFileStore_Load_Missing(t *testing.T) {
	ks := store.NewKeyFileStoreWithParams(t.TempDir(), fastScrypt)
	_, ok, err := ks.LoadLocalKeys("pass")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("expected no keys in empty home")
	}
}

func TestKeyFileStore_WrongPassphrase_Fails(t *testing.T) {
	ks := store.NewKeyFileStoreWithParams(t.TempDir(), fastScrypt)
	if err := ks.SaveLocalKeys("correct", domain.LocalKeys{DeviceID: 1}); err != nil {
		t.Fatalf("save keys: %v", err)
	}
	_, _, err := ks.LoadLocalKeys("wrong")
	if !errors.Is(err, store.ErrWrongPassphrase) {
		t.Fatalf("expected ErrWrongPassphrase, got %v", err)
	}
}

func TestKeyFileStore_TamperedHeader_Fails(t *testing.T) {
	home := t.TempDir()
	ks := store.NewKeyFileStoreWithParams(home, fastScrypt)
	if err := ks.SaveLocalKeys("pass", domain.LocalKeys{DeviceID: 1}); err != nil {
		t.Fatalf("save keys: %v", err)
	}

	path := filepath.Join(home, "keys.json.enc")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read key file: %v", err)
	}
	var f map[string]map[string]any
	if err := json.Unmarshal(b, &f); err != nil {
		t.Fatalf("decode key file: %v", err)
	}
	kdf, ok := f["header"]["kdf"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected key file layout: %s", b)
	}
	kdf["n"] = 2048
	b, err = json.Marshal(f)
	if err != nil {
		t.Fatalf("encode key file: %v", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	if _, _, err := ks.LoadLocalKeys("pass"); !errors.Is(err, store.ErrWrongPassphrase) {
		t.Fatalf("expected ErrWrongPassphrase, got %v", err)
	}
}

func TestKeyFileStore_RejectsUnboundedParams(t *testing.T) {
	ks := store.NewKeyFileStoreWithParams(t.TempDir(), store.ScryptParams{N: 1000, R: 8, P: 1})
	if err := ks.SaveLocalKeys("pass", domain.LocalKeys{}); err == nil {
		t.Fatal("expected non power of two N to be rejected")
	}
}
