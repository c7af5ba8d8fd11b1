package store

import (
	"encoding/json"
	"path/filepath"
	"sync"

	"ciphera/internal/domain"
)

const keysFilename = "keys.json.enc"

// KeyFileStore keeps a client's own keys encrypted under a passphrase in dir.
type KeyFileStore struct {
	dir    string
	params ScryptParams
	mu     sync.Mutex
}

// NewKeyFileStore returns a KeyFileStore rooted at dir using DefaultScryptParams.
func NewKeyFileStore(dir string) *KeyFileStore {
	return &KeyFileStore{dir: dir, params: DefaultScryptParams}
}

// NewKeyFileStoreWithParams is NewKeyFileStore with explicit scrypt costs.
func NewKeyFileStoreWithParams(dir string, params ScryptParams) *KeyFileStore {
	return &KeyFileStore{dir: dir, params: params}
}

// SaveLocalKeys encrypts keys and atomically replaces the key file.
func (s *KeyFileStore) SaveLocalKeys(passphrase string, keys domain.LocalKeys) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	ct, err := seal(passphrase, raw, s.params)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, keysFilename), ct, 0o600)
}

// LoadLocalKeys decrypts the key file. A missing file reports ok=false.
func (s *KeyFileStore) LoadLocalKeys(passphrase string) (domain.LocalKeys, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(filepath.Join(s.dir, keysFilename))
	if err != nil {
		return domain.LocalKeys{}, false, err
	}
	if b == nil {
		return domain.LocalKeys{}, false, nil
	}
	pt, err := open(passphrase, b)
	if err != nil {
		return domain.LocalKeys{}, false, err
	}
	var keys domain.LocalKeys
	if err := json.Unmarshal(pt, &keys); err != nil {
		return domain.LocalKeys{}, false, err
	}
	return keys, true, nil
}

// Compile-time assertion that KeyFileStore implements domain.LocalKeyStore.
var _ domain.LocalKeyStore = (*KeyFileStore)(nil)
