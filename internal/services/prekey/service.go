package prekey

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"ciphera/internal/crypto"
	"ciphera/internal/domain"
)

// ErrNoKeys is returned when no local keys exist yet.
var ErrNoKeys = errors.New("no local keys; run init first")

// maxRegistrationID bounds generated registration ids (14 bits, as Signal clients use).
const maxRegistrationID = 16380

// Service creates, rotates and loads this device's key material.
type Service struct {
	store domain.LocalKeyStore
	now   func() time.Time
}

// New returns a Service persisting through store.
func New(store domain.LocalKeyStore) *Service {
	return &Service{store: store, now: time.Now}
}

// Init makes sure local keys exist and returns them.
//
// Without existing keys it generates an identity key, a signed pre-key and a
// pre-key, plus random registration and device ids. With existing keys and
// rotate set it replaces only the signed pre-key and the pre-key; the
// identity and ids stay. Otherwise the stored keys are returned unchanged.
func (s *Service) Init(passphrase string, rotate bool) (domain.LocalKeys, error) {
	keys, ok, err := s.store.LoadLocalKeys(passphrase)
	if err != nil {
		return domain.LocalKeys{}, err
	}
	if ok && !rotate {
		return keys, nil
	}

	if !ok {
		if keys.IdentityPriv, keys.IdentityPub, err = crypto.GenerateX25519(); err != nil {
			return domain.LocalKeys{}, err
		}
		if keys.RegistrationID, err = randomID(maxRegistrationID); err != nil {
			return domain.LocalKeys{}, err
		}
		if keys.DeviceID, err = randomID(1 << 16); err != nil {
			return domain.LocalKeys{}, err
		}
	}
	if keys.SignedPreKeyPriv, keys.SignedPreKeyPub, err = crypto.GenerateX25519(); err != nil {
		return domain.LocalKeys{}, err
	}
	if keys.PreKeyPriv, keys.PreKeyPub, err = crypto.GenerateX25519(); err != nil {
		return domain.LocalKeys{}, err
	}
	keys.CreatedUTC = s.now().UTC().Unix()

	if err := s.store.SaveLocalKeys(passphrase, keys); err != nil {
		return domain.LocalKeys{}, err
	}
	return keys, nil
}

// Bundle returns the public UserInfo for the stored keys.
func (s *Service) Bundle(passphrase string) (domain.UserInfo, error) {
	keys, ok, err := s.store.LoadLocalKeys(passphrase)
	if err != nil {
		return domain.UserInfo{}, err
	}
	if !ok {
		return domain.UserInfo{}, ErrNoKeys
	}
	return keys.UserInfo(), nil
}

// Fingerprint returns the fingerprint of the stored identity key.
func (s *Service) Fingerprint(passphrase string) (domain.Fingerprint, error) {
	keys, ok, err := s.store.LoadLocalKeys(passphrase)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoKeys
	}
	return crypto.Fingerprint(keys.IdentityPub.Slice()), nil
}

// randomID returns a uniform id in [1, limit].
func randomID(limit int64) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(limit))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + 1, nil
}
