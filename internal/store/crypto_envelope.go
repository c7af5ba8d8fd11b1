package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	keyFileFormat  = "ciphera-local-keys"
	keyFileVersion = 2
	kdfScrypt      = "scrypt"

	// Upper bounds keep a tampered file from demanding unbounded memory.
	maxScryptN  = 1 << 20
	maxScryptRP = 1 << 10
)

// ErrWrongPassphrase is returned when the passphrase is wrong or the key file,
// header included, was modified.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted key file")

// ScryptParams are the key-derivation costs recorded in each key file.
type ScryptParams struct {
	N, R, P int
}

// DefaultScryptParams is used unless a store is built with other parameters.
var DefaultScryptParams = ScryptParams{N: 1 << 15, R: 8, P: 1}

func (p ScryptParams) validate() error {
	if p.N < 2 || p.N&(p.N-1) != 0 || p.N > maxScryptN {
		return fmt.Errorf("scrypt N %d must be a power of two up to %d", p.N, maxScryptN)
	}
	if p.R < 1 || p.P < 1 || p.R*p.P > maxScryptRP {
		return fmt.Errorf("scrypt r=%d p=%d out of range", p.R, p.P)
	}
	return nil
}

type kdfHeader struct {
	Name string `json:"name"`
	Salt []byte `json:"salt"`
	N    int    `json:"n"`
	R    int    `json:"r"`
	P    int    `json:"p"`
}

// keyFileHeader is bound to the ciphertext as associated data, so editing the
// KDF parameters or nonce makes opening fail.
type keyFileHeader struct {
	Format  string    `json:"format"`
	Version int       `json:"version"`
	KDF     kdfHeader `json:"kdf"`
	Nonce   []byte    `json:"nonce"`
}

type keyFile struct {
	Header keyFileHeader `json:"header"`
	Cipher []byte        `json:"cipher"`
}

func deriveKey(passphrase string, kdf kdfHeader) ([]byte, error) {
	if kdf.Name != kdfScrypt {
		return nil, fmt.Errorf("unsupported key derivation %q", kdf.Name)
	}
	p := ScryptParams{N: kdf.N, R: kdf.R, P: kdf.P}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return scrypt.Key([]byte(passphrase), kdf.Salt, p.N, p.R, p.P, chacha20poly1305.KeySize)
}

// seal encrypts raw under a key derived from passphrase with XChaCha20-Poly1305.
func seal(passphrase string, raw []byte, params ScryptParams) ([]byte, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	hdr := keyFileHeader{
		Format:  keyFileFormat,
		Version: keyFileVersion,
		KDF:     kdfHeader{Name: kdfScrypt, Salt: make([]byte, 16), N: params.N, R: params.R, P: params.P},
		Nonce:   make([]byte, chacha20poly1305.NonceSizeX),
	}
	if _, err := rand.Read(hdr.KDF.Salt); err != nil {
		return nil, err
	}
	if _, err := rand.Read(hdr.Nonce); err != nil {
		return nil, err
	}

	key, err := deriveKey(passphrase, hdr.KDF)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	ad, err := json.Marshal(hdr)
	if err != nil {
		return nil, err
	}
	return json.Marshal(keyFile{Header: hdr, Cipher: aead.Seal(nil, hdr.Nonce, raw, ad)})
}

// open reverses seal.
func open(passphrase string, b []byte) ([]byte, error) {
	var f keyFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode key file: %w", err)
	}
	hdr := f.Header
	if hdr.Format != keyFileFormat {
		return nil, fmt.Errorf("not a key file (format %q)", hdr.Format)
	}
	if hdr.Version != keyFileVersion {
		return nil, fmt.Errorf("unsupported key file version %d", hdr.Version)
	}
	if len(hdr.Nonce) != chacha20poly1305.NonceSizeX {
		return nil, ErrWrongPassphrase
	}

	key, err := deriveKey(passphrase, hdr.KDF)
	if err != nil {
		return nil, fmt.Errorf("key file: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	ad, err := json.Marshal(hdr)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, hdr.Nonce, f.Cipher, ad)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}
