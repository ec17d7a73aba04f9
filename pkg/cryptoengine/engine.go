// Package cryptoengine implements the Cryptographic Engine:
// AES-256-GCM AEAD encrypt/decrypt/authenticate over caller-supplied key,
// IV, and AAD. Key, IV, and tag sizes are taken from the SA, not hardcoded
// here — callers pass whatever shivf_len/key-length the SA specifies and
// the engine adapts, failing if AES-256 specifically can't be built from
// them.
//
// This is the one place the module reaches for the standard library
// instead of a third-party dependency: every AES-GCM-touching file in the
// reference pack (tink-go's aead/aesgcm, libdlms-go's gcm package, the
// BCB-AES-GCM block-cipher code in dtn7-dtn7-gold) is itself built directly
// on crypto/aes and crypto/cipher. There is no idiomatic third-party
// replacement for stdlib AES-GCM in this ecosystem.
package cryptoengine

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// TagLen is the GCM authentication tag length, in octets.
const TagLen = 16

// KeyLen is the AES-256 key length, in octets.
const KeyLen = 32

// ErrMacMismatch is returned by Open and VerifyMAC when the authentication
// tag does not validate.
var ErrMacMismatch = fmt.Errorf("cryptoengine: MAC validation failed")

func newGCM(key, iv []byte) (cipher.AEAD, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("cryptoengine: key must be %d octets for AES-256, got %d", KeyLen, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptoengine: %w", err)
	}
	if len(iv) == 0 {
		return nil, fmt.Errorf("cryptoengine: IV must be non-empty for AES-GCM")
	}
	aead, err := cipher.NewGCMWithNonceSize(block, len(iv))
	if err != nil {
		return nil, fmt.Errorf("cryptoengine: %w", err)
	}
	return aead, nil
}

// Seal encrypts plaintext with AES-256-GCM under key, iv, and aad,
// returning ciphertext (same length as plaintext) and the detached
// authentication tag (TagLen octets).
func Seal(key, iv, aad, plaintext []byte) (ciphertext, tag []byte, err error) {
	aead, err := newGCM(key, iv)
	if err != nil {
		return nil, nil, err
	}
	sealed := aead.Seal(nil, iv, plaintext, aad)
	ciphertext = sealed[:len(sealed)-aead.Overhead()]
	tag = sealed[len(sealed)-aead.Overhead():]
	return ciphertext, tag, nil
}

// Open decrypts ciphertext with AES-256-GCM under key, iv, and aad,
// verifying it against the detached tag. It returns ErrMacMismatch if the
// tag does not validate.
func Open(key, iv, aad, ciphertext, tag []byte) ([]byte, error) {
	aead, err := newGCM(key, iv)
	if err != nil {
		return nil, err
	}
	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)
	plaintext, err := aead.Open(nil, iv, sealed, aad)
	if err != nil {
		return nil, ErrMacMismatch
	}
	return plaintext, nil
}

// MACOnly computes an authentication tag over aad with zero-length
// plaintext, used when AST=1, EST=0 and the configured algorithm is not
// AEAD: the engine still runs GCM, just with nothing to
// encrypt, and returns the resulting tag.
func MACOnly(key, iv, aad []byte) ([]byte, error) {
	_, tag, err := Seal(key, iv, aad, nil)
	return tag, err
}

// VerifyMAC checks tag against aad with zero-length ciphertext. It returns
// ErrMacMismatch on failure.
func VerifyMAC(key, iv, aad, tag []byte) error {
	_, err := Open(key, iv, aad, nil, tag)
	return err
}
