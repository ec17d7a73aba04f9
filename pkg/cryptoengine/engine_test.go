package cryptoengine

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return b
}

func TestSealOpenRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, KeyLen)
	iv := bytes.Repeat([]byte{0x01}, 12)
	aad := []byte("frame-header-and-security-header")
	plaintext := []byte("telecommand payload bytes")

	ciphertext, tag, err := Seal(key, iv, aad, plaintext)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if len(ciphertext) != len(plaintext) {
		t.Fatalf("len(ciphertext) = %d, want %d", len(ciphertext), len(plaintext))
	}
	if len(tag) != TagLen {
		t.Fatalf("len(tag) = %d, want %d", len(tag), TagLen)
	}

	got, err := Open(key, iv, aad, ciphertext, tag)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("Open() = %q, want %q", got, plaintext)
	}
}

func TestOpenDetectsBitFlip(t *testing.T) {
	key := bytes.Repeat([]byte{0x7A}, KeyLen)
	iv := bytes.Repeat([]byte{0x02}, 12)
	aad := []byte("aad")
	ciphertext, tag, err := Seal(key, iv, aad, []byte("payload"))
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	ciphertext[0] ^= 0x01
	if _, err := Open(key, iv, aad, ciphertext, tag); !errors.Is(err, ErrMacMismatch) {
		t.Fatalf("Open() error = %v, want ErrMacMismatch", err)
	}
}

func TestOpenDetectsWrongAAD(t *testing.T) {
	key := bytes.Repeat([]byte{0x7A}, KeyLen)
	iv := bytes.Repeat([]byte{0x02}, 12)
	ciphertext, tag, err := Seal(key, iv, []byte("aad-one"), []byte("payload"))
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if _, err := Open(key, iv, []byte("aad-two"), ciphertext, tag); !errors.Is(err, ErrMacMismatch) {
		t.Fatalf("Open() error = %v, want ErrMacMismatch", err)
	}
}

func TestMACOnlyRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, KeyLen)
	iv := bytes.Repeat([]byte{0x03}, 12)
	aad := []byte("whole frame up to and including payload")

	tag, err := MACOnly(key, iv, aad)
	if err != nil {
		t.Fatalf("MACOnly() error = %v", err)
	}
	if len(tag) != TagLen {
		t.Fatalf("len(tag) = %d, want %d", len(tag), TagLen)
	}
	if err := VerifyMAC(key, iv, aad, tag); err != nil {
		t.Fatalf("VerifyMAC() error = %v", err)
	}
	tag[0] ^= 0xFF
	if err := VerifyMAC(key, iv, aad, tag); !errors.Is(err, ErrMacMismatch) {
		t.Fatalf("VerifyMAC() error = %v, want ErrMacMismatch", err)
	}
}

func TestSealRejectsShortKey(t *testing.T) {
	key := mustHex(t, "00112233")
	iv := bytes.Repeat([]byte{0x00}, 12)
	if _, _, err := Seal(key, iv, nil, []byte("x")); err == nil {
		t.Fatalf("Seal() error = nil, want error for short key")
	}
}

func TestSealRejectsEmptyIV(t *testing.T) {
	key := bytes.Repeat([]byte{0x00}, KeyLen)
	if _, _, err := Seal(key, nil, nil, []byte("x")); err == nil {
		t.Fatalf("Seal() error = nil, want error for empty IV")
	}
}

// TestSealNISTVector pins the engine's AES-256-GCM output against a known
// vector: key/IV/AAD/plaintext split from a TC frame whose first 5 octets
// are the primary header (used as the AAD), the next 16 octets the
// plaintext payload, and the last 2 the FECF (not part of the vector).
// GCM ciphertext does not depend on the AAD, only the tag does.
func TestSealNISTVector(t *testing.T) {
	key := mustHex(t, "ef9f9284cf599eac3b119905a7d18851e7e374cf63aea04358586b0f757670f8")
	iv := mustHex(t, "b6ac8e4963f49207ffd6374c")
	aad := mustHex(t, "2003001100")
	plaintext := mustHex(t, "722ee47da4b77424733546c2d400c4e5")
	wantCiphertext := mustHex(t, "1224dfefb72a20d49e09256908874979")

	ciphertext, tag, err := Seal(key, iv, aad, plaintext)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if !bytes.Equal(ciphertext, wantCiphertext) {
		t.Fatalf("Seal() ciphertext = %x, want %x", ciphertext, wantCiphertext)
	}

	got, err := Open(key, iv, aad, ciphertext, tag)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("Open() = %x, want %x", got, plaintext)
	}
}

func TestVariableIVLength(t *testing.T) {
	key := bytes.Repeat([]byte{0x55}, KeyLen)
	for _, ivLen := range []int{4, 8, 12, 16} {
		iv := bytes.Repeat([]byte{0x09}, ivLen)
		ciphertext, tag, err := Seal(key, iv, []byte("aad"), []byte("data"))
		if err != nil {
			t.Fatalf("Seal() ivLen=%d error = %v", ivLen, err)
		}
		if _, err := Open(key, iv, []byte("aad"), ciphertext, tag); err != nil {
			t.Fatalf("Open() ivLen=%d error = %v", ivLen, err)
		}
	}
}
