package tcframe

import (
	"encoding/hex"
	"testing"
)

func TestComputeFECF(t *testing.T) {
	data, err := hex.DecodeString("2003002000ff000100001880d2c9000e197f0b001b0004000400003040d95e")
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	if len(data) != 31 {
		t.Fatalf("fixture length = %d, want 31", len(data))
	}
	got := ComputeFECF(data)
	if got != 0xA61A {
		t.Fatalf("ComputeFECF() = 0x%04X, want 0xA61A", got)
	}
}

func TestVerifyFECFRoundTrip(t *testing.T) {
	data, _ := hex.DecodeString("2003002000ff000100001880d2c9000e197f0b001b0004000400003040d95e")
	frame := append(append([]byte{}, data...), 0, 0)
	PutFECF(frame)
	if !VerifyFECF(frame) {
		t.Fatalf("VerifyFECF() = false after PutFECF")
	}
	frame[0] ^= 0x01
	if VerifyFECF(frame) {
		t.Fatalf("VerifyFECF() = true after corrupting frame")
	}
}

func TestVerifyFECFTooShort(t *testing.T) {
	if VerifyFECF([]byte{0x01}) {
		t.Fatalf("VerifyFECF() = true for a 1-byte frame")
	}
}
