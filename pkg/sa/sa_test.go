package sa

import "testing"

func TestDeriveServiceType(t *testing.T) {
	cases := []struct {
		est, ast bool
		want     ServiceType
	}{
		{false, false, Plaintext},
		{false, true, Authentication},
		{true, false, Encryption},
		{true, true, AuthenticatedEncryption},
	}
	for _, c := range cases {
		if got := DeriveServiceType(c.est, c.ast); got != c.want {
			t.Errorf("DeriveServiceType(%v, %v) = %s, want %s", c.est, c.ast, got, c.want)
		}
	}
}

func TestRequiresIV(t *testing.T) {
	s := &SA{EST: true}
	if !s.RequiresIV() {
		t.Fatalf("RequiresIV() = false for EST=1")
	}
	s = &SA{AST: true}
	if !s.RequiresIV() {
		t.Fatalf("RequiresIV() = false for AST=1 (IsAEAD is always true)")
	}
	s = &SA{}
	if s.RequiresIV() {
		t.Fatalf("RequiresIV() = true for EST=0, AST=0")
	}
}

func TestIsAEADAlgorithmAlwaysTrue(t *testing.T) {
	// Preserves the source's Crypto_Is_AEAD_Algorithm quirk: see the
	// doc comment on IsAEADAlgorithm.
	if !IsAEADAlgorithm(ECSNone) {
		t.Fatalf("IsAEADAlgorithm(ECSNone) = false, want true")
	}
	if !IsAEADAlgorithm(ECSAES256GCM) {
		t.Fatalf("IsAEADAlgorithm(ECSAES256GCM) = false, want true")
	}
}

func TestTransitionLegalPath(t *testing.T) {
	s := &SA{State: None}
	for _, to := range []State{Keyed, Operational, None} {
		if err := Transition(s, to); err != nil {
			t.Fatalf("Transition(%s) error = %v", to, err)
		}
	}
}

func TestTransitionRejectsIllegalEdge(t *testing.T) {
	s := &SA{State: None}
	if err := Transition(s, Operational); err == nil {
		t.Fatalf("Transition(NONE->OPERATIONAL) error = nil, want error")
	}
}
