package sdls

import (
	"bytes"

	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/keyring"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/managedparams"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sa"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/tcframe"
)

const (
	testTFVN uint8  = 0
	testSCID uint16 = 3
	testVCID uint8  = 0
	testSPI  uint16 = 1
)

var testPayload = []byte{0xCA, 0xFE, 0xBA, 0xBE}

func fullABM(n int) []byte {
	abm := make([]byte, n)
	for i := range abm {
		abm[i] = 0xFF
	}
	return abm
}

// newAEADAssoc returns an OPERATIONAL SA configured for
// AUTHENTICATED_ENCRYPTION over AES-256-GCM with a 12-octet IV and a
// 2-octet ARC, the shape a worked NIST AES-GCM vector exercises.
func newAEADAssoc() *sa.SA {
	return &sa.SA{
		SPI:       testSPI,
		GVCID:     sa.GVCID{TFVN: testTFVN, SCID: testSCID, VCID: testVCID},
		State:     sa.Operational,
		EST:       true,
		AST:       true,
		ECS:       sa.ECSAES256GCM,
		ACS:       sa.ACSAES256GMAC,
		ShivfLen:  12,
		ShsnfLen:  2,
		ShplfLen:  0,
		StmacfLen: 16,
		IV:        make([]byte, 12),
		ARC:       make([]byte, 2),
		ARCW:      5,
		ABM:       fullABM(5 + 2 + 12 + 2),
		EKID:      "ek1",
		AKID:      "ak1",
	}
}

// newAuthOnlyAssoc returns an OPERATIONAL SA configured for AUTHENTICATION
// only (EST=0, AST=1): a 12-octet IV field, a single-octet ARC.
func newAuthOnlyAssoc() *sa.SA {
	return &sa.SA{
		SPI:       testSPI,
		GVCID:     sa.GVCID{TFVN: testTFVN, SCID: testSCID, VCID: testVCID},
		State:     sa.Operational,
		EST:       false,
		AST:       true,
		ECS:       sa.ECSNone,
		ACS:       sa.ACSAES256GMAC,
		ShivfLen:  12,
		ShsnfLen:  1,
		ShplfLen:  0,
		StmacfLen: 16,
		IV:        make([]byte, 12),
		ARC:       make([]byte, 1),
		ARCW:      5,
		ABM:       fullABM(5 + 2 + 12 + 1 + len(testPayload)),
		AKID:      "ak1",
	}
}

// newPlaintextAssoc returns an OPERATIONAL SA providing no security service.
func newPlaintextAssoc() *sa.SA {
	return &sa.SA{
		SPI:   testSPI,
		GVCID: sa.GVCID{TFVN: testTFVN, SCID: testSCID, VCID: testVCID},
		State: sa.Operational,
	}
}

func testKeyring() keyring.Map {
	m := keyring.Map{}
	m.Put(keyring.Key{ID: "ek1", Bytes: bytes.Repeat([]byte{0x11}, 32), State: keyring.Active})
	m.Put(keyring.Key{ID: "ak1", Bytes: bytes.Repeat([]byte{0x22}, 32), State: keyring.Active})
	return m
}

func mpKey() managedparams.Key {
	return managedparams.Key{TFVN: testTFVN, SCID: testSCID, VCID: testVCID}
}

func mpEntry(hasFECF bool) managedparams.Entry {
	return managedparams.Entry{HasFECF: hasFECF, MaxFrameLength: 256}
}

func newFixtureContext(hasFECF bool, assocs ...*sa.SA) (*Context, *memRepo, error) {
	cfg := Config{
		CreateFecf: true,
		CheckFecf:  true,
		ManagedParams: []ManagedParamEntry{
			{Key: mpKey(), Entry: mpEntry(hasFECF)},
		},
	}
	repo := newMemRepo(assocs...)
	ctx, err := NewTestContext(cfg, repo, testKeyring())
	return ctx, repo, err
}

// buildPlaintextFrame assembles an unprotected TC frame: primary header,
// then payload, then (if hasFECF) two placeholder FECF octets accounted for
// in the frame length but left at zero.
func buildPlaintextFrame(payload []byte, hasFECF bool) []byte {
	fecfLen := 0
	if hasFECF {
		fecfLen = 2
	}
	total := tcframe.PrimaryHeaderLen + len(payload) + fecfLen
	frame := make([]byte, total)
	h := tcframe.PrimaryHeader{
		TFVN:        testTFVN,
		SCID:        testSCID,
		VCID:        testVCID,
		FrameLength: uint16(total - 1),
	}
	_ = h.Marshal(frame)
	copy(frame[tcframe.PrimaryHeaderLen:], payload)
	return frame
}
