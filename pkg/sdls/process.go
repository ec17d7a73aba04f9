package sdls

import (
	"fmt"

	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/antireplay"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/counter"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/cryptoengine"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sa"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/tcframe"
)

// ParsedFrame is the structured result of ProcessSecurity: the decoded
// frame shape plus the validated, decrypted payload.
type ParsedFrame struct {
	Primary       tcframe.PrimaryHeader
	Segment       *tcframe.SegmentHeader
	SPI           uint16
	IV            []byte
	ARC           []byte
	Payload       []byte
	ExtendedReply []byte // non-nil only when the Extended-Procedure Bridge ran and returned data
}

// ProcessSecurity validates and decrypts a protected TC frame, following
// SPI lookup.
func (c *Context) ProcessSecurity(frame []byte) (parsed *ParsedFrame, err error) {
	defer func() { c.stats.recordProcess(err == nil) }()

	if frame == nil {
		return nil, newError(NullBuffer, nil)
	}
	if err := c.checkReady(); err != nil {
		return nil, err
	}

	primary, err := tcframe.ParsePrimaryHeader(frame)
	if err != nil {
		return nil, newError(Err, err)
	}

	effectiveVCID := primary.EffectiveVCID(c.cfg.VcidBitmask)
	mp, err := c.params.Lookup(primary.TFVN, primary.SCID, effectiveVCID)
	if err != nil {
		return nil, newError(ManagedParametersForGVCIDNotFound, err)
	}

	if mp.HasFECF {
		if len(frame) < 2 {
			return nil, newError(InvalidFECF, fmt.Errorf("frame shorter than FECF"))
		}
		if c.cfg.CheckFecf && !tcframe.VerifyFECF(frame) {
			return nil, newError(InvalidFECF, nil)
		}
	}

	segLen := 0
	var segment *tcframe.SegmentHeader
	var mapID uint8
	if mp.HasSegmentHeader {
		segLen = tcframe.SegmentHeaderLen
		s := tcframe.ParseSegmentHeader(frame[tcframe.PrimaryHeaderLen])
		segment = &s
		mapID = s.MapID
	}

	spiOffset := tcframe.PrimaryHeaderLen + segLen
	if len(frame) < spiOffset+2 {
		return nil, newError(Err, fmt.Errorf("frame too short for SPI field"))
	}
	spi := uint16(frame[spiOffset])<<8 | uint16(frame[spiOffset+1])

	assoc, err := c.repo.GetBySPI(spi)
	if err != nil {
		return nil, newError(Err, fmt.Errorf("no SA for SPI=%d: %w", spi, err))
	}
	_ = mapID // parsed but unused; SPI selection alone drives lookup

	offset := spiOffset + 2
	ivOffset := offset
	if len(frame) < offset+assoc.ShivfLen+assoc.ShsnfLen+assoc.ShplfLen {
		return nil, newError(Err, fmt.Errorf("frame too short for security header"))
	}
	iv := append([]byte{}, frame[ivOffset:ivOffset+assoc.ShivfLen]...)
	offset += assoc.ShivfLen

	arcOffset := offset
	arc := append([]byte{}, frame[arcOffset:arcOffset+assoc.ShsnfLen]...)
	offset += assoc.ShsnfLen

	offset += assoc.ShplfLen // pad-length field, unused by core

	fecfLen := 0
	if mp.HasFECF {
		fecfLen = 2
	}
	payloadOffset := offset
	payloadLen := primary.TotalLength() - payloadOffset - assoc.StmacfLen - fecfLen
	if payloadLen < 0 || len(frame) < payloadOffset+payloadLen+assoc.StmacfLen {
		return nil, newError(Err, fmt.Errorf("computed invalid payload/MAC bounds"))
	}

	svc := assoc.ServiceType()

	if !c.cfg.IgnoreAntiReplay && (svc == sa.Authentication || svc == sa.AuthenticatedEncryption || svc == sa.Encryption) {
		if err := c.checkAntiReplay(assoc, iv, arc); err != nil {
			return nil, err
		}
	}

	headerAADLen := payloadOffset
	macOffset := payloadOffset + payloadLen
	mac := frame[macOffset : macOffset+assoc.StmacfLen]

	var payload []byte
	switch svc {
	case sa.Plaintext:
		payload = append([]byte{}, frame[payloadOffset:payloadOffset+payloadLen]...)

	case sa.Authentication:
		key, kerr := c.authenticationKey(assoc)
		if kerr != nil {
			return nil, newError(LibgcryptError, kerr)
		}
		aad, aerr := buildAAD(frame, assoc.ABM, headerAADLen+payloadLen)
		if aerr != nil {
			return nil, aerr
		}
		if verr := cryptoengine.VerifyMAC(key, iv, aad, mac); verr != nil {
			return nil, newError(MacValidationError, verr)
		}
		payload = append([]byte{}, frame[payloadOffset:payloadOffset+payloadLen]...)

	case sa.Encryption, sa.AuthenticatedEncryption:
		key, kerr := c.encryptionKey(assoc)
		if kerr != nil {
			return nil, newError(LibgcryptError, kerr)
		}
		aad, aerr := buildAAD(frame, assoc.ABM, headerAADLen)
		if aerr != nil {
			return nil, aerr
		}
		plaintext, derr := cryptoengine.Open(key, iv, aad, frame[payloadOffset:payloadOffset+payloadLen], mac)
		if derr != nil {
			return nil, newError(MacValidationError, derr)
		}
		payload = plaintext
	}

	if !c.cfg.IgnoreAntiReplay && (svc == sa.Authentication || svc == sa.AuthenticatedEncryption || svc == sa.Encryption) {
		advanceReplayWindow(assoc, iv, arc)
		if serr := c.repo.Save(assoc); serr != nil {
			return nil, newError(Err, fmt.Errorf("save_sa: %w", serr))
		}
	}

	parsed = &ParsedFrame{
		Primary: primary,
		Segment: segment,
		SPI:     spi,
		IV:      iv,
		ARC:     arc,
		Payload: payload,
	}

	if c.cfg.ProcessSdlsPdus && c.isSdlsDesignated(payload) {
		reply, derr := c.dispatchExtendedProcedure(payload)
		if derr != nil {
			return nil, derr
		}
		parsed.ExtendedReply = reply
	}

	return parsed, nil
}

// checkAntiReplay runs the anti-replay window check against
// ARC when shsnf_len>0, otherwise against IV.
func (c *Context) checkAntiReplay(assoc *sa.SA, iv, arc []byte) error {
	var candidate, reference []byte
	if assoc.ShsnfLen > 0 {
		candidate, reference = arc, assoc.ARC
	} else {
		candidate, reference = iv, assoc.IV
	}
	if len(reference) == 0 {
		return nil
	}
	if _, err := antireplay.Check(candidate, reference, assoc.ARCW); err != nil {
		return newError(BadAntiReplayWindow, err)
	}
	return nil
}

// advanceReplayWindow moves assoc's replay reference forward to one past the
// just-accepted candidate, so a retransmission of the same frame falls
// outside the window on a subsequent ProcessSecurity call.
func advanceReplayWindow(assoc *sa.SA, iv, arc []byte) {
	if assoc.ShsnfLen > 0 {
		copy(assoc.ARC, counter.Add(arc, 1))
		return
	}
	copy(assoc.IV, counter.Add(iv, 1))
}
