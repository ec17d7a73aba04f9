package sdls

import (
	"fmt"

	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/counter"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/cryptoengine"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/keyring"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sa"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/tcframe"
)

// ApplySecurity transforms a plaintext TC frame into a protected one,
// service type. On success it returns the newly allocated
// protected frame and a nil error; on failure it returns a nil frame and
// an *Error carrying the relevant Status.
func (c *Context) ApplySecurity(frame []byte) (out []byte, err error) {
	defer func() { c.stats.recordApply(err == nil) }()

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
	if primary.ControlCommand {
		return nil, newError(InvalidCCFlag, nil)
	}

	effectiveVCID := primary.EffectiveVCID(c.cfg.VcidBitmask)
	mp, err := c.params.Lookup(primary.TFVN, primary.SCID, effectiveVCID)
	if err != nil {
		return nil, newError(ManagedParametersForGVCIDNotFound, err)
	}

	segLen := 0
	var mapID uint8
	if mp.HasSegmentHeader {
		segLen = tcframe.SegmentHeaderLen
		if len(frame) < tcframe.PrimaryHeaderLen+segLen {
			return nil, newError(Err, fmt.Errorf("frame too short for configured segment header"))
		}
		mapID = tcframe.ParseSegmentHeader(frame[tcframe.PrimaryHeaderLen]).MapID
	}

	gvcid := sa.GVCID{TFVN: primary.TFVN, SCID: primary.SCID, VCID: effectiveVCID, MapID: mapID}
	// GetOperational's contract is to return only an
	// OPERATIONAL SA; the state is not re-checked here, and
	// Config.IgnoreSaState is not consulted.
	assoc, err := c.repo.GetOperational(gvcid)
	if err != nil {
		return nil, newError(Err, fmt.Errorf("no operational SA for %+v: %w", gvcid, err))
	}

	fecfIn := 0
	if mp.HasFECF {
		fecfIn = 2
	}
	payloadLen := primary.TotalLength() - tcframe.PrimaryHeaderLen - segLen - fecfIn
	if payloadLen < 0 {
		return nil, newError(Err, fmt.Errorf("computed negative payload length"))
	}

	fecfOut := 0
	if mp.HasFECF {
		fecfOut = 2
	}
	outLen := tcframe.PrimaryHeaderLen + segLen + 2 + assoc.ShivfLen + assoc.ShsnfLen + assoc.ShplfLen + payloadLen + assoc.StmacfLen + fecfOut
	out = make([]byte, outLen)

	if err := primary.Marshal(out); err != nil {
		return nil, newError(Err, err)
	}
	if err := tcframe.SetFrameLengthField(out, outLen); err != nil {
		return nil, newError(Err, err)
	}
	offset := tcframe.PrimaryHeaderLen
	if segLen > 0 {
		out[offset] = frame[tcframe.PrimaryHeaderLen]
		offset += segLen
	}

	out[offset] = byte(assoc.SPI >> 8)
	out[offset+1] = byte(assoc.SPI)
	offset += 2

	ivOffset := offset
	copy(out[ivOffset:ivOffset+assoc.ShivfLen], assoc.IV)
	offset += assoc.ShivfLen

	arcOffset := offset
	if assoc.ShsnfLen > 0 {
		counter.Increment(assoc.ARC)
		copy(out[arcOffset:arcOffset+assoc.ShsnfLen], assoc.ARC)
	}
	offset += assoc.ShsnfLen

	// pad-length field: left zeroed, matching "write shplf_len zero
	// padding bytes".
	offset += assoc.ShplfLen

	payloadOffset := offset
	inPayloadOffset := tcframe.PrimaryHeaderLen + segLen
	copy(out[payloadOffset:payloadOffset+payloadLen], frame[inPayloadOffset:inPayloadOffset+payloadLen])

	headerAADLen := tcframe.PrimaryHeaderLen + segLen + 2 + assoc.ShivfLen + assoc.ShsnfLen + assoc.ShplfLen
	macOffset := payloadOffset + payloadLen

	switch svc := assoc.ServiceType(); svc {
	case sa.Plaintext:
		// no crypto

	case sa.Encryption, sa.AuthenticatedEncryption:
		key, kerr := c.encryptionKey(assoc)
		if kerr != nil {
			return nil, newError(LibgcryptError, kerr)
		}
		aad, aerr := buildAAD(out, assoc.ABM, headerAADLen)
		if aerr != nil {
			return nil, aerr
		}
		ciphertext, tag, serr := cryptoengine.Seal(key, assoc.IV, aad, out[payloadOffset:payloadOffset+payloadLen])
		if serr != nil {
			return nil, newError(LibgcryptError, serr)
		}
		copy(out[payloadOffset:payloadOffset+payloadLen], ciphertext)
		copy(out[macOffset:macOffset+assoc.StmacfLen], tag)

	case sa.Authentication:
		key, kerr := c.authenticationKey(assoc)
		if kerr != nil {
			return nil, newError(LibgcryptError, kerr)
		}
		aad, aerr := buildAAD(out, assoc.ABM, headerAADLen+payloadLen)
		if aerr != nil {
			return nil, aerr
		}
		tag, merr := cryptoengine.MACOnly(key, assoc.IV, aad)
		if merr != nil {
			return nil, newError(LibgcryptError, merr)
		}
		copy(out[macOffset:macOffset+assoc.StmacfLen], tag)
	}

	counter.Increment(assoc.IV)

	if mp.HasFECF {
		if c.cfg.CreateFecf {
			tcframe.PutFECF(out)
		} else {
			out[outLen-2] = 0
			out[outLen-1] = 0
		}
	}

	if serr := c.repo.Save(assoc); serr != nil {
		return nil, newError(Err, fmt.Errorf("save_sa: %w", serr))
	}

	return out, nil
}

func (c *Context) encryptionKey(assoc *sa.SA) ([]byte, error) {
	return keyring.Active(c.keys, assoc.EKID)
}

func (c *Context) authenticationKey(assoc *sa.SA) ([]byte, error) {
	return keyring.Active(c.keys, assoc.AKID)
}
