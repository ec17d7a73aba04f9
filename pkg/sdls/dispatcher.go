package sdls

import (
	"encoding/binary"
	"fmt"
)

// sdlsVCAPID is the PUS APID reserved for SDLS Extended Procedure PDUs
// ("PUS header with designated APID 0x180").
const sdlsVCAPID = 0x180

// pusAPID extracts the 11-bit APID from a PUS packet primary header's
// first two octets: 3 bits version, 1 bit type, 1 bit secondary-header
// flag, 11 bits APID.
func pusAPID(payload []byte) (uint16, error) {
	if len(payload) < 2 {
		return 0, fmt.Errorf("sdls: payload too short for a PUS header")
	}
	return uint16(payload[0]&0x07)<<8 | uint16(payload[1]), nil
}

// sdlsPdu is a parsed tag-length-value SDLS Extended Procedure PDU: a
// 1-octet tag, a 2-octet big-endian length, and that many value octets.
type sdlsPdu struct {
	Tag   uint8
	Value []byte
}

func parseSdlsPdu(payload []byte) (sdlsPdu, error) {
	const tlvHeaderLen = 3
	if len(payload) < tlvHeaderLen {
		return sdlsPdu{}, newError(Err, fmt.Errorf("SDLS PDU shorter than TLV header (%d octets)", len(payload)))
	}
	tag := payload[0]
	length := binary.BigEndian.Uint16(payload[1:3])
	if int(length) > len(payload)-tlvHeaderLen {
		return sdlsPdu{}, newError(Err, fmt.Errorf("SDLS PDU length %d exceeds payload (%d octets available)", length, len(payload)-tlvHeaderLen))
	}
	return sdlsPdu{Tag: tag, Value: payload[tlvHeaderLen : tlvHeaderLen+int(length)]}, nil
}

// isSdlsDesignated reports whether payload should be handed to the
// Extended-Procedure Bridge: either the
// payload carries a PUS header addressed to the reserved SDLS APID, or
// there is no packet layer at all and the whole payload is the PDU.
func (c *Context) isSdlsDesignated(payload []byte) bool {
	if !c.cfg.HasPusHdr {
		return true
	}
	apid, err := pusAPID(payload)
	if err != nil {
		return false
	}
	return apid == sdlsVCAPID
}

// dispatchExtendedProcedure hands a validated PDU payload to the attached
// PduDispatcher. It returns ERR for a malformed TLV rather than forwarding
// garbage, per the original source's et_validation.c pre-dispatch checks.
func (c *Context) dispatchExtendedProcedure(payload []byte) ([]byte, error) {
	if c.dispatcher == nil {
		return nil, nil
	}
	pdu, err := parseSdlsPdu(payload)
	if err != nil {
		return nil, err
	}
	reply, err := c.dispatcher.Dispatch(pdu.Tag, pdu.Value)
	if err != nil {
		return nil, newError(Err, err)
	}
	return reply, nil
}
