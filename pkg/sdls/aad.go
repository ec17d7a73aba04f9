package sdls

import "fmt"

// buildAAD computes the Additional Authenticated Data for a frame: the
// bytewise AND of the SA's AAD bitmask with the first aadLen octets of
// frame. It fails with AbmTooShortForAAD if
// the bitmask doesn't cover aadLen octets.
func buildAAD(frame, abm []byte, aadLen int) ([]byte, error) {
	if len(abm) < aadLen {
		return nil, newError(AbmTooShortForAAD, fmt.Errorf("abm_len=%d < aad_len=%d", len(abm), aadLen))
	}
	if len(frame) < aadLen {
		return nil, newError(Err, fmt.Errorf("frame too short for AAD: have %d, need %d", len(frame), aadLen))
	}
	aad := make([]byte, aadLen)
	for i := 0; i < aadLen; i++ {
		aad[i] = frame[i] & abm[i]
	}
	return aad, nil
}
