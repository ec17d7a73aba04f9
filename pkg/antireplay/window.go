// Package antireplay implements the anti-replay window check:
// a candidate IV or ARC is accepted iff it equals reference+k for some
// k in [0, W) under big-endian arbitrary-precision arithmetic with
// wrap-around.
package antireplay

import (
	"fmt"

	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/counter"
)

// ErrBadWindow is returned by Check when candidate does not fall within
// the configured window of reference. Callers translate this to
// BAD_ANTIREPLAY_WINDOW.
var ErrBadWindow = fmt.Errorf("antireplay: candidate outside replay window")

// Check validates candidate against reference within a window of width w.
// It returns the smallest k in [0, w) such that reference+k == candidate,
// or ErrBadWindow if no such k exists. candidate and reference must have
// equal length.
func Check(candidate, reference []byte, w int) (k int, err error) {
	if len(candidate) != len(reference) {
		return 0, fmt.Errorf("antireplay: candidate length %d != reference length %d", len(candidate), len(reference))
	}
	if w <= 0 {
		return 0, fmt.Errorf("antireplay: window width must be positive, got %d", w)
	}
	for k := 0; k < w; k++ {
		if counter.Equal(counter.Add(reference, k), candidate) {
			return k, nil
		}
	}
	return 0, ErrBadWindow
}
