// Package managedparams implements the per-GVCID managed parameters
// registry: frame-shape configuration looked up by
// (TFVN, SCID, VCID) and populated once at configuration time.
package managedparams

import (
	"fmt"
	"sync"
)

// Key identifies a managed-parameter entry by its GVCID triple. MapID is
// deliberately absent: managed parameters are scoped to a virtual channel,
// not a MAP channel.
type Key struct {
	TFVN uint8
	SCID uint16
	VCID uint8
}

// Entry holds the frame-shape configuration for one GVCID.
type Entry struct {
	HasFECF          bool
	HasSegmentHeader bool
	MaxFrameLength   int
}

// ErrNotFound is returned by Lookup when no entry is configured for the
// requested GVCID. Callers translate this to
// MANAGED_PARAMETERS_FOR_GVCID_NOT_FOUND.
var ErrNotFound = fmt.Errorf("managedparams: no entry for requested GVCID")

// Registry is a write-once-then-read-only table of managed parameters,
// keyed by GVCID. The source builds a singly-linked list and recurses for
// lookup; here it is a plain map for O(1) lookup and trivial teardown.
type Registry struct {
	mu      sync.RWMutex
	entries map[Key]Entry
	frozen  bool
}

// NewRegistry returns an empty registry, open for Add calls.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Key]Entry)}
}

// Add registers an entry for key. It fails if the registry has been frozen
// by Freeze, if an entry already exists for key, or if MaxFrameLength is
// not positive.
func (r *Registry) Add(key Key, entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("managedparams: registry is frozen, cannot add %+v", key)
	}
	if entry.MaxFrameLength <= 0 {
		return fmt.Errorf("managedparams: max_frame_length must be positive for %+v", key)
	}
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("managedparams: duplicate entry for %+v", key)
	}
	r.entries[key] = entry
	return nil
}

// Freeze marks the registry read-only. Pipelines only ever see a frozen
// registry once the library has completed initialization.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Lookup returns the entry registered for (tfvn, scid, vcid), or
// ErrNotFound.
func (r *Registry) Lookup(tfvn uint8, scid uint16, vcid uint8) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[Key{TFVN: tfvn, SCID: scid, VCID: vcid}]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return entry, nil
}

// Len reports the number of configured GVCID entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
