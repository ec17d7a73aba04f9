package sdls

import "sync/atomic"

// Stats is a small set of monotonic event counters. It generalizes the
// original source's log_summary.num_se counter (incremented via
// Crypto_increment on each security event in crypto.c) into a proper
// observability surface instead of a single opaque count.
type Stats struct {
	applySuccess   atomic.Uint64
	applyFailure   atomic.Uint64
	processSuccess atomic.Uint64
	processFailure atomic.Uint64
}

// StatsSnapshot is a point-in-time copy of Stats, safe to marshal to JSON.
type StatsSnapshot struct {
	ApplySuccess   uint64 `json:"apply_success"`
	ApplyFailure   uint64 `json:"apply_failure"`
	ProcessSuccess uint64 `json:"process_success"`
	ProcessFailure uint64 `json:"process_failure"`
}

func (s *Stats) recordApply(ok bool) {
	if ok {
		s.applySuccess.Add(1)
	} else {
		s.applyFailure.Add(1)
	}
}

func (s *Stats) recordProcess(ok bool) {
	if ok {
		s.processSuccess.Add(1)
	} else {
		s.processFailure.Add(1)
	}
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		ApplySuccess:   s.applySuccess.Load(),
		ApplyFailure:   s.applyFailure.Load(),
		ProcessSuccess: s.processSuccess.Load(),
		ProcessFailure: s.processFailure.Load(),
	}
}
