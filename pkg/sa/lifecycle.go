package sa

import "fmt"

// legalTransitions enumerates the SA lifecycle edges: NONE -> KEYED ->
// OPERATIONAL, with expiry back to NONE from any state.
// The core itself never calls Transition except via the monotonic IV/ARC
// increment on a successful ApplySecurity, which does not change State;
// Transition exists for the out-of-band SA management tooling (the CLI's
// "sa set-state" subcommand) that does perform these edges.
var legalTransitions = map[State]map[State]bool{
	None:        {Keyed: true},
	Keyed:       {Operational: true, Unkeyed: true, None: true},
	Unkeyed:     {Keyed: true, None: true},
	Operational: {None: true, Unkeyed: true},
}

// Transition moves s from its current state to to, if that edge is legal.
func Transition(s *SA, to State) error {
	allowed, ok := legalTransitions[s.State]
	if !ok || !allowed[to] {
		return fmt.Errorf("sa: illegal state transition %s -> %s for SPI %d", s.State, to, s.SPI)
	}
	s.State = to
	return nil
}
