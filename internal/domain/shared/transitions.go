package shared

import (
	"fmt"
	"slices"
)

// TransitionTable manages the allowed status transitions for records that only
// ever move forward (orders, contracts, process lines).
//
// A status with no outgoing edges is terminal. Self transitions are never
// allowed; callers that want idempotency must check the current status first.
type TransitionTable[S ~string] struct {
	kind  string
	edges map[S][]S
}

// NewTransitionTable creates a table for the given record kind
func NewTransitionTable[S ~string](kind string, edges map[S][]S) TransitionTable[S] {
	copied := make(map[S][]S, len(edges))
	for from, to := range edges {
		copied[from] = slices.Clone(to)
	}
	return TransitionTable[S]{kind: kind, edges: copied}
}

// CanTransition reports whether from -> to is an allowed edge
func (t TransitionTable[S]) CanTransition(from, to S) bool {
	return slices.Contains(t.edges[from], to)
}

// IsTerminal reports whether the status has no outgoing edges
func (t TransitionTable[S]) IsTerminal(status S) bool {
	return len(t.edges[status]) == 0
}

// Transition validates from -> to and returns the new status
func (t TransitionTable[S]) Transition(id string, from, to S) (S, error) {
	if !t.CanTransition(from, to) {
		return from, &InvalidTransitionError{
			Kind: t.kind,
			ID:   id,
			From: string(from),
			To:   string(to),
		}
	}
	return to, nil
}

// ValidSequence reports whether the statuses form a walk through the table.
// Used to audit recorded status histories.
func (t TransitionTable[S]) ValidSequence(statuses []S) error {
	for i := 1; i < len(statuses); i++ {
		if !t.CanTransition(statuses[i-1], statuses[i]) {
			return fmt.Errorf("%s history step %d: %s -> %s not allowed", t.kind, i, statuses[i-1], statuses[i])
		}
	}
	return nil
}
