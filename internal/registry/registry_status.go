package registry

import registryerrors "company-registry/internal/registry/errors"

// transitions lists every legal status change. approved and rejected are
// terminal.
var transitions = map[Status][]Status{
	StatusPending: {StatusApproved, StatusRejected},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition checks from -> to. Re-applying a terminal status to a record
// already in it is a no-op (changed == false) so approve and reject settle
// on the same end state when repeated.
func Transition(from, to Status) (changed bool, err error) {
	if !to.Valid() {
		return false, registryerrors.ErrInvalidStatus
	}
	if from == to && to.Terminal() {
		return false, nil
	}
	if !CanTransition(from, to) {
		return false, registryerrors.ErrInvalidStatusTransition
	}
	return true, nil
}
