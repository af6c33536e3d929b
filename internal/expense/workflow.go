package expense

import (
	"fmt"
	"slices"
	"strings"
)

// transitions lists the statuses reachable from each status.
// Validated is terminal. A rejected sheet may be resubmitted for validation.
var transitions = map[Status][]Status{
	StatusPendingValidation: {StatusValidated, StatusRejected},
	StatusRejected:          {StatusPendingValidation},
}

// CanTransition reports whether a sheet may move from one status to another.
// Staying in the same status is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}

	return slices.Contains(transitions[from], to)
}

// requiresValidator reports whether moving into to is a reviewer decision.
func requiresValidator(to Status) bool {
	return to == StatusValidated || to == StatusRejected
}

// Transition moves s to status to, checking the workflow and the rejection comments rule.
func Transition(s *Sheet, to Status, comments string) error {
	if !to.Valid() {
		ve := &ValidationError{}
		ve.Add("status", "must be one of: pending_validation, validated, rejected")

		return ve
	}

	if !CanTransition(s.Status, to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, s.Status, to)
	}

	if to == StatusRejected && strings.TrimSpace(comments) == "" {
		ve := &ValidationError{}
		ve.Add("comments", "comments are required when rejecting a sheet")

		return ve
	}

	s.Status = to
	s.Comments = comments

	return nil
}
