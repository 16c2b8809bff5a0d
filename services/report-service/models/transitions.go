package models

import (
	"encoding/json"
	"fmt"
	"os"
)

// TransitionError is returned when a status change is rejected by the
// configured transition table.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition from %q to %q is not allowed", e.From, e.To)
}

// TransitionTable maps each status to the statuses it may move to. A missing
// entry means no transitions out of that status.
type TransitionTable map[Status][]Status

// Allowed reports whether the table permits moving from one status to
// another. Setting the same status again is always permitted.
func (t TransitionTable) Allowed(from, to Status) bool {
	if from == to {
		return true
	}
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Check returns a TransitionError when the move is not permitted.
func (t TransitionTable) Check(from, to Status) error {
	if !t.Allowed(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

var allStatuses = []Status{
	StatusPending, StatusUnderReview, StatusInProgress,
	StatusResolved, StatusClosed, StatusRejected,
}

// PermissiveTransitions allows any status to move to any other. This matches
// the behavior the existing clients were written against.
func PermissiveTransitions() TransitionTable {
	t := make(TransitionTable, len(allStatuses))
	for _, from := range allStatuses {
		t[from] = append([]Status(nil), allStatuses...)
	}
	return t
}

// StrictTransitions is a conservative workflow: forward movement plus
// reopening a resolved or closed report back into progress.
func StrictTransitions() TransitionTable {
	return TransitionTable{
		StatusPending:     {StatusUnderReview, StatusInProgress, StatusResolved, StatusClosed, StatusRejected},
		StatusUnderReview: {StatusInProgress, StatusResolved, StatusClosed, StatusRejected},
		StatusInProgress:  {StatusResolved, StatusClosed},
		StatusResolved:    {StatusInProgress, StatusClosed},
		StatusClosed:      {StatusInProgress},
		StatusRejected:    {},
	}
}

// LoadTransitions resolves the table from configuration: "permissive" (the
// default), "strict", or a path to a JSON file mapping status to allowed
// targets.
func LoadTransitions(setting string) (TransitionTable, error) {
	switch setting {
	case "", "permissive":
		return PermissiveTransitions(), nil
	case "strict":
		return StrictTransitions(), nil
	}

	raw, err := os.ReadFile(setting)
	if err != nil {
		return nil, fmt.Errorf("failed to read transition table: %w", err)
	}

	var t TransitionTable
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("failed to parse transition table: %w", err)
	}

	for from, targets := range t {
		if !from.Valid() {
			return nil, fmt.Errorf("transition table: unknown status %q", from)
		}
		for _, to := range targets {
			if !to.Valid() {
				return nil, fmt.Errorf("transition table: unknown status %q", to)
			}
		}
	}
	return t, nil
}
