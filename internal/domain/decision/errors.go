package decision

import "fmt"

// ErrInvalidDecision represents validation errors for decision records
type ErrInvalidDecision struct {
	Field  string
	Reason string
}

func (e *ErrInvalidDecision) Error() string {
	return fmt.Sprintf("invalid decision: %s - %s", e.Field, e.Reason)
}

// ErrDecisionNotFound is returned when a decision lookup misses
type ErrDecisionNotFound struct {
	ID    string
	RunID string
}

func (e *ErrDecisionNotFound) Error() string {
	return fmt.Sprintf("decision not found: id=%s, run_id=%s", e.ID, e.RunID)
}
