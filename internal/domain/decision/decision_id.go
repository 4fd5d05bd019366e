package decision

import (
	"fmt"

	"github.com/google/uuid"
)

// DecisionID is a value object wrapping a decision's UUID
type DecisionID struct {
	value string
}

// NewDecisionID creates a DecisionID with a generated UUID
func NewDecisionID() DecisionID {
	return DecisionID{value: uuid.New().String()}
}

// NewDecisionIDFromString creates a DecisionID from an existing UUID string
func NewDecisionIDFromString(id string) (DecisionID, error) {
	if id == "" {
		return DecisionID{}, fmt.Errorf("decision_id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return DecisionID{}, fmt.Errorf("invalid decision_id format: %w", err)
	}
	return DecisionID{value: id}, nil
}

// MustNewDecisionIDFromString panics on an invalid ID.
// Use this only for values read back from the database.
func MustNewDecisionIDFromString(id string) DecisionID {
	did, err := NewDecisionIDFromString(id)
	if err != nil {
		panic(err)
	}
	return did
}

func (d DecisionID) Value() string {
	return d.value
}

func (d DecisionID) String() string {
	return d.value
}

func (d DecisionID) Equals(other DecisionID) bool {
	return d.value == other.value
}

func (d DecisionID) IsZero() bool {
	return d.value == ""
}
