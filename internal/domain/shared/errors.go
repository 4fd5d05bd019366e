package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Reason classifies why a player decision was rejected
type Reason string

const (
	ReasonInsufficientLand       Reason = "insufficient_land"
	ReasonInsufficientMoney      Reason = "insufficient_money"
	ReasonInsufficientSeeds      Reason = "insufficient_seeds"
	ReasonInsufficientWater      Reason = "insufficient_water"
	ReasonInsufficientFertilizer Reason = "insufficient_fertilizer"
	ReasonNoMatchingCrops        Reason = "no_matching_crops"
	ReasonNotReady               Reason = "not_ready"
	ReasonInvalidAmount          Reason = "invalid_amount"
	ReasonUnknownCropType        Reason = "unknown_crop_type"
	ReasonUnknownOption          Reason = "unknown_option"
	ReasonSyntheticNotPermitted  Reason = "synthetic_not_permitted"
	ReasonFarmNotEmpty           Reason = "farm_not_empty"
)

// Validation error

// ValidationError is a recoverable rejection of a decision. State is left untouched
// whenever one of these is returned.
type ValidationError struct {
	Field   string
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field string, reason Reason, message string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Message: message}
}

// Entity errors

// UnknownEntityError reports a lookup for something the catalog does not know about
type UnknownEntityError struct {
	*DomainError
	Kind string
	Name string
}

func NewUnknownEntityError(kind, name string) *UnknownEntityError {
	return &UnknownEntityError{
		DomainError: NewDomainError(fmt.Sprintf("unknown %s: %q", kind, name)),
		Kind:        kind,
		Name:        name,
	}
}

// InvariantViolationError indicates a core bug: state that must never occur
// was about to be produced
type InvariantViolationError struct {
	*DomainError
	Invariant string
	Detail    string
}

func NewInvariantViolationError(invariant, detail string) *InvariantViolationError {
	return &InvariantViolationError{
		DomainError: NewDomainError(fmt.Sprintf("invariant %s violated: %s", invariant, detail)),
		Invariant:   invariant,
		Detail:      detail,
	}
}
