package decision

import (
	"fmt"
	"strings"
)

// Kind is the player action a decision records
type Kind string

const (
	KindPlant          Kind = "PLANT"
	KindIrrigate       Kind = "IRRIGATE"
	KindFertilize      Kind = "FERTILIZE"
	KindHarvest        Kind = "HARVEST"
	KindSell           Kind = "SELL"
	KindChangeFarmType Kind = "CHANGE_FARM_TYPE"
)

// AllKinds returns every valid kind
func AllKinds() []Kind {
	return []Kind{
		KindPlant,
		KindIrrigate,
		KindFertilize,
		KindHarvest,
		KindSell,
		KindChangeFarmType,
	}
}

func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the kind is known
func (k Kind) IsValid() bool {
	switch k {
	case KindPlant,
		KindIrrigate,
		KindFertilize,
		KindHarvest,
		KindSell,
		KindChangeFarmType:
		return true
	default:
		return false
	}
}

// ParseKind parses a kind name, case-insensitively
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("invalid decision kind: %s", s)
	}
	return k, nil
}

// Outcome is how the processor resolved an action
type Outcome string

const (
	// OutcomeApplied means state changed
	OutcomeApplied Outcome = "APPLIED"
	// OutcomeRejected means validation failed and nothing changed
	OutcomeRejected Outcome = "REJECTED"
	// OutcomeNoEffect is a successful action with nothing to do, e.g. selling from an empty inventory
	OutcomeNoEffect Outcome = "NO_EFFECT"
)

func (o Outcome) String() string {
	return string(o)
}

// IsValid checks if the outcome is known
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeApplied, OutcomeRejected, OutcomeNoEffect:
		return true
	default:
		return false
	}
}

// ParseOutcome parses an outcome name, case-insensitively
func ParseOutcome(s string) (Outcome, error) {
	o := Outcome(strings.ToUpper(strings.TrimSpace(s)))
	if !o.IsValid() {
		return "", fmt.Errorf("invalid decision outcome: %s", s)
	}
	return o, nil
}
