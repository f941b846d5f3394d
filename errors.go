package mckp

import (
	"errors"
	"fmt"
)

// Solver errors. Typed errors below match these with errors.Is, and callers
// can use errors.As to recover the details.
var (
	// ErrInvalidInput indicates a malformed dataset or a negative budget.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownAttribute indicates the objective attribute is missing from an item.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrInfeasible indicates no one-item-per-category selection fits the budget.
	ErrInfeasible = errors.New("no feasible configuration")

	// ErrUnknownStrategy indicates an unsupported solving strategy was requested.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrInvalidConfiguration indicates a configuration does not match its dataset,
	// or a strategy refused to run with the given limits.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Reason categorizes an InvalidInputError.
type Reason string

// Reasons reported by Validate.
const (
	ReasonEmptyDataset      Reason = "empty dataset"
	ReasonEmptyCategory     Reason = "empty category"
	ReasonNegativeBudget    Reason = "negative budget"
	ReasonDuplicateCategory Reason = "duplicate category"
	ReasonDuplicateItem     Reason = "duplicate item"
	ReasonInvalidWeight     Reason = "invalid weight"
	ReasonInvalidValue      Reason = "invalid objective value"
)

// InvalidInputError reports why a request was rejected before solving.
type InvalidInputError struct {
	Reason   Reason
	Category string
	Item     string
}

func (e *InvalidInputError) Error() string {
	switch {
	case e.Item != "":
		return fmt.Sprintf("%s: %s (category %q, item %q)", ErrInvalidInput, e.Reason, e.Category, e.Item)
	case e.Category != "":
		return fmt.Sprintf("%s: %s (category %q)", ErrInvalidInput, e.Reason, e.Category)
	default:
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
}

// Is matches ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// UnknownAttributeError reports the first item lacking the objective attribute.
type UnknownAttributeError struct {
	Attribute string
	Category  string
	Item      string
}

func (e *UnknownAttributeError) Error() string {
	if e.Category == "" {
		return fmt.Sprintf("%s %q", ErrUnknownAttribute, e.Attribute)
	}
	return fmt.Sprintf("%s %q (category %q, item %q)", ErrUnknownAttribute, e.Attribute, e.Category, e.Item)
}

// Is matches ErrUnknownAttribute.
func (e *UnknownAttributeError) Is(target error) bool {
	return target == ErrUnknownAttribute
}

// InfeasibleError is returned when even the lightest configuration exceeds
// the budget. MinWeight is the weight of that lightest configuration, so
// callers can suggest a budget that would work.
type InfeasibleError struct {
	Budget    float64
	MinWeight float64
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("%s: budget %.2f, lightest configuration weighs %.2f", ErrInfeasible, e.Budget, e.MinWeight)
}

// Is matches ErrInfeasible.
func (e *InfeasibleError) Is(target error) bool {
	return target == ErrInfeasible
}
