package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRecipe           = errors.New("invalid recipe line")
	ErrNoPriceRow              = errors.New("no price row")
	ErrNoUsablePrice           = errors.New("no usable price")
	ErrIncompleteDecomposition = errors.New("incomplete pack decomposition")
	ErrNoAveragePrice          = errors.New("no average price")

	ErrUnknownFilter  = errors.New("unknown filter")
	ErrUnknownField   = errors.New("unknown field")
	ErrReadOnlyField  = errors.New("read-only field")
	ErrRowNotInSubset = errors.New("row not in subset")
	ErrNotLoaded      = errors.New("catalog not loaded")
	ErrMissingColumn  = errors.New("missing required column")
)

// RecipeError describes why a recipe line was rejected.
// It matches ErrInvalidRecipe with errors.Is.
type RecipeError struct {
	Line   string
	Reason string
}

func (e *RecipeError) Error() string {
	return fmt.Sprintf("invalid recipe line %q: %s", e.Line, e.Reason)
}

func (e *RecipeError) Is(target error) bool {
	return target == ErrInvalidRecipe
}
