package core

import (
	"regexp"
	"strconv"
	"strings"
)

// recipePattern matches "x<qty> - <name>". The dash is mandatory.
var recipePattern = regexp.MustCompile(`^x(\d+)\s*-\s*(.+)$`)

// RecipeLine is one parsed recipe slot.
type RecipeLine struct {
	Quantity int
	Name     string // Display name, trimmed
	Key      string // Normalize(Name)
}

// ParseRecipe parses a recipe slot such as "x3 - Tejido coralino".
// Rejected lines return a *RecipeError matching ErrInvalidRecipe.
func ParseRecipe(line string) (RecipeLine, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return RecipeLine{}, &RecipeError{Line: line, Reason: "empty line"}
	}

	m := recipePattern.FindStringSubmatch(trimmed)
	if m == nil {
		return RecipeLine{}, &RecipeError{Line: line, Reason: `expected "x<quantity> - <name>"`}
	}

	qty, err := strconv.Atoi(m[1])
	if err != nil {
		return RecipeLine{}, &RecipeError{Line: line, Reason: "quantity out of range"}
	}
	if qty <= 0 {
		return RecipeLine{}, &RecipeError{Line: line, Reason: "quantity must be positive"}
	}

	name := strings.TrimSpace(m[2])
	if name == "" {
		return RecipeLine{}, &RecipeError{Line: line, Reason: "empty material name"}
	}

	return RecipeLine{Quantity: qty, Name: name, Key: Normalize(name)}, nil
}
