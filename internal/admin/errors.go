package admin

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when the named record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrEditDishNotImplemented is returned by EditDish; dishes are replaced by delete and add.
	ErrEditDishNotImplemented = errors.New("editing dishes is not implemented")
)

// ValidationError reports input that failed validation. No state was changed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// DependencyError is returned when an ingredient is still referenced by recipes.
type DependencyError struct {
	Ingredient string
	Dishes     []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("ingredient %q is used by: %s", e.Ingredient, strings.Join(e.Dishes, ", "))
}
