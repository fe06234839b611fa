package declare

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories for declaration errors. Categories are stable strings so
// callers (and tests) can match on failure class without parsing messages.
const (
	CategoryNameFormat       = "invalid name format"
	CategoryMissingField     = "missing required field"
	CategoryExclusiveContent = "mutually exclusive content"
	CategoryInlineLiteral    = "inline literal"
	CategoryUnknownKind      = "unknown kind"
	CategoryMalformed        = "malformed declaration"
	CategoryStrayConstraint  = "constraint outside type"
	CategoryInvalidSchema    = "invalid schema"
)

// DeclarationError is one compile-time defect in a capability declaration.
// Declaration errors are always recoverable at the unit level: they are
// collected and reported together and never abort compilation of sibling
// declarations.
type DeclarationError struct {
	// Scope is the declaration name the error belongs to, or "" when the
	// declaration was too malformed to recover a name.
	Scope string

	// Field is the path of the offending field within the declaration
	// ("params.properties.address"), or "" for declaration-level errors.
	Field string

	// Message describes the defect in human terms.
	Message string

	// Category classifies the defect (see the Category constants).
	Category string
}

// Error implements the error interface.
func (e DeclarationError) Error() string {
	scope := e.Scope
	if scope == "" {
		scope = "<unnamed>"
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field %q: %s", scope, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", scope, e.Message)
}

// DeclarationErrors is the collection of all declaration errors found in one
// compiled unit.
type DeclarationErrors []DeclarationError

// Error implements the error interface for the whole collection.
func (de DeclarationErrors) Error() string {
	if len(de) == 0 {
		return "no declaration errors"
	}
	if len(de) == 1 {
		return de[0].Error()
	}

	var messages []string
	for _, err := range de {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("%d declaration errors: %s", len(de), strings.Join(messages, "; "))
}

// HasErrors returns true if there are any declaration errors.
func (de DeclarationErrors) HasErrors() bool {
	return len(de) > 0
}

// Add appends a new declaration error.
func (de *DeclarationErrors) Add(scope, field, category, messageFmt string, args ...interface{}) {
	*de = append(*de, DeclarationError{
		Scope:    scope,
		Field:    field,
		Category: category,
		Message:  fmt.Sprintf(messageFmt, args...),
	})
}

// ByScope groups the errors by declaration name. Errors without a
// recoverable name are grouped under the empty key.
func (de DeclarationErrors) ByScope() map[string]DeclarationErrors {
	grouped := make(map[string]DeclarationErrors)
	for _, err := range de {
		grouped[err.Scope] = append(grouped[err.Scope], err)
	}
	return grouped
}

// ForScope returns the errors belonging to one declaration.
func (de DeclarationErrors) ForScope(name string) DeclarationErrors {
	var out DeclarationErrors
	for _, err := range de {
		if err.Scope == name {
			out = append(out, err)
		}
	}
	return out
}

// IsDeclarationError checks if an error is a DeclarationError or a non-empty
// collection of them, supporting wrapped errors.
func IsDeclarationError(err error) bool {
	var single DeclarationError
	if errors.As(err, &single) {
		return true
	}
	var many DeclarationErrors
	return errors.As(err, &many) && many.HasErrors()
}
