package registry

import (
	"errors"
	"fmt"
	"strings"
)

// RegistryError is a failure to register or resolve a capability. For
// lookup failures it carries ranked suggestions and the full valid-name
// list, so a caller that typoed a name can correct itself without a second
// discovery round trip.
type RegistryError struct {
	// Op is the failing operation ("register", "lookup", "resolve").
	Op string

	// Name is the capability name the operation was given.
	Name string

	// Message describes the failure.
	Message string

	// Suggestions are the closest valid names, best first, at most three.
	Suggestions []string

	// Valid is the full sorted list of names that would have been
	// accepted.
	Valid []string
}

func (e *RegistryError) Error() string {
	msg := fmt.Sprintf("%s %q: %s", e.Op, e.Name, e.Message)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(quoteAll(e.Suggestions), ", "))
	}
	if len(e.Valid) > 0 {
		msg += fmt.Sprintf("; valid names: %s", strings.Join(e.Valid, ", "))
	}
	return msg
}

// IsNotFound reports whether an error is a registry lookup failure.
func IsNotFound(err error) bool {
	var regErr *RegistryError
	return errors.As(err, &regErr) && (regErr.Op == "lookup" || regErr.Op == "resolve")
}

func quoteAll(names []string) []string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return quoted
}
