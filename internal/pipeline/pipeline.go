// Package pipeline models the CI/CD pipeline state a task reads and publishes:
// variables, the executable search path, and warnings.
package pipeline

import (
	"strings"
)

// Context is the pipeline surface used by tasks. Implementations decide how the
// changes become visible to later steps.
type Context interface {
	// GetVariable returns the value of a pipeline variable, or "" when unset.
	GetVariable(name string) string
	// SetVariable publishes a variable for later steps.
	SetVariable(name, value string) error
	// PrependPath puts dir at the front of the executable search path.
	PrependPath(dir string) error
	// Warning reports a non-fatal condition.
	Warning(msg string)
}

// DebugVariable enables verbose task logging when set to "true".
const DebugVariable = "System.Debug"

// EnvName converts a pipeline variable name to its environment form
// (dots and spaces become underscores, upper case).
func EnvName(name string) string {
	replaced := strings.NewReplacer(".", "_", " ", "_").Replace(strings.TrimSpace(name))
	return strings.ToUpper(replaced)
}

// ParseBool parses a flag variable once at the boundary. It returns nil when
// raw is empty, true only for a case-insensitive "true", and false otherwise.
func ParseBool(raw string) *bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	v := strings.EqualFold(trimmed, "true")
	return &v
}

// BoolVariable reads name from ctx and parses it with ParseBool.
func BoolVariable(ctx Context, name string) *bool {
	return ParseBool(ctx.GetVariable(name))
}

// IsTrue reports whether b is set and true.
func IsTrue(b *bool) bool {
	return b != nil && *b
}
