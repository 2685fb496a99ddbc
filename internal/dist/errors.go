package dist

import (
	"fmt"
	"strings"

	"github.com/conn-castle/nuget-tool-installer/internal/messages"
)

// UnreachableError reports that the manifest could not be retrieved.
type UnreachableError struct {
	URL string
	// Code is the HTTP status text when the server answered, empty for transport failures.
	Code string
	Err  error
}

func (e *UnreachableError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf(messages.DistUnreachableCodeFmt, e.URL, e.Code, e.Err)
	}
	return fmt.Sprintf(messages.DistUnreachableFmt, e.URL, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// NoMatchError reports that no released version satisfies the requested specifier.
type NoMatchError struct {
	Tool      string
	Spec      string
	Available []string
}

func (e *NoMatchError) Error() string {
	available := messages.DistNoAvailableVersions
	if len(e.Available) > 0 {
		available = strings.Join(e.Available, messages.DistAvailableVersionsSep)
	}
	return fmt.Sprintf(messages.DistNoMatchFmt, e.Tool, e.Spec, available)
}
