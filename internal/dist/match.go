package dist

import (
	"github.com/conn-castle/nuget-tool-installer/internal/version"
)

// Released returns the entries whose stage is eligible for automatic resolution,
// preserving manifest order.
func (m Manifest) Released() Manifest {
	out := make(Manifest, 0, len(m))
	for _, entry := range m {
		if entry.Stage.Eligible() {
			out = append(out, entry)
		}
	}
	return out
}

// Versions returns the version strings in manifest order.
func (m Manifest) Versions() []string {
	out := make([]string, 0, len(m))
	for _, entry := range m {
		out = append(out, entry.Version)
	}
	return out
}

// Find returns the first entry with exactly the given version string.
func (m Manifest) Find(v string) (ToolVersionInfo, bool) {
	for _, entry := range m {
		if entry.Version == v {
			return entry, true
		}
	}
	return ToolVersionInfo{}, false
}

// BestReleased selects the highest released entry that satisfies spec.
// The spec is passed to the matcher unmodified. When nothing matches, a
// *NoMatchError lists every eligible version.
func (m Manifest) BestReleased(tool, spec string) (ToolVersionInfo, error) {
	released := m.Released()
	candidates := released.Versions()
	match, err := version.Evaluate(candidates, spec)
	if err != nil {
		return ToolVersionInfo{}, err
	}
	if match == "" {
		return ToolVersionInfo{}, &NoMatchError{Tool: tool, Spec: spec, Available: candidates}
	}
	entry, _ := released.Find(match)
	return entry, nil
}
