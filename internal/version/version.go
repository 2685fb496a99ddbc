// Package version classifies and evaluates NuGet version specifiers.
package version

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/conn-castle/nuget-tool-installer/internal/messages"
)

// Clean trims whitespace and a leading "v" or "=" from raw.
func Clean(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "=")
	trimmed = strings.TrimPrefix(trimmed, "v")
	return strings.TrimSpace(trimmed)
}

// IsExplicit reports whether spec names exactly one version (X.Y.Z with optional
// prerelease and build metadata) rather than a range or wildcard query.
func IsExplicit(spec string) bool {
	_, err := semver.StrictNewVersion(Clean(spec))
	return err == nil
}

// Evaluate returns the highest candidate that satisfies spec, or "" when none does.
// Candidates that are not valid versions are ignored. The returned string is the
// candidate exactly as given so callers can look it up in their own collections.
func Evaluate(candidates []string, spec string) (string, error) {
	constraint, err := NewConstraint(spec)
	if err != nil {
		return "", err
	}

	type parsed struct {
		raw string
		ver *semver.Version
	}
	valid := make([]parsed, 0, len(candidates))
	for _, candidate := range candidates {
		v, err := semver.StrictNewVersion(Clean(candidate))
		if err != nil {
			slog.Debug("ignoring unparseable version", "version", candidate, "error", err)
			continue
		}
		valid = append(valid, parsed{raw: candidate, ver: v})
	}
	slices.SortFunc(valid, func(a, b parsed) int {
		return b.ver.Compare(a.ver)
	})

	for _, p := range valid {
		if constraint.Check(p.ver) {
			return p.raw, nil
		}
	}
	return "", nil
}

// NewConstraint parses spec into a semver constraint. Explicit versions become an
// exact-match constraint so prerelease pins still match themselves.
func NewConstraint(spec string) (*semver.Constraints, error) {
	cleaned := strings.TrimSpace(spec)
	if cleaned == "" {
		return nil, fmt.Errorf(messages.VersionSpecRequired)
	}
	if IsExplicit(cleaned) {
		cleaned = "=" + Clean(cleaned)
	}
	constraint, err := semver.NewConstraint(cleaned)
	if err != nil {
		return nil, fmt.Errorf(messages.VersionInvalidConstraintFmt, spec, err)
	}
	return constraint, nil
}

// Sort orders versions ascending by semantic version. Unparseable entries sort
// first in their original relative order.
func Sort(versions []string) {
	slices.SortStableFunc(versions, func(a, b string) int {
		va, errA := semver.StrictNewVersion(Clean(a))
		vb, errB := semver.StrictNewVersion(Clean(b))
		switch {
		case errA != nil && errB != nil:
			return 0
		case errA != nil:
			return -1
		case errB != nil:
			return 1
		}
		return va.Compare(vb)
	})
}
