// Package dist reads the NuGet tool distribution manifest published at
// https://dist.nuget.org/tools.json and selects released versions from it.
package dist

import (
	"encoding/json"
	"fmt"

	"github.com/conn-castle/nuget-tool-installer/internal/messages"
)

// DefaultManifestURL is the well-known location of the NuGet tool manifest.
const DefaultManifestURL = "https://dist.nuget.org/tools.json"

// ToolKey is the manifest key that lists nuget.exe releases.
const ToolKey = "nuget.exe"

// Stage classifies the maturity of a published version.
type Stage int

// Known release stages. StageUnknown covers values this package does not
// recognize; those entries remain eligible for matching.
const (
	StageUnknown Stage = iota
	StageEarlyAccessPreview
	StageReleased
	StageReleasedAndBlessed
)

var stageNames = map[Stage]string{
	StageEarlyAccessPreview: "EarlyAccessPreview",
	StageReleased:           "Released",
	StageReleasedAndBlessed: "ReleasedAndBlessed",
}

// ParseStage maps a manifest stage string to a Stage.
func ParseStage(raw string) Stage {
	for stage, name := range stageNames {
		if name == raw {
			return stage
		}
	}
	return StageUnknown
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Eligible reports whether versions in this stage may satisfy a request.
func (s Stage) Eligible() bool {
	return s != StageEarlyAccessPreview
}

// ToolVersionInfo is one published nuget.exe version.
type ToolVersionInfo struct {
	Version string
	URL     string
	Stage   Stage
	// RawStage keeps the manifest text so unknown stages can still be reported.
	RawStage string
}

type versionInfoJSON struct {
	Version string `json:"version"`
	URL     string `json:"url,omitempty"`
	Stage   string `json:"stage"`
}

// UnmarshalJSON decodes a manifest entry and parses its stage.
func (v *ToolVersionInfo) UnmarshalJSON(data []byte) error {
	var raw versionInfoJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = ToolVersionInfo{
		Version:  raw.Version,
		URL:      raw.URL,
		Stage:    ParseStage(raw.Stage),
		RawStage: raw.Stage,
	}
	return nil
}

// MarshalJSON encodes the entry in manifest form.
func (v ToolVersionInfo) MarshalJSON() ([]byte, error) {
	stage := v.RawStage
	if stage == "" {
		stage = v.Stage.String()
	}
	return json.Marshal(versionInfoJSON{Version: v.Version, URL: v.URL, Stage: stage})
}

// StageLabel returns the stage text as published.
func (v ToolVersionInfo) StageLabel() string {
	if v.RawStage != "" {
		return v.RawStage
	}
	return v.Stage.String()
}

// Manifest is the ordered list of nuget.exe versions from the remote document.
type Manifest []ToolVersionInfo

// decodeManifest extracts the nuget.exe list from a tools.json payload.
func decodeManifest(data []byte, source string) (Manifest, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	entries, ok := doc[ToolKey]
	if !ok {
		return nil, fmt.Errorf(messages.DistMissingToolKeyFmt, source, ToolKey)
	}
	var manifest Manifest
	if err := json.Unmarshal(entries, &manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}
