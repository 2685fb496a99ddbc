package pipeline

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/conn-castle/nuget-tool-installer/internal/messages"
)

// Memory records pipeline changes in memory without touching the process.
type Memory struct {
	Variables map[string]string
	Path      []string
	Warnings  []string
}

// NewMemory returns a Memory seeded with variables.
func NewMemory(variables map[string]string) *Memory {
	vars := make(map[string]string, len(variables))
	maps.Copy(vars, variables)
	return &Memory{Variables: vars}
}

// GetVariable returns the recorded value by exact or environment name.
func (m *Memory) GetVariable(name string) string {
	if v, ok := m.Variables[name]; ok {
		return v
	}
	return m.Variables[EnvName(name)]
}

// SetVariable records value under name.
func (m *Memory) SetVariable(name, value string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(messages.PipelineVariableNameRequired)
	}
	if m.Variables == nil {
		m.Variables = map[string]string{}
	}
	m.Variables[name] = value
	return nil
}

// PrependPath records dir at the front of Path.
func (m *Memory) PrependPath(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New(messages.PipelineDirRequired)
	}
	m.Path = slices.Insert(m.Path, 0, dir)
	return nil
}

// Warning records msg.
func (m *Memory) Warning(msg string) {
	m.Warnings = append(m.Warnings, msg)
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
