package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/nuget-tool-installer/internal/envfile"
	"github.com/conn-castle/nuget-tool-installer/internal/messages"
)

// EnvFile wraps a Context and also persists published variables into a
// KEY=VALUE file, for runners that load step outputs from such a file.
type EnvFile struct {
	Context
	path string
}

// WithEnvFile returns ctx unchanged when path is empty.
func WithEnvFile(ctx Context, path string) Context {
	if strings.TrimSpace(path) == "" {
		return ctx
	}
	return &EnvFile{Context: ctx, path: path}
}

// SetVariable publishes through the wrapped Context and then patches the file.
func (e *EnvFile) SetVariable(name, value string) error {
	if err := e.Context.SetVariable(name, value); err != nil {
		return err
	}
	var content string
	data, err := os.ReadFile(e.path)
	switch {
	case err == nil:
		content = string(data)
	case errors.Is(err, fs.ErrNotExist):
	default:
		return fmt.Errorf(messages.PipelineReadEnvFileFmt, e.path, err)
	}
	if _, err := envfile.Parse(content); err != nil {
		return fmt.Errorf(messages.PipelineParseEnvFileFmt, e.path, err)
	}

	patched := envfile.Patch(content, map[string]string{name: value})
	if !strings.HasSuffix(patched, "\n") {
		patched += "\n"
	}
	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return fmt.Errorf(messages.PipelineWriteEnvFileFmt, e.path, err)
	}
	if err := os.WriteFile(e.path, []byte(patched), 0o644); err != nil {
		return fmt.Errorf(messages.PipelineWriteEnvFileFmt, e.path, err)
	}
	return nil
}

// LoadVariablesFile parses a KEY=VALUE variables file. An empty path yields an
// empty map.
func LoadVariablesFile(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return map[string]string{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.PipelineReadVariablesFileFmt, path, err)
	}
	vars, err := envfile.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf(messages.PipelineParseVariablesFmt, path, err)
	}
	return vars, nil
}
