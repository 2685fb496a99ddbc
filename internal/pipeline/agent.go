package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/nuget-tool-installer/internal/messages"
)

// Agent publishes through Azure Pipelines logging commands written to out and
// mirrors every change into the current process environment.
type Agent struct {
	out       io.Writer
	overrides map[string]string
	getenv    func(string) string
	setenv    func(string, string) error
}

// NewAgent returns an Agent writing commands to out. overrides, typically read
// from a variables file, take precedence over the process environment.
func NewAgent(out io.Writer, overrides map[string]string) *Agent {
	if out == nil {
		out = io.Discard
	}
	return &Agent{
		out:       out,
		overrides: overrides,
		getenv:    os.Getenv,
		setenv:    os.Setenv,
	}
}

// GetVariable checks overrides by exact and environment name, then the process environment.
func (a *Agent) GetVariable(name string) string {
	if v, ok := a.overrides[name]; ok {
		return v
	}
	envName := EnvName(name)
	if v, ok := a.overrides[envName]; ok {
		return v
	}
	return a.getenv(envName)
}

// SetVariable emits task.setvariable and exports the environment form.
func (a *Agent) SetVariable(name, value string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(messages.PipelineVariableNameRequired)
	}
	envName := EnvName(name)
	if err := a.setenv(envName, value); err != nil {
		return fmt.Errorf(messages.PipelineSetEnvFmt, envName, err)
	}
	if a.overrides != nil {
		a.overrides[name] = value
	}
	a.command("task.setvariable", map[string]string{"variable": name}, value)
	return nil
}

// PrependPath emits task.prependpath and updates PATH for this process.
func (a *Agent) PrependPath(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New(messages.PipelineDirRequired)
	}
	current := a.getenv("PATH")
	updated := dir
	if current != "" {
		updated = dir + string(filepath.ListSeparator) + current
	}
	if err := a.setenv("PATH", updated); err != nil {
		return fmt.Errorf(messages.PipelineSetEnvFmt, "PATH", err)
	}
	a.command("task.prependpath", nil, dir)
	return nil
}

// Warning emits task.logissue with type=warning.
func (a *Agent) Warning(msg string) {
	a.command("task.logissue", map[string]string{"type": "warning"}, msg)
}

func (a *Agent) command(name string, props map[string]string, data string) {
	var b strings.Builder
	b.WriteString("##vso[")
	b.WriteString(name)
	if len(props) > 0 {
		b.WriteString(" ")
		first := true
		for _, key := range sortedKeys(props) {
			if !first {
				b.WriteString(";")
			}
			first = false
			b.WriteString(key)
			b.WriteString("=")
			b.WriteString(escapeProperty(props[key]))
		}
	}
	b.WriteString("]")
	b.WriteString(escapeData(data))
	_, _ = fmt.Fprintln(a.out, b.String())
}

var (
	dataEscaper     = strings.NewReplacer("%", "%AZP25", "\r", "%0D", "\n", "%0A")
	propertyEscaper = strings.NewReplacer("%", "%AZP25", "\r", "%0D", "\n", "%0A", "]", "%5D", ";", "%3B")
)

func escapeData(s string) string {
	return dataEscaper.Replace(s)
}

func escapeProperty(s string) string {
	return propertyEscaper.Replace(s)
}
