package pipeline

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAgent(out *bytes.Buffer, env map[string]string, overrides map[string]string) *Agent {
	a := NewAgent(out, overrides)
	a.getenv = func(k string) string { return env[k] }
	a.setenv = func(k, v string) error {
		env[k] = v
		return nil
	}
	return a
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "SYSTEM_DEBUG", EnvName("System.Debug"))
	assert.Equal(t, "FORCE_NUGET_4_0_0", EnvName("FORCE_NUGET_4_0_0"))
	assert.Equal(t, "MY_VAR_NAME", EnvName(" my var.name "))
}

func TestParseBool(t *testing.T) {
	assert.Nil(t, ParseBool(""))
	assert.Nil(t, ParseBool("  "))
	require.NotNil(t, ParseBool("TRUE"))
	assert.True(t, *ParseBool("TRUE"))
	assert.True(t, *ParseBool("true"))
	assert.False(t, *ParseBool("yes"))
	assert.False(t, *ParseBool("false"))
	assert.False(t, IsTrue(nil))
	assert.True(t, IsTrue(ParseBool("True")))
}

func TestAgent_GetVariable(t *testing.T) {
	env := map[string]string{"FORCE_NUGET_4_0_0": "from-env", "SYSTEM_DEBUG": "true"}
	a := fakeAgent(&bytes.Buffer{}, env, map[string]string{"FORCE_NUGET_4_0_0": "from-file"})

	assert.Equal(t, "from-file", a.GetVariable("FORCE_NUGET_4_0_0"))
	assert.Equal(t, "true", a.GetVariable("System.Debug"))
	assert.Empty(t, a.GetVariable("Missing"))
	assert.True(t, IsTrue(BoolVariable(a, DebugVariable)))
}

func TestAgent_SetVariable(t *testing.T) {
	var out bytes.Buffer
	env := map[string]string{}
	a := fakeAgent(&out, env, nil)

	require.NoError(t, a.SetVariable("NuGetExeToolPath", "/cache/NuGet/4.1.0/x64/nuget.exe"))
	assert.Equal(t, "##vso[task.setvariable variable=NuGetExeToolPath]/cache/NuGet/4.1.0/x64/nuget.exe\n", out.String())
	assert.Equal(t, "/cache/NuGet/4.1.0/x64/nuget.exe", env["NUGETEXETOOLPATH"])
	assert.Equal(t, "/cache/NuGet/4.1.0/x64/nuget.exe", a.GetVariable("NuGetExeToolPath"))

	require.Error(t, a.SetVariable(" ", "x"))
}

func TestAgent_SetVariableEnvError(t *testing.T) {
	var out bytes.Buffer
	a := NewAgent(&out, nil)
	a.setenv = func(string, string) error { return errors.New("boom") }

	err := a.SetVariable("X", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Empty(t, out.String())
}

func TestAgent_PrependPath(t *testing.T) {
	var out bytes.Buffer
	env := map[string]string{"PATH": "/usr/bin"}
	a := fakeAgent(&out, env, nil)

	require.NoError(t, a.PrependPath("/cache/NuGet/4.1.0/x64"))
	assert.Equal(t, "/cache/NuGet/4.1.0/x64"+string(filepath.ListSeparator)+"/usr/bin", env["PATH"])
	assert.Equal(t, "##vso[task.prependpath]/cache/NuGet/4.1.0/x64\n", out.String())

	env["PATH"] = ""
	out.Reset()
	require.NoError(t, a.PrependPath("/tools"))
	assert.Equal(t, "/tools", env["PATH"])

	require.Error(t, a.PrependPath(""))
}

func TestAgent_WarningEscapes(t *testing.T) {
	var out bytes.Buffer
	a := NewAgent(&out, nil)

	a.Warning("100% done\nnext line")
	assert.Equal(t, "##vso[task.logissue type=warning]100%AZP25 done%0Anext line\n", out.String())
}

func TestEscapeProperty(t *testing.T) {
	assert.Equal(t, "a%3Bb%5Dc", escapeProperty("a;b]c"))
}

func TestNewAgent_NilWriter(t *testing.T) {
	a := NewAgent(nil, nil)
	assert.NotPanics(t, func() { a.Warning("ok") })
}

func TestMemory(t *testing.T) {
	m := NewMemory(map[string]string{"SYSTEM_DEBUG": "true"})

	assert.Equal(t, "true", m.GetVariable("System.Debug"))
	require.NoError(t, m.SetVariable("NuGetExeToolPath", "/p/nuget.exe"))
	assert.Equal(t, "/p/nuget.exe", m.GetVariable("NuGetExeToolPath"))
	require.NoError(t, m.PrependPath("/a"))
	require.NoError(t, m.PrependPath("/b"))
	assert.Equal(t, []string{"/b", "/a"}, m.Path)
	m.Warning("careful")
	assert.Equal(t, []string{"careful"}, m.Warnings)

	require.Error(t, m.SetVariable("", "x"))
	require.Error(t, m.PrependPath(" "))

	var zero Memory
	require.NoError(t, zero.SetVariable("A", "1"))
	assert.Equal(t, "1", zero.GetVariable("A"))
}

func TestWithEnvFile(t *testing.T) {
	mem := NewMemory(nil)
	assert.Same(t, Context(mem), WithEnvFile(mem, ""))

	path := filepath.Join(t.TempDir(), "out", "vars.env")
	ctx := WithEnvFile(mem, path)

	require.NoError(t, ctx.SetVariable("NuGetExeToolPath", "/p/nuget.exe"))
	require.NoError(t, ctx.SetVariable("Other", "two words"))
	require.NoError(t, ctx.SetVariable("NuGetExeToolPath", "/q/nuget.exe"))
	require.NoError(t, ctx.PrependPath("/q"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "NuGetExeToolPath=/q/nuget.exe\nOther=\"two words\"\n", string(data))
	assert.Equal(t, "/q/nuget.exe", mem.Variables["NuGetExeToolPath"])
	assert.Equal(t, []string{"/q"}, mem.Path)
}

func TestWithEnvFile_InvalidExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.env")
	require.NoError(t, os.WriteFile(path, []byte("not valid\n"), 0o644))

	err := WithEnvFile(NewMemory(nil), path).SetVariable("A", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env file")
}

func TestWithEnvFile_ReadError(t *testing.T) {
	dir := t.TempDir()
	err := WithEnvFile(NewMemory(nil), dir).SetVariable("A", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read env file")
}

func TestWithEnvFile_InnerErrorStops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.env")
	err := WithEnvFile(NewMemory(nil), path).SetVariable("", "1")
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestLoadVariablesFile(t *testing.T) {
	vars, err := LoadVariablesFile("")
	require.NoError(t, err)
	assert.Empty(t, vars)

	path := filepath.Join(t.TempDir(), "vars.env")
	require.NoError(t, os.WriteFile(path, []byte("FORCE_NUGET_4_0_0=TRUE\n# comment\n"), 0o644))
	vars, err = LoadVariablesFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"FORCE_NUGET_4_0_0": "TRUE"}, vars)

	_, err = LoadVariablesFile(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read variables file")

	require.NoError(t, os.WriteFile(path, []byte("broken\n"), 0o644))
	_, err = LoadVariablesFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse variables file")
}
