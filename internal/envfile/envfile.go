// Package envfile reads and updates KEY=VALUE variable files such as the ones
// CI runners load step outputs from.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/conn-castle/nuget-tool-installer/internal/messages"
)

// assignment is one parsed KEY=VALUE line.
type assignment struct {
	key   string
	value string
}

// Parse reads variable file content into a map. Later assignments win.
func Parse(content string) (map[string]string, error) {
	vars := make(map[string]string)
	if content == "" {
		return vars, nil
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		a, ok, err := parseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf(messages.EnvfileLineErrorFmt, lineNo, err)
		}
		if ok {
			vars[a.key] = a.value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf(messages.EnvfileReadFailedFmt, err)
	}
	return vars, nil
}

// Patch rewrites content so each key in updates holds its new value. The first
// assignment of a key is replaced in place and later duplicates are dropped.
// New keys are appended in sorted order. Comments and blank lines survive.
func Patch(content string, updates map[string]string) string {
	if len(updates) == 0 {
		return content
	}
	var lines []string
	if content != "" {
		lines = strings.Split(content, "\n")
	}

	seen := make(map[string]bool, len(updates))
	out := make([]string, 0, len(lines)+len(updates))
	for _, line := range lines {
		a, ok, err := parseLine(line)
		if err != nil || !ok {
			out = append(out, line)
			continue
		}
		value, updated := updates[a.key]
		if !updated {
			out = append(out, line)
			continue
		}
		if seen[a.key] {
			continue
		}
		seen[a.key] = true
		out = append(out, formatLine(a.key, value))
	}

	// Appended keys land after the trailing newline, not on a blank separator.
	if n := len(out); n > 0 && out[n-1] == "" {
		out = out[:n-1]
	}
	for _, key := range slices.Sorted(maps.Keys(updates)) {
		if seen[key] {
			continue
		}
		out = append(out, formatLine(key, updates[key]))
	}
	return strings.Join(out, "\n")
}

func formatLine(key, value string) string {
	return key + "=" + encodeValue(value)
}

// parseLine returns ok=false for blank and comment lines.
func parseLine(line string) (assignment, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return assignment{}, false, nil
	}
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "export "))

	key, value, found := strings.Cut(trimmed, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return assignment{}, false, errors.New(messages.EnvfileExpectedKeyValue)
	}
	value = strings.TrimSpace(value)

	var err error
	switch {
	case strings.HasPrefix(value, `"`):
		value, err = parseDoubleQuoted(value)
	case strings.HasPrefix(value, `'`):
		value, err = parseSingleQuoted(value)
	}
	if err != nil {
		return assignment{}, false, err
	}
	return assignment{key: key, value: value}, true, nil
}

func parseDoubleQuoted(value string) (string, error) {
	closing := -1
	escaped := false
	for i := 1; i < len(value) && closing < 0; i++ {
		switch {
		case escaped:
			escaped = false
		case value[i] == '\\':
			escaped = true
		case value[i] == '"':
			closing = i
		}
	}
	if closing < 0 {
		return "", errors.New(messages.EnvfileUnterminatedQuotedValue)
	}
	if err := checkSuffix(value[closing+1:]); err != nil {
		return "", err
	}
	return unescape(value[1:closing]), nil
}

func parseSingleQuoted(value string) (string, error) {
	closing := strings.IndexByte(value[1:], '\'')
	if closing < 0 {
		return "", errors.New(messages.EnvfileUnterminatedQuotedValue)
	}
	closing++
	if err := checkSuffix(value[closing+1:]); err != nil {
		return "", err
	}
	return value[1:closing], nil
}

// checkSuffix allows whitespace and a trailing comment after a quoted value.
func checkSuffix(suffix string) error {
	trimmed := strings.TrimSpace(suffix)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}
	return errors.New(messages.EnvfileInvalidQuotedSuffix)
}

var unescaper = strings.NewReplacer(`\\`, `\`, `\"`, `"`, `\n`, "\n", `\r`, "\r")

func unescape(s string) string {
	return unescaper.Replace(s)
}

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

// encodeValue quotes values that would not survive an unquoted round trip.
func encodeValue(value string) string {
	if strings.ContainsAny(value, " \t#\n\r\"'") {
		return `"` + escaper.Replace(value) + `"`
	}
	return value
}
