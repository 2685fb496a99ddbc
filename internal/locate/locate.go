// Package locate finds executables bundled alongside the installer.
package locate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/nuget-tool-installer/internal/messages"
)

// Options describes where to look for a bundled tool.
type Options struct {
	// Root is the installation root that SearchPaths are relative to.
	Root string
	// SearchPaths are directories relative to Root, tried in order. An empty list
	// searches Root itself.
	SearchPaths []string
	// Filenames are candidate file names tried in order within each search path.
	Filenames []string
}

// Tool returns the first regular file matching opts. Search paths are tried in
// order and, within each, the candidate filenames in order.
func Tool(name string, opts Options) (string, error) {
	if strings.TrimSpace(opts.Root) == "" {
		return "", errors.New(messages.LocateRootRequired)
	}
	if len(opts.Filenames) == 0 {
		return "", errors.New(messages.LocateFilenamesRequired)
	}
	searchPaths := opts.SearchPaths
	if len(searchPaths) == 0 {
		searchPaths = []string{""}
	}

	tried := make([]string, 0, len(searchPaths)*len(opts.Filenames))
	for _, searchPath := range searchPaths {
		dir := filepath.Join(opts.Root, filepath.FromSlash(searchPath))
		for _, filename := range opts.Filenames {
			candidate := filepath.Join(dir, filename)
			tried = append(tried, candidate)
			info, err := os.Stat(candidate)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return "", fmt.Errorf(messages.LocateCheckPathFmt, candidate, err)
			}
			if info.Mode().IsRegular() {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf(messages.LocateNotFoundFmt, name, strings.Join(tried, ", "))
}
