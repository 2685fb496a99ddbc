// Package toolcache stores tool executables on disk keyed by tool name, version
// and architecture, and answers version-specifier lookups against them.
//
// Layout:
//
//	<root>/<tool>/<version>/<arch>/<files>
//	<root>/<tool>/<version>/<arch>.complete
//
// An entry exists only when both the directory and the completion marker exist.
package toolcache

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/conn-castle/nuget-tool-installer/internal/messages"
	"github.com/conn-castle/nuget-tool-installer/internal/version"
)

const completeSuffix = ".complete"

var (
	osRename   = os.Rename
	osChmod    = os.Chmod
	osMkdirAll = os.MkdirAll
)

// Cache is a directory-backed tool cache.
type Cache struct {
	root   string
	arch   string
	logger *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithArch overrides the architecture segment (default runtime.GOARCH).
func WithArch(arch string) Option {
	return func(c *Cache) {
		if arch = strings.TrimSpace(arch); arch != "" {
			c.arch = arch
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a Cache rooted at root. The directory is created lazily on Store.
func New(root string, opts ...Option) (*Cache, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New(messages.ToolcacheRootRequired)
	}
	c := &Cache{
		root:   filepath.Clean(root),
		arch:   runtime.GOARCH,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// Find returns the entry directory for tool matching spec. A query spec is first
// evaluated against the cached versions. ok is false on a cache miss.
func (c *Cache) Find(tool, spec string) (string, bool, error) {
	if strings.TrimSpace(tool) == "" {
		return "", false, errors.New(messages.ToolcacheToolRequired)
	}
	if strings.TrimSpace(spec) == "" {
		return "", false, errors.New(messages.ToolcacheVersionRequired)
	}

	target := spec
	if !version.IsExplicit(spec) {
		local, err := c.Versions(tool)
		if err != nil {
			return "", false, err
		}
		match, err := version.Evaluate(local, spec)
		if err != nil {
			return "", false, err
		}
		if match == "" {
			c.logger.Debug("no cached version matches", "tool", tool, "spec", spec)
			return "", false, nil
		}
		target = match
	}

	dir := c.entryDir(tool, target)
	complete, err := c.isComplete(dir)
	if err != nil {
		return "", false, err
	}
	if !complete {
		c.logger.Debug("tool not found in cache", "tool", tool, "version", target)
		return "", false, nil
	}
	c.logger.Debug("found tool in cache", "tool", tool, "version", target, "path", dir)
	return dir, true, nil
}

// Versions lists the complete cached versions of tool for this architecture in
// ascending order.
func (c *Cache) Versions(tool string) ([]string, error) {
	if strings.TrimSpace(tool) == "" {
		return nil, errors.New(messages.ToolcacheToolRequired)
	}
	toolDir := filepath.Join(c.root, tool)
	entries, err := os.ReadDir(toolDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf(messages.ToolcacheReadDirFmt, toolDir, err)
	}

	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || !version.IsExplicit(entry.Name()) {
			continue
		}
		complete, err := c.isComplete(filepath.Join(toolDir, entry.Name(), c.arch))
		if err != nil {
			return nil, err
		}
		if complete {
			versions = append(versions, entry.Name())
		}
	}
	version.Sort(versions)
	return versions, nil
}

// Store copies src into the entry for (tool, ver) as filename and marks it
// complete. An existing entry is replaced. Concurrent writers for the same entry
// are serialized with a file lock.
func (c *Cache) Store(src, filename, tool, ver string) (string, error) {
	if strings.TrimSpace(tool) == "" {
		return "", errors.New(messages.ToolcacheToolRequired)
	}
	if strings.TrimSpace(filename) == "" {
		return "", errors.New(messages.ToolcacheFilenameRequired)
	}
	if !version.IsExplicit(ver) {
		return "", fmt.Errorf(messages.ToolcacheInvalidVersionFmt, ver)
	}
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf(messages.ToolcacheCheckPathFmt, src, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf(messages.ToolcacheSourceNotFileFmt, src)
	}

	dest := c.entryDir(tool, ver)
	parent := filepath.Dir(dest)
	if err := osMkdirAll(parent, 0o755); err != nil {
		return "", fmt.Errorf(messages.ToolcacheCreateDirFmt, parent, err)
	}

	err = withFileLock(dest+".lock", func() error {
		return c.commit(src, filename, dest)
	})
	if err != nil {
		return "", err
	}
	c.logger.Debug("cached tool", "tool", tool, "version", version.Clean(ver), "path", dest)
	return dest, nil
}

func (c *Cache) commit(src, filename, dest string) error {
	parent := filepath.Dir(dest)
	marker := dest + completeSuffix

	staging, err := os.MkdirTemp(parent, c.arch+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.ToolcacheCreateTempDirFmt, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(staging)
		}
	}()

	target := filepath.Join(staging, filename)
	if err := copyFile(src, target); err != nil {
		return fmt.Errorf(messages.ToolcacheCopyFileFmt, src, err)
	}
	if err := osChmod(target, 0o755); err != nil {
		return fmt.Errorf(messages.ToolcacheChmodFmt, target, err)
	}

	if err := os.Remove(marker); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf(messages.ToolcacheReplaceEntryFmt, dest, err)
	}
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf(messages.ToolcacheReplaceEntryFmt, dest, err)
	}
	if err := osRename(staging, dest); err != nil {
		return fmt.Errorf(messages.ToolcacheCommitEntryFmt, dest, err)
	}
	committed = true

	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		return fmt.Errorf(messages.ToolcacheWriteMarkerFmt, marker, err)
	}
	return nil
}

func (c *Cache) entryDir(tool, ver string) string {
	return filepath.Join(c.root, tool, version.Clean(ver), c.arch)
}

func (c *Cache) isComplete(dir string) (bool, error) {
	for _, path := range []string{dir, dir + completeSuffix} {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return false, nil
			}
			return false, fmt.Errorf(messages.ToolcacheCheckPathFmt, path, err)
		}
	}
	return true, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
