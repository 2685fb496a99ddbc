// Package installer resolves a NuGet version specifier to a cached nuget.exe,
// downloading from the distribution manifest when needed, and publishes the
// result to the pipeline.
package installer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/conn-castle/nuget-tool-installer/internal/dist"
	"github.com/conn-castle/nuget-tool-installer/internal/messages"
	"github.com/conn-castle/nuget-tool-installer/internal/pipeline"
)

const (
	// ToolName is the tool cache namespace.
	ToolName = "NuGet"
	// ExeFilename is the cached executable name.
	ExeFilename = "nuget.exe"
	// ToolPathVariable receives the full path of the resolved executable.
	ToolPathVariable = "NuGetExeToolPath"
	// ForceLegacyVariable selects the 4.0.0 bundled default when "true".
	ForceLegacyVariable = "FORCE_NUGET_4_0_0"

	// DefaultVersion is the bundled version seeded into the cache.
	DefaultVersion = "4.1.0"
	// DefaultPathSuffix locates DefaultVersion under the bundle root.
	DefaultPathSuffix = "NuGet/4.1.0/"
	// LegacyVersion is seeded instead of DefaultVersion when forced.
	LegacyVersion = "4.0.0"
	// LegacyPathSuffix locates LegacyVersion under the bundle root.
	LegacyPathSuffix = "NuGet/4.0.0/"
)

// bundledFilenames are tried in order inside each bundle search path.
var bundledFilenames = []string{"NuGet.exe", "nuget.exe"}

// ErrMissingDownloadURL is returned when the matched manifest entry has no URL.
var ErrMissingDownloadURL = errors.New(messages.InstallerMissingDownloadURL)

var osRemove = os.Remove

// Cache is the local tool cache.
type Cache interface {
	Find(tool, spec string) (string, bool, error)
	Versions(tool string) ([]string, error)
	Store(src, filename, tool, version string) (string, error)
}

// ManifestSource fetches the distribution manifest.
type ManifestSource interface {
	Fetch(ctx context.Context) (dist.Manifest, error)
}

// Downloader fetches a URL into a local temporary file.
type Downloader interface {
	Download(ctx context.Context, url string) (string, error)
}

// Config wires an Installer.
type Config struct {
	Cache      Cache
	Manifest   ManifestSource
	Downloader Downloader
	Pipeline   pipeline.Context
	// BundleRoot holds the bundled NuGet/<version>/ directories.
	BundleRoot string
	// ForceLegacy overrides ForceLegacyVariable; nil reads the pipeline.
	ForceLegacy *bool
	// Out receives progress lines. Defaults to io.Discard.
	Out    io.Writer
	Logger *slog.Logger
}

// Installer resolves and publishes NuGet.
type Installer struct {
	cache       Cache
	manifest    ManifestSource
	downloader  Downloader
	pipeline    pipeline.Context
	bundleRoot  string
	forceLegacy bool
	out         io.Writer
	logger      *slog.Logger
}

// New validates cfg and returns an Installer. The force-legacy flag is read
// once here.
func New(cfg Config) (*Installer, error) {
	switch {
	case cfg.Cache == nil:
		return nil, errors.New(messages.InstallerCacheRequired)
	case cfg.Manifest == nil:
		return nil, errors.New(messages.InstallerManifestRequired)
	case cfg.Downloader == nil:
		return nil, errors.New(messages.InstallerDownloaderRequired)
	case cfg.Pipeline == nil:
		return nil, errors.New(messages.InstallerPipelineRequired)
	}

	force := cfg.ForceLegacy
	if force == nil {
		force = pipeline.BoolVariable(cfg.Pipeline, ForceLegacyVariable)
	}
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Installer{
		cache:       cfg.Cache,
		manifest:    cfg.Manifest,
		downloader:  cfg.Downloader,
		pipeline:    cfg.Pipeline,
		bundleRoot:  cfg.BundleRoot,
		forceLegacy: pipeline.IsTrue(force),
		out:         out,
		logger:      logger,
	}, nil
}
