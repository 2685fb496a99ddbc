package installer

import (
	"context"
	"fmt"

	"github.com/conn-castle/nuget-tool-installer/internal/locate"
	"github.com/conn-castle/nuget-tool-installer/internal/messages"
)

var locateTool = locate.Tool

// DefaultTarget returns the bundled version to seed and its path suffix.
func (i *Installer) DefaultTarget() (string, string) {
	if i.forceLegacy {
		return LegacyVersion, LegacyPathSuffix
	}
	return DefaultVersion, DefaultPathSuffix
}

// EnsureDefaultCached copies the bundled default nuget.exe into the cache when
// that version is not already there. It never touches the network.
func (i *Installer) EnsureDefaultCached(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, suffix := i.DefaultTarget()

	_, hit, err := i.cache.Find(ToolName, target)
	if err != nil {
		return fmt.Errorf(messages.InstallerLookupCacheFmt, ToolName, target, err)
	}
	if hit {
		i.logger.Debug("bundled version already cached", "version", target)
		return nil
	}

	_, _ = fmt.Fprintf(i.out, messages.InstallerSeedingFmt, target)
	src, err := locateTool(ToolName, locate.Options{
		Root:        i.bundleRoot,
		SearchPaths: []string{suffix},
		Filenames:   bundledFilenames,
	})
	if err != nil {
		return fmt.Errorf(messages.InstallerSeedLocateFmt, ToolName, target, err)
	}
	if _, err := i.cache.Store(src, ExeFilename, ToolName, target); err != nil {
		return fmt.Errorf(messages.InstallerSeedStoreFmt, ToolName, target, err)
	}
	return nil
}
