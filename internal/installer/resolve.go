package installer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/conn-castle/nuget-tool-installer/internal/dist"
	"github.com/conn-castle/nuget-tool-installer/internal/messages"
	"github.com/conn-castle/nuget-tool-installer/internal/version"
)

// Request describes one resolution.
type Request struct {
	// VersionSpec is an explicit version or a range query.
	VersionSpec string
	// CheckLatest consults the manifest even on a cache hit. Ignored for
	// explicit versions.
	CheckLatest bool
	// AddToPath prepends the tool directory to the search path.
	AddToPath bool
}

// Resolve makes a version matching req.VersionSpec available in the cache,
// publishes ToolPathVariable, and returns the full executable path.
func (i *Installer) Resolve(ctx context.Context, req Request) (string, error) {
	spec := req.VersionSpec
	checkLatest := req.CheckLatest
	if version.IsExplicit(spec) {
		checkLatest = false
		i.logger.Debug("exact match expected", "version", spec)
	} else {
		i.logger.Debug("query match expected", "version", spec)
		_, _ = fmt.Fprint(i.out, messages.InstallerQueryNotice)
	}

	var (
		dir string
		hit bool
		err error
	)
	if !checkLatest {
		i.logger.Debug("checking local tool cache", "tool", ToolName, "version", spec)
		dir, hit, err = i.cache.Find(ToolName, spec)
		if err != nil {
			return "", fmt.Errorf(messages.InstallerLookupCacheFmt, ToolName, spec, err)
		}
	}

	local, err := i.cache.Versions(ToolName)
	if err != nil {
		return "", fmt.Errorf(messages.InstallerListCacheFmt, ToolName, err)
	}
	resolved, err := version.Evaluate(local, spec)
	if err != nil {
		return "", fmt.Errorf(messages.InstallerFailedFmt, ToolName, err)
	}

	if hit {
		_, _ = fmt.Fprintf(i.out, messages.InstallerResolvedFromCacheFmt, resolved)
	} else {
		info, err := i.FetchBestReleasedVersion(ctx, spec)
		if err != nil {
			return "", err
		}
		if resolved != "" && resolved != info.Version {
			i.pipeline.Warning(fmt.Sprintf(messages.InstallerUpdatingVersionWarningFmt, ToolName, info.Version, resolved))
		}
		resolved = info.Version
		i.logger.Debug("selected version from manifest", "version", resolved)

		if info.URL == "" {
			return "", fmt.Errorf(messages.InstallerMissingDownloadURLFmt, resolved, ErrMissingDownloadURL)
		}
		if err := i.ensureCached(ctx, info); err != nil {
			return "", err
		}
	}

	_, _ = fmt.Fprintf(i.out, messages.InstallerUsingVersionFmt, resolved)
	dir, hit, err = i.cache.Find(ToolName, resolved)
	if err != nil {
		return "", fmt.Errorf(messages.InstallerLookupCacheFmt, ToolName, resolved, err)
	}
	if !hit {
		return "", fmt.Errorf(messages.InstallerCachedEntryMissingFmt, ToolName, resolved)
	}

	if req.AddToPath {
		_, _ = fmt.Fprintf(i.out, messages.InstallerUsingToolPathFmt, dir)
		if err := i.pipeline.PrependPath(dir); err != nil {
			return "", err
		}
	}

	full := filepath.Join(dir, ExeFilename)
	if err := i.pipeline.SetVariable(ToolPathVariable, full); err != nil {
		return "", err
	}
	return full, nil
}

// ensureCached downloads info into the cache unless that exact version is
// already present.
func (i *Installer) ensureCached(ctx context.Context, info dist.ToolVersionInfo) error {
	_, hit, err := i.cache.Find(ToolName, info.Version)
	if err != nil {
		return fmt.Errorf(messages.InstallerLookupCacheFmt, ToolName, info.Version, err)
	}
	if hit {
		return nil
	}

	_, _ = fmt.Fprintf(i.out, messages.InstallerDownloadingFmt, info.Version)
	i.logger.Debug("downloading", "version", info.Version, "url", info.URL)
	tmp, err := i.downloader.Download(ctx, info.URL)
	if err != nil {
		return fmt.Errorf(messages.InstallerDownloadFmt, ToolName, info.Version, err)
	}
	defer func() {
		if err := osRemove(tmp); err != nil {
			i.logger.Debug("remove downloaded file", "path", tmp, "error", err)
		}
	}()

	i.logger.Debug("caching file", "path", tmp)
	if _, err := i.cache.Store(tmp, ExeFilename, ToolName, info.Version); err != nil {
		return fmt.Errorf(messages.InstallerStoreFmt, ToolName, info.Version, err)
	}
	return nil
}

// FetchBestReleasedVersion fetches the manifest and returns the highest
// non-preview entry matching spec. Failures are fatal to the caller.
func (i *Installer) FetchBestReleasedVersion(ctx context.Context, spec string) (dist.ToolVersionInfo, error) {
	i.logger.Debug("querying versions list")
	manifest, err := i.manifest.Fetch(ctx)
	if err != nil {
		return dist.ToolVersionInfo{}, fmt.Errorf(messages.InstallerFailedFmt, ToolName, err)
	}
	info, err := manifest.BestReleased(ToolName, spec)
	if err != nil {
		return dist.ToolVersionInfo{}, fmt.Errorf(messages.InstallerFailedFmt, ToolName, err)
	}
	return info, nil
}
