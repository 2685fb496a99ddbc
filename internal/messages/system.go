package messages

// System messages for internal operations.
const (
	// VersionSpecRequired indicates an empty version specifier.
	VersionSpecRequired         = "version specifier is required"
	VersionInvalidConstraintFmt = "invalid version specifier %q: %w"

	// DistCreateRequestFmt formats manifest request construction errors.
	DistCreateRequestFmt     = "create request for %s: %w"
	DistUnreachableFmt       = "unable to reach %s: %v"
	DistUnreachableCodeFmt   = "unable to reach %s (code: %s): %v"
	DistUnexpectedStatusFmt  = "unexpected status %s"
	DistDecodeFmt            = "decode manifest %s: %w"
	DistMissingToolKeyFmt    = "manifest %s has no %q entry"
	DistNoMatchFmt           = "no released version of %s matches %q; available versions: %s"
	DistNoAvailableVersions  = "(none)"
	DistAvailableVersionsSep = "; "

	// InstallerCacheRequired indicates the installer was built without a tool cache.
	InstallerCacheRequired      = "tool cache is required"
	InstallerManifestRequired   = "manifest source is required"
	InstallerDownloaderRequired = "downloader is required"
	InstallerPipelineRequired   = "pipeline context is required"

	InstallerMissingDownloadURL        = "no download url was found for the matched version"
	InstallerMissingDownloadURLFmt     = "NuGet %s: %w"
	InstallerFailedFmt                 = "failed to install %s: %w"
	InstallerLookupCacheFmt            = "look up %s %s in the tool cache: %w"
	InstallerListCacheFmt              = "list cached %s versions: %w"
	InstallerCachedEntryMissingFmt     = "%s %s is not in the tool cache after install"
	InstallerDownloadFmt               = "download %s %s: %w"
	InstallerStoreFmt                  = "cache %s %s: %w"
	InstallerSeedLocateFmt             = "locate bundled %s %s: %w"
	InstallerSeedStoreFmt              = "cache bundled %s %s: %w"
	InstallerUpdatingVersionWarningFmt = "Found %s %s on the distribution server, which replaces the matching cached version %s"

	InstallerQueryNotice          = "A version query was requested; the resolved NuGet version can change as new releases are published. Pin an exact version for reproducible builds.\n"
	InstallerResolvedFromCacheFmt = "Resolved NuGet %s from the tool cache\n"
	InstallerDownloadingFmt       = "Downloading NuGet %s...\n"
	InstallerUsingVersionFmt      = "Using NuGet version %s\n"
	InstallerUsingToolPathFmt     = "Prepending %s to PATH\n"
	InstallerSeedingFmt           = "Placing bundled NuGet.exe %s in the tool cache\n"

	// ToolcacheToolRequired indicates an empty tool name.
	ToolcacheToolRequired      = "tool name is required"
	ToolcacheRootRequired      = "tool cache root is required"
	ToolcacheVersionRequired   = "tool version is required"
	ToolcacheFilenameRequired  = "tool filename is required"
	ToolcacheInvalidVersionFmt = "version %q is not an explicit version"
	ToolcacheReadDirFmt        = "read %s: %w"
	ToolcacheCheckPathFmt      = "check %s: %w"
	ToolcacheSourceNotFileFmt  = "cache source %s is not a regular file"
	ToolcacheCreateDirFmt      = "create cache dir %s: %w"
	ToolcacheCreateTempDirFmt  = "create staging dir: %w"
	ToolcacheCopyFileFmt       = "copy %s: %w"
	ToolcacheChmodFmt          = "chmod %s: %w"
	ToolcacheReplaceEntryFmt   = "replace cache entry %s: %w"
	ToolcacheCommitEntryFmt    = "commit cache entry %s: %w"
	ToolcacheWriteMarkerFmt    = "write completion marker %s: %w"
	ToolcacheOpenLockFmt       = "open lock %s: %w"
	ToolcacheLockFmt           = "lock %s: %w"
	ToolcacheLockTimeoutFmt    = "timed out waiting for lock after %s"

	// DownloadURLRequired indicates an empty download URL.
	DownloadURLRequired         = "download url is required"
	DownloadCreateRequestFmt    = "create request for %s: %w"
	DownloadFailedFmt           = "download %s: %w"
	DownloadUnexpectedStatusFmt = "download %s: unexpected status %s"
	DownloadTooLargeFmt         = "download %s: response too large (%d bytes > limit %d bytes)"
	DownloadCreateTempDirFmt    = "create download dir: %w"
	DownloadCreateTempFileFmt   = "create temp file: %w"
	DownloadWriteTempFileFmt    = "write temp file: %w"
	DownloadCloseTempFileFmt    = "close temp file: %w"
	DownloadTimeoutFmt          = "download %s: request timed out\n\nRemediation:\n  - Check your internet connection\n  - If behind a proxy, ensure HTTP_PROXY/HTTPS_PROXY are set\n  - Retry the task"

	// LocateRootRequired indicates the bundle root is missing.
	LocateRootRequired      = "bundle root is required"
	LocateFilenamesRequired = "at least one candidate filename is required"
	LocateCheckPathFmt      = "check %s: %w"
	LocateNotFoundFmt       = "unable to locate %s; searched: %s"

	// PipelineVariableNameRequired indicates an empty variable name.
	PipelineVariableNameRequired = "variable name is required"
	PipelineDirRequired          = "directory is required"
	PipelineSetEnvFmt            = "set %s: %w"
	PipelineReadEnvFileFmt       = "read env file %s: %w"
	PipelineWriteEnvFileFmt      = "write env file %s: %w"
	PipelineParseEnvFileFmt      = "parse env file %s: %w"
	PipelineReadVariablesFileFmt = "read variables file %s: %w"
	PipelineParseVariablesFmt    = "parse variables file %s: %w"

	// EnvfileLineErrorFmt formats envfile line errors.
	EnvfileLineErrorFmt            = "line %d: %w"
	EnvfileReadFailedFmt           = "failed to read env content: %w"
	EnvfileExpectedKeyValue        = "expected KEY=VALUE"
	EnvfileUnterminatedQuotedValue = "unterminated quoted value"
	EnvfileInvalidQuotedSuffix     = "invalid trailing characters after quoted value"
)
