package messages

// CLI messages for user-facing commands.
const (
	// RootUse is the CLI command name.
	RootUse   = "nugettool"
	RootShort = "Resolve, download, and cache nuget.exe for pipeline tasks"
	RootLong  = "nugettool resolves a NuGet version specifier against the local tool cache and\nhttps://dist.nuget.org/tools.json, caches the matching nuget.exe, and publishes\nits location to the pipeline as NuGetExeToolPath."

	RootFlagConfig        = "Path to a TOML config file"
	RootFlagCacheDir      = "Tool cache directory (overrides config and AGENT_TOOLSDIRECTORY)"
	RootFlagVariablesFile = "KEY=VALUE file with pipeline variables (e.g. FORCE_NUGET_4_0_0)"
	RootFlagBundleRoot    = "Directory containing the bundled NuGet/<version>/ folders"
	RootFlagLogLevel      = "Log level (debug, info, warn, error)"
	RootFlagLogFormat     = "Log format (text, json)"

	LogLevelInvalidFmt  = "invalid log level %q (supported: debug, info, warn, error)"
	LogFormatInvalidFmt = "invalid log format %q (supported: text, json)"
	WarningLineFmt      = "warning: %s\n"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// InstallUse is the install command name.
	InstallUse             = "install"
	InstallShort           = "Resolve and cache a NuGet version, then publish NuGetExeToolPath"
	InstallFlagVersionSpec = "NuGet version or version query (e.g. 4.1.0, 4.x, >=4.3 <5)"
	InstallFlagCheckLatest = "Query dist.nuget.org even when a cached version satisfies a version query"
	InstallFlagAddToPath   = "Prepend the resolved tool directory to PATH"
	InstallFlagNoSeed      = "Skip placing the bundled default nuget.exe in the tool cache"
	InstallResultFmt       = "%s\n"

	// SeedUse is the seed command name.
	SeedUse     = "seed"
	SeedShort   = "Place the bundled default nuget.exe in the tool cache"
	SeedDoneFmt = "Bundled NuGet %s is cached\n"

	// VersionsUse is the versions command name.
	VersionsUse          = "versions"
	VersionsShort        = "List NuGet versions published on dist.nuget.org"
	VersionsFlagSpec     = "Highlight the best released match for this specifier"
	VersionsFlagAll      = "Include early access preview versions"
	VersionsFlagJSON     = "Output as JSON"
	VersionsLineFmt      = "%s\t%s%s\n"
	VersionsBestMatchFmt = "Best match for %q: %s\n"
	VersionsBestMarker   = "\t<= best match"
	VersionsEncodeFmt    = "encode versions: %w"

	// CacheUse is the cache command name.
	CacheUse         = "cache"
	CacheShort       = "Inspect the local tool cache"
	CacheListUse     = "list"
	CacheListShort   = "List cached NuGet versions"
	CacheListLineFmt = "%s\t%s\n"
	CacheListEmpty   = "No cached NuGet versions\n"

	// ConfigUse is the config command name.
	ConfigUse       = "config"
	ConfigShort     = "Inspect configuration"
	ConfigShowUse   = "show"
	ConfigShowShort = "Print the effective configuration as TOML"
)
