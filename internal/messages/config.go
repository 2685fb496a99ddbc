package messages

// Config messages for configuration loading.
const (
	ConfigReadFileFmt          = "read config %s: %w"
	ConfigMergeFileFmt         = "merge config %s: %w"
	ConfigUnmarshalFmt         = "decode config: %w"
	ConfigExpandPathFmt        = "expand %s %q: %w"
	ConfigResolveCacheDirFmt   = "resolve user cache dir: %w"
	ConfigResolveExecutableFmt = "resolve executable path: %w"
	ConfigInvalidValueFmt      = "invalid %s: %s"
	ConfigMarshalFmt           = "encode config: %w"
	ConfigMustBePositive       = "must be greater than zero"
	ConfigMustNotBeNegative    = "must not be negative"
	ConfigMustBeAbsoluteURL    = "must be an absolute http(s) url"
	ConfigMustNotBeEmpty       = "must not be empty"
)
