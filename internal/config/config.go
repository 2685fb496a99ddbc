// Package config resolves nugettool settings from defaults, TOML files,
// NUGETTOOL_* environment variables, and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/conn-castle/nuget-tool-installer/internal/dist"
	"github.com/conn-castle/nuget-tool-installer/internal/messages"
)

// Keys accepted in config files, as NUGETTOOL_<KEY> environment variables,
// and as Options.Overrides entries.
const (
	KeyCacheDir         = "cache_dir"
	KeyManifestURL      = "manifest_url"
	KeyBundleRoot       = "bundle_root"
	KeyArch             = "arch"
	KeyManifestTimeout  = "manifest_timeout"
	KeyDownloadTimeout  = "download_timeout"
	KeyDownloadRetries  = "download_retries"
	KeyMaxDownloadBytes = "max_download_bytes"
	KeyPublishEnvFile   = "publish_env_file"
	KeyVariablesFile    = "variables_file"
)

const (
	// EnvPrefix namespaces environment overrides.
	EnvPrefix = "NUGETTOOL"
	// ToolsDirectoryEnv is the agent-provided tool cache root.
	ToolsDirectoryEnv = "AGENT_TOOLSDIRECTORY"
	// GlobalFile is the per-user config file.
	GlobalFile = "~/.config/nugettool/config.toml"
)

// Defaults for settings without a computed default.
const (
	DefaultManifestTimeout  = 10 * time.Second
	DefaultDownloadTimeout  = 5 * time.Minute
	DefaultDownloadRetries  = 1
	DefaultMaxDownloadBytes = int64(100 << 20)
)

var (
	osExecutable   = os.Executable
	osUserCacheDir = os.UserCacheDir
)

// Config is the effective configuration.
type Config struct {
	CacheDir         string        `mapstructure:"cache_dir"`
	ManifestURL      string        `mapstructure:"manifest_url"`
	BundleRoot       string        `mapstructure:"bundle_root"`
	Arch             string        `mapstructure:"arch"`
	ManifestTimeout  time.Duration `mapstructure:"manifest_timeout"`
	DownloadTimeout  time.Duration `mapstructure:"download_timeout"`
	DownloadRetries  int           `mapstructure:"download_retries"`
	MaxDownloadBytes int64         `mapstructure:"max_download_bytes"`
	PublishEnvFile   string        `mapstructure:"publish_env_file"`
	VariablesFile    string        `mapstructure:"variables_file"`
}

// Options controls where Load reads from.
type Options struct {
	// ConfigFile is an explicit config file; it must exist when set.
	ConfigFile string
	// GlobalFile overrides GlobalFile. It is skipped when missing.
	GlobalFile string
	// Overrides hold command-line values keyed by the Key* constants.
	Overrides map[string]any
}

// Load resolves the effective configuration. Precedence, lowest first:
// defaults, the global file, ConfigFile, NUGETTOOL_* env, Overrides.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := setDefaults(v); err != nil {
		return nil, err
	}

	globalPath := opts.GlobalFile
	if globalPath == "" {
		globalPath = GlobalFile
	}
	if err := mergeFile(v, globalPath, false); err != nil {
		return nil, err
	}
	if opts.ConfigFile != "" {
		if err := mergeFile(v, opts.ConfigFile, true); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigUnmarshalFmt, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) error {
	cacheDir, err := defaultCacheDir()
	if err != nil {
		return err
	}
	bundleRoot, err := defaultBundleRoot()
	if err != nil {
		return err
	}
	v.SetDefault(KeyCacheDir, cacheDir)
	v.SetDefault(KeyManifestURL, dist.DefaultManifestURL)
	v.SetDefault(KeyBundleRoot, bundleRoot)
	v.SetDefault(KeyArch, runtime.GOARCH)
	v.SetDefault(KeyManifestTimeout, DefaultManifestTimeout)
	v.SetDefault(KeyDownloadTimeout, DefaultDownloadTimeout)
	v.SetDefault(KeyDownloadRetries, DefaultDownloadRetries)
	v.SetDefault(KeyMaxDownloadBytes, DefaultMaxDownloadBytes)
	v.SetDefault(KeyPublishEnvFile, "")
	v.SetDefault(KeyVariablesFile, "")
	return nil
}

// mergeFile merges a TOML file into v. Missing optional files are skipped.
func mergeFile(v *viper.Viper, path string, required bool) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf(messages.ConfigExpandPathFmt, "config file", path, err)
	}
	if _, err := os.Stat(expanded); err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf(messages.ConfigReadFileFmt, expanded, err)
	}
	v.SetConfigFile(expanded)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf(messages.ConfigMergeFileFmt, expanded, err)
	}
	return nil
}

// defaultCacheDir prefers the agent tool cache over the user cache dir.
func defaultCacheDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(ToolsDirectoryEnv)); dir != "" {
		return dir, nil
	}
	base, err := osUserCacheDir()
	if err != nil {
		return "", fmt.Errorf(messages.ConfigResolveCacheDirFmt, err)
	}
	return filepath.Join(base, "nugettool", "tools"), nil
}

// defaultBundleRoot is the parent of the directory holding the executable,
// so a layout of <root>/bin/nugettool finds <root>/NuGet/4.1.0/nuget.exe.
func defaultBundleRoot() (string, error) {
	exe, err := osExecutable()
	if err != nil {
		return "", fmt.Errorf(messages.ConfigResolveExecutableFmt, err)
	}
	return filepath.Dir(filepath.Dir(exe)), nil
}

func (c *Config) normalize() error {
	paths := []struct {
		name string
		ptr  *string
	}{
		{KeyCacheDir, &c.CacheDir},
		{KeyBundleRoot, &c.BundleRoot},
		{KeyPublishEnvFile, &c.PublishEnvFile},
		{KeyVariablesFile, &c.VariablesFile},
	}
	for _, p := range paths {
		trimmed := strings.TrimSpace(*p.ptr)
		if trimmed == "" {
			*p.ptr = ""
			continue
		}
		expanded, err := homedir.Expand(trimmed)
		if err != nil {
			return fmt.Errorf(messages.ConfigExpandPathFmt, p.name, trimmed, err)
		}
		*p.ptr = filepath.Clean(expanded)
	}
	c.ManifestURL = strings.TrimSpace(c.ManifestURL)
	c.Arch = strings.TrimSpace(c.Arch)
	return nil
}

// Validate checks value ranges and formats.
func (c *Config) Validate() error {
	if c.CacheDir == "" {
		return invalid(KeyCacheDir, messages.ConfigMustNotBeEmpty)
	}
	if c.Arch == "" {
		return invalid(KeyArch, messages.ConfigMustNotBeEmpty)
	}
	u, err := url.Parse(c.ManifestURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid(KeyManifestURL, messages.ConfigMustBeAbsoluteURL)
	}
	if c.ManifestTimeout <= 0 {
		return invalid(KeyManifestTimeout, messages.ConfigMustBePositive)
	}
	if c.DownloadTimeout <= 0 {
		return invalid(KeyDownloadTimeout, messages.ConfigMustBePositive)
	}
	if c.DownloadRetries < 0 {
		return invalid(KeyDownloadRetries, messages.ConfigMustNotBeNegative)
	}
	if c.MaxDownloadBytes <= 0 {
		return invalid(KeyMaxDownloadBytes, messages.ConfigMustBePositive)
	}
	return nil
}

func invalid(key, reason string) error {
	return fmt.Errorf(messages.ConfigInvalidValueFmt, key, reason)
}

// fileView is the TOML shape of Config; durations are written as strings so
// the output can be fed back through Load.
type fileView struct {
	CacheDir         string `toml:"cache_dir"`
	ManifestURL      string `toml:"manifest_url"`
	BundleRoot       string `toml:"bundle_root"`
	Arch             string `toml:"arch"`
	ManifestTimeout  string `toml:"manifest_timeout"`
	DownloadTimeout  string `toml:"download_timeout"`
	DownloadRetries  int    `toml:"download_retries"`
	MaxDownloadBytes int64  `toml:"max_download_bytes"`
	PublishEnvFile   string `toml:"publish_env_file,omitempty"`
	VariablesFile    string `toml:"variables_file,omitempty"`
}

// MarshalTOML renders the configuration in config-file form.
func (c *Config) MarshalTOML() ([]byte, error) {
	data, err := toml.Marshal(fileView{
		CacheDir:         c.CacheDir,
		ManifestURL:      c.ManifestURL,
		BundleRoot:       c.BundleRoot,
		Arch:             c.Arch,
		ManifestTimeout:  c.ManifestTimeout.String(),
		DownloadTimeout:  c.DownloadTimeout.String(),
		DownloadRetries:  c.DownloadRetries,
		MaxDownloadBytes: c.MaxDownloadBytes,
		PublishEnvFile:   c.PublishEnvFile,
		VariablesFile:    c.VariablesFile,
	})
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMarshalFmt, err)
	}
	return data, nil
}
