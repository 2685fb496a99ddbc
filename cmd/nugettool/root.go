package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/nuget-tool-installer/internal/config"
	"github.com/conn-castle/nuget-tool-installer/internal/dist"
	"github.com/conn-castle/nuget-tool-installer/internal/download"
	"github.com/conn-castle/nuget-tool-installer/internal/installer"
	"github.com/conn-castle/nuget-tool-installer/internal/messages"
	"github.com/conn-castle/nuget-tool-installer/internal/pipeline"
	"github.com/conn-castle/nuget-tool-installer/internal/terminal"
	"github.com/conn-castle/nuget-tool-installer/internal/toolcache"
)

const (
	flagConfig        = "config"
	flagCacheDir      = "cache-dir"
	flagVariablesFile = "variables-file"
	flagBundleRoot    = "bundle-root"
	flagLogLevel      = "loglevel"
	flagLogFormat     = "logformat"
)

var isInteractive = terminal.IsInteractive

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !isInteractive() {
				color.NoColor = true
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.String(flagConfig, "", messages.RootFlagConfig)
	flags.String(flagCacheDir, "", messages.RootFlagCacheDir)
	flags.String(flagVariablesFile, "", messages.RootFlagVariablesFile)
	flags.String(flagBundleRoot, "", messages.RootFlagBundleRoot)
	flags.String(flagLogLevel, "warn", messages.RootFlagLogLevel)
	flags.StringP(flagLogFormat, "f", "text", messages.RootFlagLogFormat)

	cmd.AddCommand(
		newInstallCmd(),
		newSeedCmd(),
		newVersionsCmd(),
		newCacheCmd(),
		newConfigCmd(),
	)
	return cmd
}

// app holds the collaborators a command needs, built from flags and config.
type app struct {
	cache     *toolcache.Cache
	manifest  *dist.Client
	installer *installer.Installer
}

// loadConfig resolves configuration with flag overrides applied.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	overrides := map[string]any{}
	for flag, key := range map[string]string{
		flagCacheDir:      config.KeyCacheDir,
		flagVariablesFile: config.KeyVariablesFile,
		flagBundleRoot:    config.KeyBundleRoot,
	} {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}
	configFile, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, err
	}
	return config.Load(config.Options{ConfigFile: configFile, Overrides: overrides})
}

// newApp wires config, logging, the pipeline context, and the installer.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	vars, err := pipeline.LoadVariablesFile(cfg.VariablesFile)
	if err != nil {
		return nil, err
	}
	agent := pipeline.NewAgent(cmd.OutOrStdout(), vars)
	var pipe pipeline.Context = &consoleWarnings{Context: agent, out: cmd.ErrOrStderr()}
	pipe = pipeline.WithEnvFile(pipe, cfg.PublishEnvFile)

	logger, err := newLogger(cmd, cmd.ErrOrStderr(), pipeline.IsTrue(pipeline.BoolVariable(pipe, pipeline.DebugVariable)))
	if err != nil {
		return nil, err
	}

	cache, err := toolcache.New(cfg.CacheDir, toolcache.WithArch(cfg.Arch), toolcache.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	manifest := dist.NewClient(
		dist.WithURL(cfg.ManifestURL),
		dist.WithTimeout(cfg.ManifestTimeout),
		dist.WithLogger(logger),
	)
	downloader := download.New(download.Options{
		Timeout:  cfg.DownloadTimeout,
		Retries:  cfg.DownloadRetries,
		MaxBytes: cfg.MaxDownloadBytes,
		Logger:   logger,
	})

	inst, err := installer.New(installer.Config{
		Cache:      cache,
		Manifest:   manifest,
		Downloader: downloader,
		Pipeline:   pipe,
		BundleRoot: cfg.BundleRoot,
		Out:        cmd.OutOrStdout(),
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cache:     cache,
		manifest:  manifest,
		installer: inst,
	}, nil
}

// newLogger builds the slog handler selected by --loglevel and --logformat.
// forceDebug overrides the level.
func newLogger(cmd *cobra.Command, out io.Writer, forceDebug bool) (*slog.Logger, error) {
	levelName, err := cmd.Flags().GetString(flagLogLevel)
	if err != nil {
		return nil, err
	}
	var level slog.Level
	switch strings.ToLower(strings.TrimSpace(levelName)) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf(messages.LogLevelInvalidFmt, levelName)
	}
	if forceDebug {
		level = slog.LevelDebug
	}

	format, err := cmd.Flags().GetString(flagLogFormat)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		handler = slog.NewJSONHandler(out, opts)
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		return nil, fmt.Errorf(messages.LogFormatInvalidFmt, format)
	}
	return slog.New(handler), nil
}

// consoleWarnings echoes pipeline warnings to the terminal in color.
type consoleWarnings struct {
	pipeline.Context
	out io.Writer
}

func (c *consoleWarnings) Warning(msg string) {
	c.Context.Warning(msg)
	_, _ = fmt.Fprint(c.out, color.YellowString(messages.WarningLineFmt, msg))
}
