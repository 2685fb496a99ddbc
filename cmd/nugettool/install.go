package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/nuget-tool-installer/internal/installer"
	"github.com/conn-castle/nuget-tool-installer/internal/messages"
)

func newInstallCmd() *cobra.Command {
	var (
		req    installer.Request
		noSeed bool
	)
	cmd := &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if !noSeed {
				if err := a.installer.EnsureDefaultCached(cmd.Context()); err != nil {
					return err
				}
			}
			path, err := a.installer.Resolve(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.InstallResultFmt, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.VersionSpec, "version-spec", installer.DefaultVersion, messages.InstallFlagVersionSpec)
	cmd.Flags().BoolVar(&req.CheckLatest, "check-latest", false, messages.InstallFlagCheckLatest)
	cmd.Flags().BoolVar(&req.AddToPath, "add-to-path", false, messages.InstallFlagAddToPath)
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, messages.InstallFlagNoSeed)
	return cmd
}
