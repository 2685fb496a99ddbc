package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/nuget-tool-installer/internal/messages"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.SeedUse,
		Short: messages.SeedShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if err := a.installer.EnsureDefaultCached(cmd.Context()); err != nil {
				return err
			}
			target, _ := a.installer.DefaultTarget()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.SeedDoneFmt, target)
			return nil
		},
	}
}
