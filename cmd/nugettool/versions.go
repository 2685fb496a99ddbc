package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/nuget-tool-installer/internal/dist"
	"github.com/conn-castle/nuget-tool-installer/internal/installer"
	"github.com/conn-castle/nuget-tool-installer/internal/messages"
)

func newVersionsCmd() *cobra.Command {
	var (
		spec    string
		all     bool
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   messages.VersionsUse,
		Short: messages.VersionsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			manifest, err := a.manifest.Fetch(cmd.Context())
			if err != nil {
				return err
			}

			var best dist.ToolVersionInfo
			if spec != "" {
				best, err = manifest.BestReleased(installer.ToolName, spec)
				if err != nil {
					return err
				}
			}

			listed := manifest
			if !all {
				listed = manifest.Released()
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(listed); err != nil {
					return fmt.Errorf(messages.VersionsEncodeFmt, err)
				}
				return nil
			}
			for _, entry := range listed {
				marker := ""
				if spec != "" && entry.Version == best.Version {
					marker = messages.VersionsBestMarker
				}
				_, _ = fmt.Fprintf(out, messages.VersionsLineFmt, entry.Version, entry.StageLabel(), marker)
			}
			if spec != "" {
				_, _ = fmt.Fprintf(out, messages.VersionsBestMatchFmt, spec, best.Version)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&spec, "spec", "", messages.VersionsFlagSpec)
	cmd.Flags().BoolVar(&all, "all", false, messages.VersionsFlagAll)
	cmd.Flags().BoolVar(&jsonOut, "json", false, messages.VersionsFlagJSON)
	return cmd
}
