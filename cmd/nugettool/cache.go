package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/conn-castle/nuget-tool-installer/internal/installer"
	"github.com/conn-castle/nuget-tool-installer/internal/messages"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.CacheUse,
		Short: messages.CacheShort,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   messages.CacheListUse,
		Short: messages.CacheListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			versions, err := a.cache.Versions(installer.ToolName)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(versions) == 0 {
				_, _ = fmt.Fprint(out, messages.CacheListEmpty)
				return nil
			}
			for _, v := range versions {
				dir, ok, err := a.cache.Find(installer.ToolName, v)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				_, _ = fmt.Fprintf(out, messages.CacheListLineFmt, v, filepath.Join(dir, installer.ExeFilename))
			}
			return nil
		},
	})
	return cmd
}
