package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ftahirops/xmon/engine"
)

func (a *app) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Sample once and write the ranked process list to the export file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, closeSrc, err := a.sampleOnce(cmd.Context())
			defer closeSrc()
			if err != nil {
				return err
			}
			res := ctrl.Dispatch(engine.ExportRequested{})
			if res.Err != nil {
				return res.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d processes to %s\n", len(res.Ranked.Ranked), res.ExportPath)
			return nil
		},
	}
}
