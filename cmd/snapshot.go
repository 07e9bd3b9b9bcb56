package cmd

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func (a *app) newSnapshotCmd() *cobra.Command {
	var top int
	c := &cobra.Command{
		Use:   "snapshot",
		Short: "Print one ranked snapshot as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, closeSrc, err := a.sampleOnce(cmd.Context())
			defer closeSrc()
			if err != nil {
				return err
			}
			cur := *ctrl.Current()
			cur.Ranked = cur.Top(top)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cur)
		},
	}
	c.Flags().IntVar(&top, "limit", 0, "Only include the first N ranked processes (0 = all)")
	return c
}
