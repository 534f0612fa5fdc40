package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newBuildCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Rebuild the studio index from the catalog",
		Long: `Builds a fresh index generation from every catalog studio in bounded slices,
then promotes it under the index alias. A failed build leaves the live index untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(ctx context.Context, a *app) error {
				n, err := a.indexer.Build(ctx)
				if err != nil {
					return err
				}
				cmd.Printf("Indexed %d studios into %s\n", n, a.indexer.Alias())
				return nil
			})
		},
	}
}
