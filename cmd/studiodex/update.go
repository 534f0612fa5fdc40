package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/studiodex/internal/domain"
)

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <studio-id>...",
		Short: "Refresh studios in the live index",
		Long: `Reloads the given studios from the catalog and writes them to the live index
with a single update call. IDs missing from the catalog are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(ctx context.Context, a *app) error {
				ok, err := a.attach(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return domain.ErrIndexNotBuilt
				}
				n, err := a.indexer.UpdateByID(ctx, args)
				if err != nil {
					return err
				}
				cmd.Printf("Updated %d of %d studios\n", n, len(args))
				return nil
			})
		},
	}
}
