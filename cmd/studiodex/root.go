package main

import (
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/studiodex/internal/config"
)

// rootOptions are flags shared by every command.
type rootOptions struct {
	env       string
	logLevel  string
	sliceSize int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "studiodex",
		Short: "Index the studio catalog into a search engine and query it",
		Long: `studiodex projects catalog studios into search documents, builds the
studio index in bounded slices and answers structured studio queries.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.env, "env", config.GetEnv(), "configuration environment (config/<env>.yaml)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level override: debug, info, warn, error")
	pf.IntVar(&opts.sliceSize, "index-slice-size", 0, "documents per index call during builds (0 = config)")

	cmd.AddCommand(
		newBuildCmd(opts),
		newSearchCmd(opts),
		newUpdateCmd(opts),
		newServeCmd(opts),
		newWorkerCmd(opts),
		newVersionCmd(),
	)
	return cmd
}
