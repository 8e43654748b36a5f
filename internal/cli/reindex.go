package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/service"
)

var reindexBatch int

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Push every live product to the search index",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.connectSearch(ctx); err != nil {
			return err
		}
		if a.index == nil {
			return errors.New("ES_URL is not set")
		}

		n, err := a.catalog(service.NopPublisher{}).Reindex(ctx, reindexBatch)
		if err != nil {
			return err
		}
		a.log.Info("reindex_done", "products", n)
		return nil
	},
}

func init() {
	reindexCmd.Flags().IntVar(&reindexBatch, "batch", 200, "products loaded per batch")
	rootCmd.AddCommand(reindexCmd)
}
