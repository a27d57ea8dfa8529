package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sentinelsec/geomodel/internal/reconciler"
)

var pruneCmd = &cobra.Command{
	Use:   "prune <username>",
	Short: "Evict localities outside the retention window for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		rec := reconciler.New(s, s, reconcilerConfig(), zap.L())
		res, err := rec.Prune(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		switch {
		case res == nil:
			fmt.Fprintf(cmd.OutOrStdout(), "no locality state for %s\n", args[0])
		case res.Persisted:
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %s: %d localities remain\n", args[0], res.Localities)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "nothing to prune for %s\n", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}
