package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sentinelsec/geomodel/internal/geomodel"
)

var showCmd = &cobra.Command{
	Use:   "show <username>",
	Short: "Print a user's recorded locality ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		entry, err := geomodel.Find(cmd.Context(), s, args[0], cfg.Locality.Index)
		if err != nil {
			return err
		}
		if entry == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "no locality state for %s\n", args[0])
			return nil
		}

		doc, err := geomodel.EncodeState(entry.State)
		if err != nil {
			return err
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, doc, "", "  "); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
