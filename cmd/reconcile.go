package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sentinelsec/geomodel/internal/event"
	"github.com/sentinelsec/geomodel/internal/reconciler"
)

var reconcileFile string

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile authentication events into locality ledgers",
	Long:  "Reads newline-delimited event JSON from a file (or stdin with -) and runs each event through the locality reconciliation cycle.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		in := cmd.InOrStdin()
		if reconcileFile != "" && reconcileFile != "-" {
			f, err := os.Open(reconcileFile)
			if err != nil {
				return eris.Wrapf(err, "open %s", reconcileFile)
			}
			defer f.Close()
			in = f
		}

		rec := reconciler.New(s, s, reconcilerConfig(), zap.L())
		processed, skipped, err := processEvents(cmd.Context(), rec, in)
		if err != nil {
			return err
		}

		zap.L().Info("reconciliation finished",
			zap.Int("processed", processed),
			zap.Int("skipped", skipped),
		)
		return nil
	},
}

// processEvents feeds newline-delimited event JSON through the
// reconciler, returning how many events were applied and how many were
// skipped for missing username or location data.
func processEvents(ctx context.Context, rec *reconciler.Reconciler, in io.Reader) (processed, skipped int, err error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var evt event.Event
		if err := json.Unmarshal([]byte(line), &evt); err != nil {
			return processed, skipped, eris.Wrap(err, "decode event")
		}

		res, err := rec.Process(ctx, evt)
		if err != nil {
			return processed, skipped, err
		}
		if res == nil {
			skipped++
			continue
		}
		processed++
	}

	return processed, skipped, eris.Wrap(scanner.Err(), "read events")
}

func init() {
	reconcileCmd.Flags().StringVarP(&reconcileFile, "file", "f", "-", "event file (newline-delimited JSON, - for stdin)")
	rootCmd.AddCommand(reconcileCmd)
}
