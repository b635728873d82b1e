package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/blakearchive/sfmscripts/internal/export"
	"github.com/blakearchive/sfmscripts/internal/matrix"
	"github.com/spf13/cobra"
)

var (
	exportOut       string
	exportRelations string
	exportLimit     int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export match fragments to CSV",
	Long: `Export every match fragment in the similarity service as CSV rows of
(primary_desc_id, matching_desc_id, fragment_text), written in both
orientations. Matches between documents of the same matrix are dropped when
a relation file is available.

Examples:
  # Export everything, excluding same-matrix matches
  sfmscripts export --relations blake-relations.csv

  # Export the first 50 documents to a specific file
  sfmscripts export --out overlap.csv --limit 50`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportOut, "out", "", "output CSV path (default from config)")
	exportCmd.Flags().StringVar(&exportRelations, "relations", "", "matrix relation CSV (default from config)")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "stop after N documents (0 = all)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	out := exportOut
	if out == "" {
		out = cfg.Export.Output
	}
	relations := exportRelations
	if relations == "" {
		relations = cfg.Export.Relations
	}

	// Load the exclusion index before touching the network: a malformed
	// relation file is a hard error, a missing one falls open to exporting
	// every match.
	var index *matrix.Index
	if relations == "" {
		fmt.Println("No matrix relation file configured. Not excluding same-matrix matches.")
	} else {
		loaded, err := matrix.Load(relations)
		switch {
		case errors.Is(err, os.ErrNotExist):
			fmt.Printf("Matrix relation file %s not found. Not excluding same-matrix matches.\n", relations)
		case err != nil:
			return err
		default:
			index = loaded
			slog.Debug("matrix index loaded", "path", relations, "matrices", index.Len())
		}
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Exporting match fragments to: %s\n", out)

	exporter := export.New(client, index, export.Config{
		MaxDocuments: exportLimit,
		ShowProgress: true,
	})
	result, err := exporter.RunFile(ctx, out)
	if err != nil {
		return fmt.Errorf("export aborted (rows flushed so far are kept in %s): %w", out, err)
	}

	fmt.Printf("\nTotal: %d documents, %d matches (%d excluded), %d rows in %v\n",
		result.Documents, result.Matches, result.Skipped, result.Rows, result.Duration)

	return nil
}
