package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
)

var documentSave string

var documentCmd = &cobra.Command{
	Use:   "document <doctype> <docid>",
	Short: "Fetch a single document from the service",
	Long: `Fetch one document by its service-assigned (doctype, docid) pair and
print its identifiers. Note that the pair is not durable: it changes when
documents are removed and reloaded. Use --save to keep the raw payload for
offline use.

Examples:
  sfmscripts document 1 89
  sfmscripts document 1 89 --save vda.h.illbk.07.json`,
	Args: cobra.ExactArgs(2),
	RunE: runDocument,
}

func init() {
	rootCmd.AddCommand(documentCmd)

	documentCmd.Flags().StringVar(&documentSave, "save", "", "save the raw document JSON to this file")
}

func runDocument(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	doctype, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("doctype must be numeric: %q", args[0])
	}
	docid, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("docid must be numeric: %q", args[1])
	}

	cfg := GetConfig()
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	doc, err := client.Document(ctx, doctype, docid)
	if err != nil {
		return err
	}

	fmt.Printf("Title:   %s\n", doc.Title)
	fmt.Printf("DescID:  %s\n", doc.DescID())
	fmt.Printf("Doctype: %d\n", doc.Doctype)
	fmt.Printf("Docid:   %d\n", doc.Docid)

	if documentSave != "" {
		if err := doc.SaveJSON(ctx, documentSave); err != nil {
			return err
		}
		fmt.Printf("Saved payload to %s\n", documentSave)
	}
	return nil
}
