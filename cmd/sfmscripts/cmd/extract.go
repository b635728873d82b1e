package cmd

import (
	"fmt"

	"github.com/blakearchive/sfmscripts/internal/extract"
	"github.com/spf13/cobra"
)

var (
	extractXMLDir  string
	extractTextDir string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract transcriptions from archive XML",
	Long: `Extract normalized plain-text transcriptions from the archive's XML
files. Each object (plate/page) in each XML file is written to
{desc_id}.txt, ready for loading into the similarity service.

Examples:
  sfmscripts extract --xml-dir works/xml --text-dir works/text`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractXMLDir, "xml-dir", "", "directory of archive XML files (default from config)")
	extractCmd.Flags().StringVar(&extractTextDir, "text-dir", "", "directory for transcription output (default from config)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	xmlDir := extractXMLDir
	if xmlDir == "" {
		xmlDir = cfg.Extract.XMLDir
	}
	textDir := extractTextDir
	if textDir == "" {
		textDir = cfg.Extract.TextDir
	}

	fmt.Printf("Extracting transcriptions from %s to %s\n", xmlDir, textDir)

	written, err := extract.ExtractDir(xmlDir, textDir)
	if err != nil {
		return err
	}

	fmt.Printf("Total: %d transcriptions written\n", written)
	return nil
}
