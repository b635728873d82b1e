// Package export drives the match export flow: walk every document in the
// similarity service, walk each document's matches, drop matches between
// same-matrix documents, and write the surviving fragments as CSV rows.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/blakearchive/sfmscripts/internal/matrix"
	"github.com/blakearchive/sfmscripts/internal/similarity"
)

// Config holds export pipeline configuration.
type Config struct {
	MaxDocuments int  // stop after this many documents, 0 = all
	ShowProgress bool // render a progress spinner on stderr
}

// Result holds export execution results.
type Result struct {
	Documents int // documents walked
	Matches   int // matches seen
	Skipped   int // matches dropped by the matrix index
	Rows      int // CSV rows written (two per fragment)
	Duration  time.Duration
}

// Exporter writes the service's match results to a CSV sink. The matrix
// index is an explicit dependency: nil means no exclusions are configured
// and every match is exported.
type Exporter struct {
	client *similarity.Client
	index  *matrix.Index
	config Config
}

// New creates a new Exporter.
func New(client *similarity.Client, index *matrix.Index, config Config) *Exporter {
	return &Exporter{
		client: client,
		index:  index,
		config: config,
	}
}

// Run walks the service's documents and writes match fragment rows to w.
// Every fragment of an included match produces two rows, (primary, matching,
// text) and (matching, primary, text), so downstream consumers can look up
// overlaps from either document's perspective. Rows are flushed per document;
// on error the rows already flushed are left intact.
func (e *Exporter) Run(ctx context.Context, w io.Writer) (*Result, error) {
	start := time.Now()
	result := &Result{}
	writer := csv.NewWriter(w)

	var bar *progressbar.ProgressBar
	if e.config.ShowProgress {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("exporting matches"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSpinnerType(14),
		)
		defer bar.Finish()
	}

	docs := e.client.Documents(ctx)
	for e.config.MaxDocuments == 0 || result.Documents < e.config.MaxDocuments {
		doc, ok, err := docs.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		result.Documents++

		slog.Debug("exporting document",
			"desc_id", doc.DescID(), "doctype", doc.Doctype, "docid", doc.Docid)

		if err := e.exportDocument(ctx, doc, writer, result); err != nil {
			return nil, err
		}

		writer.Flush()
		if err := writer.Error(); err != nil {
			return nil, fmt.Errorf("write csv: %w", err)
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// RunFile runs the export against a CSV file. The file is created up front
// and closed on every exit path; a failed run leaves the rows flushed so far
// rather than rolling back.
func (e *Exporter) RunFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	result, runErr := e.Run(ctx, f)
	if closeErr := f.Close(); closeErr != nil && runErr == nil {
		return nil, fmt.Errorf("close output file: %w", closeErr)
	}
	if runErr != nil {
		return nil, runErr
	}
	return result, nil
}

func (e *Exporter) exportDocument(ctx context.Context, doc *similarity.Document, writer *csv.Writer, result *Result) error {
	matches := doc.Matches(ctx)
	for {
		match, ok, err := matches.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		result.Matches++

		if e.index != nil && e.index.Excluded(match.PrimaryDoc, match.MatchingDoc) {
			slog.Debug("match excluded",
				"primary", match.PrimaryDoc, "matching", match.MatchingDoc)
			result.Skipped++
			continue
		}

		fragments, err := match.Fragments(ctx)
		if err != nil {
			return err
		}
		for _, fragment := range fragments {
			text := cleanFragmentText(fragment.Text)
			if err := writer.Write([]string{match.PrimaryDoc, match.MatchingDoc, text}); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
			if err := writer.Write([]string{match.MatchingDoc, match.PrimaryDoc, text}); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
			result.Rows += 2
		}
	}
}

// cleanFragmentText rewrites newlines so a fragment stays on one CSV line
// for consumers that do not handle quoted multi-line fields.
func cleanFragmentText(text string) string {
	return strings.ReplaceAll(text, "\n", "<br>")
}
