package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path> [path...]",
	Short: "Ingest and analyze files or directories",
	Long: `Stages each path (recursing into directories), runs recognition and
field extraction, and prints the result per document. Already-seen files
(same content hash) are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		var failures int
		for _, path := range args {
			info, err := os.Stat(path)
			if err != nil {
				cmd.PrintErrf("skip %s: %v\n", path, err)
				failures++
				continue
			}

			var results []uuid.UUID
			if info.IsDir() {
				ingested, stats, err := a.ing.IngestDirectory(ctx, path, true)
				if err != nil {
					return err
				}
				cmd.Printf("%s: %d matched, %d staged, %d deduplicated, %d failed\n",
					path, stats.Matched, stats.Succeeded, stats.Deduplicated, stats.Failed)
				for _, r := range ingested {
					if r.Err == "" && !r.Deduplicated {
						results = append(results, r.DocumentID)
					}
				}
			} else {
				r, err := a.ing.IngestPath(ctx, path)
				if err != nil {
					cmd.PrintErrf("skip %s: %v\n", path, err)
					failures++
					continue
				}
				if r.Deduplicated {
					cmd.Printf("%s: already known (doc %s)\n", path, r.DocumentID)
					continue
				}
				results = append(results, r.DocumentID)
			}

			for _, docID := range results {
				if err := a.proc.ProcessFile(ctx, docID); err != nil {
					cmd.PrintErrf("process %s: %v\n", docID, err)
					failures++
					continue
				}
				if err := printResult(cmd, a, docID); err != nil {
					return err
				}
			}
		}

		if failures > 0 {
			return fmt.Errorf("%d file(s) failed", failures)
		}
		return nil
	},
}

func printResult(cmd *cobra.Command, a *app, docID uuid.UUID) error {
	doc, err := a.docs.GetByID(cmd.Context(), docID)
	if err != nil {
		return err
	}
	if analyzeJSON {
		var pretty map[string]any
		if err := json.Unmarshal([]byte(doc.ResultJSON), &pretty); err == nil {
			delete(pretty, "raw_text")
			out, _ := json.MarshalIndent(pretty, "", "  ")
			cmd.Printf("%s %s\n%s\n", doc.ID, doc.Filename, out)
			return nil
		}
	}
	cmd.Printf("%s %s status=%s needs_review=%v\n", doc.ID, doc.Filename, doc.Status, doc.NeedsReview)
	return nil
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full extraction result as JSON")
	rootCmd.AddCommand(analyzeCmd)
}
