package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/docsorter/docsorter/internal/filing"
)

var fileOverrides filing.Overrides

var fileCmd = &cobra.Command{
	Use:   "file <doc-id>",
	Short: "Confirm an analyzed document and move it to its destination",
	Long: `Files one analyzed document into <filing-root>/<Vendor>/<DocType>/ with
the canonical filename. Flags override extracted fields before routing,
which is how reviewer corrections are applied.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docID, err := uuid.Parse(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		dst, err := a.filer.File(cmd.Context(), docID, fileOverrides)
		if err != nil {
			return err
		}
		cmd.Println(dst)
		return nil
	},
}

func init() {
	fileCmd.Flags().StringVar(&fileOverrides.Vendor, "vendor", "", "override the extracted vendor")
	fileCmd.Flags().StringVar(&fileOverrides.DocType, "type", "", "override the extracted document type")
	fileCmd.Flags().StringVar(&fileOverrides.Date, "date", "", "override the extracted date (YYYY.MM.DD)")
	fileCmd.Flags().StringVar(&fileOverrides.PONumber, "po", "", "override the extracted PO number")
	fileCmd.Flags().StringVar(&fileOverrides.Actor, "actor", "", "who confirmed this filing (recorded in the audit log)")
	rootCmd.AddCommand(fileCmd)
}
