package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/docsorter/docsorter/constants"
	"github.com/docsorter/docsorter/internal/export"
)

var (
	exportOut       string
	exportFiledOnly bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an XLSX register of processed documents",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		var status *constants.DocStatus
		if exportFiledOnly {
			filed := constants.DocStatusFiled
			status = &filed
		}

		svc := export.NewService(a.docs, a.logger)
		out, err := svc.ExportRegisterXLSX(cmd.Context(), status)
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportOut, out, 0o644); err != nil {
			return err
		}
		cmd.Println(exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "register.xlsx", "output path")
	exportCmd.Flags().BoolVar(&exportFiledOnly, "filed-only", false, "include only filed documents")
	rootCmd.AddCommand(exportCmd)
}
