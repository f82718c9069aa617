package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"obracusto/config"
	"obracusto/output"
)

var (
	exportFormat  string
	exportOutput  string
	exportDBPath  string
	exportTarget  string
	exportProject string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored expenses to CSV/Excel",
	Long: `Export the expenses of one project, ordered by due date.

The exported columns start with the import template columns, so an exported file
can be imported again. Output format can be selected explicitly via --format or
inferred from --output extension.`,
	Example: `
  # Export the configured project from the local ledger
  obracusto export --output ./despesas.csv

  # Export another project to Excel
  obracusto export --project obra-002 --output ./obra-002.xlsx

  # Export from the remote backend
  obracusto export --target api --output ./despesas.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}

		target, err := resolveTarget(exportTarget, cfg.Import.Target)
		if err != nil {
			return err
		}
		source, closeSource, err := openBackend(cfg, target, resolveDBPath(exportDBPath, cfg))
		if err != nil {
			return err
		}
		defer closeSource()

		projectID := firstNonBlank(exportProject, cfg.Project.ID)
		expenses, err := source.ListExpenses(cmd.Context(), projectID)
		if err != nil {
			return err
		}

		if err := writer.Write(exportOutput, output.RecordsFromExpenses(expenses)); err != nil {
			return err
		}
		fmt.Printf("Export completed. Project: %s, Expenses: %d, Format: %s, File: %s\n", projectID, len(expenses), format, exportOutput)
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "xlsx", "xlsm":
		return "excel"
	default:
		return "csv"
	}
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "", "Path to local SQLite database (default: storage.db_path from config)")
	exportCmd.Flags().StringVar(&exportTarget, "target", "", "Expense backend: sqlite|api (default: import.target from config)")
	exportCmd.Flags().StringVar(&exportProject, "project", "", "Project id to export (default: project.id from config)")

	_ = exportCmd.MarkFlagRequired("output")
}
