package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"obracusto/config"
	"obracusto/importer"
	"obracusto/internal/classify"
	"obracusto/internal/timeutil"
	"obracusto/output"
)

var (
	inspectInputs []string
	inspectFormat string
	inspectRows   int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show how spreadsheet columns and rows would be imported",
	Long: `Read input files without creating anything and report:
- the header row and which column each field (description, amount, due date, status) maps to
- the closest headers for fields that could not be matched
- a preview of the first parsed rows with their validity

Works without a configuration file; configured column aliases are used when present.`,
	Example: `
  # Inspect one workbook
  obracusto inspect -i planilha.xlsx

  # Preview 30 rows of a CSV export
  obracusto inspect -i extrato.csv --rows 30
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		candidates := inspectCandidates()
		now := timeutil.SystemClock()
		for _, path := range inspectInputs {
			rows, fieldMap, err := importer.ReadFile(path, inspectFormat, candidates)
			if err != nil {
				return err
			}
			writeInspectReport(os.Stdout, path, rows, fieldMap, candidates, now, inspectRows)
		}
		return nil
	},
}

// inspectCandidates uses the configured aliases when the config is valid and
// the built-in ones otherwise.
func inspectCandidates() importer.FieldCandidates {
	if viper.ConfigFileUsed() == "" {
		return importer.DefaultCandidates()
	}
	cfg, err := config.LoadAndValidate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring invalid config: %v\n", err)
		return importer.DefaultCandidates()
	}
	return cfg.Candidates()
}

func writeInspectReport(w io.Writer, path string, rows []importer.RawRow, fieldMap importer.FieldMap, candidates importer.FieldCandidates, now time.Time, limit int) {
	fmt.Fprintf(w, "File: %s\n", path)
	fmt.Fprintf(w, "Headers: %s\n", strings.Join(fieldMap.Headers, " | "))
	for _, field := range importer.Fields {
		if header, ok := fieldMap.Header(field); ok {
			fmt.Fprintf(w, "  %-12s <- %s\n", field, header)
			continue
		}
		suggestions := fieldMap.Suggestions[field]
		if len(suggestions) == 0 {
			fmt.Fprintf(w, "  %-12s <- (not found)\n", field)
			continue
		}
		fmt.Fprintf(w, "  %-12s <- (not found, closest: %s)\n", field, strings.Join(suggestions, ", "))
	}

	parsed := importer.ParseRows(rows, candidates, now)
	batch := classify.Rows(parsed)
	fmt.Fprintf(w, "Rows: %d, Valid: %d, Invalid: %d, Total: %s\n",
		len(rows),
		len(batch.ValidRows),
		batch.InvalidCount,
		output.FormatBRL(output.Summarize(batch.ValidRows).Total),
	)

	if limit <= 0 || len(parsed) == 0 {
		return
	}
	if limit > len(parsed) {
		limit = len(parsed)
	}
	for _, row := range parsed[:limit] {
		state := "ok"
		if !classify.IsValid(row) {
			state = "invalid"
		}
		fmt.Fprintf(w, "  row %-4d %-7s %s | %s | %s | %s\n",
			row.RowNumber,
			state,
			row.DueDate,
			row.Description,
			output.FormatBRL(row.Amount),
			row.Status,
		)
	}
	if limit < len(parsed) {
		fmt.Fprintf(w, "  ... %d more row(s)\n", len(parsed)-limit)
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringArrayVarP(&inspectInputs, "input", "i", nil, "Input file path (repeatable)")
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "", "Input format: csv|excel|xls (optional, inferred from extension when omitted)")
	inspectCmd.Flags().IntVar(&inspectRows, "rows", 10, "Number of parsed rows to preview (0 disables the preview)")

	_ = inspectCmd.MarkFlagRequired("input")
}
