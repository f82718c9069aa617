package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"obracusto/config"
	"obracusto/expense"
	"obracusto/importer"
	"obracusto/output"
	"obracusto/submitter"
)

var (
	importInputs      []string
	importFormat      string
	importTarget      string
	importDBPath      string
	importProject     string
	importConcurrency int
	importDryRun      bool
	importOutput      string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import expense spreadsheets into the project ledger",
	Long: `Read spreadsheet files, normalize each row and create one expense per valid row.

Columns are matched by name (Descrição/Valor/Vencimento/Status and common variants);
extra names can be configured under "columns". A row is valid when it has a
non-empty description and an amount greater than zero. Invalid rows are skipped
and only counted.

Each file is imported into project.id unless a configured rule matches its name
or --project is given. When --format is omitted, format is inferred from each
input file extension.`,
	Example: `
  # Import one workbook into the local SQLite ledger
  obracusto import -i planilha.xlsx

  # Import several files into the remote backend, four rows at a time
  obracusto import -i janeiro.csv -i fevereiro.xlsx --target api --concurrency 4

  # Parse only and print what would be created
  obracusto import -i planilha.csv --dry-run

  # Parse only and save the normalized rows for review
  obracusto import -i planilha.xlsx --dry-run --output ./revisao.xlsx

  # Import into an explicit project
  obracusto import -i planilha.xls --project obra-002 --db ./obracusto.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		target, err := resolveTarget(importTarget, cfg.Import.Target)
		if err != nil {
			return err
		}
		concurrency := cfg.Import.Concurrency
		if cmd.Flags().Changed("concurrency") {
			concurrency = importConcurrency
		}
		if concurrency < 0 {
			return fmt.Errorf("invalid concurrency %d (must be >= 0)", concurrency)
		}

		groups := groupInputsByDraft(cfg, importInputs, importProject)
		if importDryRun {
			summary, err := runImportGroups(cmd.Context(), groups, cfg, importFormat, nil, concurrency)
			if err != nil {
				return err
			}
			printImportSummary(summary, true)
			return writeParsedRows(importOutput, summary.rows)
		}

		creator, closeBackend, err := openBackend(cfg, target, resolveDBPath(importDBPath, cfg))
		if err != nil {
			return err
		}
		defer closeBackend()

		summary, err := runImportGroups(cmd.Context(), groups, cfg, importFormat, creator, concurrency)
		printImportSummary(summary, false)
		if err != nil {
			return err
		}
		return writeParsedRows(importOutput, summary.rows)
	},
}

// importGroup is a set of input files sharing the same draft defaults.
type importGroup struct {
	draft expense.DraftOptions
	paths []string
}

type importSummary struct {
	files    int
	rowsRead int
	valid    int
	invalid  int
	created  int
	failed   int
	total    decimal.Decimal
	rows     []expense.ParsedRow
}

// groupInputsByDraft keeps the input order of first appearance per group.
func groupInputsByDraft(cfg *config.Config, inputs []string, projectOverride string) []importGroup {
	var groups []importGroup
	index := make(map[expense.DraftOptions]int)
	for _, path := range inputs {
		draft := cfg.DraftOptionsFor(path)
		if override := strings.TrimSpace(projectOverride); override != "" {
			draft.ProjectID = override
		}
		position, ok := index[draft]
		if !ok {
			position = len(groups)
			index[draft] = position
			groups = append(groups, importGroup{draft: draft})
		}
		groups[position].paths = append(groups[position].paths, path)
	}
	return groups
}

// runImportGroups parses and, when creator is set, submits each group. It
// stops at the first unreadable file or failed submission.
func runImportGroups(ctx context.Context, groups []importGroup, cfg *config.Config, format string, creator expense.Creator, concurrency int) (importSummary, error) {
	summary := importSummary{total: decimal.Zero}
	for _, group := range groups {
		result, err := importer.Run(group.paths, importer.RunOptions{
			Format:     format,
			Candidates: cfg.Candidates(),
		})
		if err != nil {
			return summary, err
		}
		warnUnresolved(group.paths, result.FieldMaps)

		summary.files += result.FilesProcessed
		summary.rowsRead += result.RowsRead
		summary.valid += len(result.Batch.ValidRows)
		summary.invalid += result.Batch.InvalidCount
		summary.total = summary.total.Add(output.Summarize(result.Batch.ValidRows).Total)
		summary.rows = append(summary.rows, result.Batch.ValidRows...)

		if creator == nil {
			continue
		}
		groupCtx := log.Logger.With().Str("project", group.draft.ProjectID).Logger().WithContext(ctx)
		report, err := submitter.Submit(groupCtx, creator, result.Batch.ValidRows, submitter.Options{
			Concurrency: concurrency,
			Draft:       group.draft,
		})
		summary.created += len(report.Created)
		summary.failed += report.Failed
		if err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// writeParsedRows saves the valid rows in import template layout. An empty
// path writes nothing.
func writeParsedRows(path string, rows []expense.ParsedRow) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	writer, err := output.WriterForFormat(detectExportFormat(path))
	if err != nil {
		return err
	}
	if err := writer.Write(path, output.RecordsFromRows(rows)); err != nil {
		return err
	}
	fmt.Printf("Parsed rows written. Rows: %d, File: %s\n", len(rows), path)
	return nil
}

func warnUnresolved(paths []string, fieldMaps map[string]importer.FieldMap) {
	for _, path := range paths {
		fieldMap, ok := fieldMaps[path]
		if !ok {
			continue
		}
		for _, field := range fieldMap.Unresolved {
			message := fmt.Sprintf("Warning: %s: no column found for %s", path, field)
			if suggestions := fieldMap.Suggestions[field]; len(suggestions) > 0 {
				message += fmt.Sprintf(" (closest headers: %s)", strings.Join(suggestions, ", "))
			}
			fmt.Fprintln(os.Stderr, message)
		}
	}
}

func printImportSummary(summary importSummary, dryRun bool) {
	if dryRun {
		fmt.Printf("Dry run completed. Files: %d, Rows read: %d, Valid: %d, Invalid: %d, Total: %s\n",
			summary.files,
			summary.rowsRead,
			summary.valid,
			summary.invalid,
			output.FormatBRL(summary.total),
		)
		return
	}
	fmt.Printf("Import completed. Files: %d, Rows read: %d, Valid: %d, Invalid: %d, Created: %d, Total: %s\n",
		summary.files,
		summary.rowsRead,
		summary.valid,
		summary.invalid,
		summary.created,
		output.FormatBRL(summary.total),
	)
	if summary.failed > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d expense(s) could not be created; created expenses were kept.\n", summary.failed)
	}
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel|xls (optional, inferred from extension when omitted)")
	importCmd.Flags().StringVar(&importTarget, "target", "", "Expense backend: sqlite|api (default: import.target from config)")
	importCmd.Flags().StringVar(&importDBPath, "db", "", "Path to local SQLite database (default: storage.db_path from config)")
	importCmd.Flags().StringVar(&importProject, "project", "", "Project id for all inputs (overrides project.id and matching rules)")
	importCmd.Flags().IntVar(&importConcurrency, "concurrency", 0, "Maximum create calls in flight; 0 sends all at once (default: import.concurrency from config)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and validate only; create nothing")
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "Also write the valid parsed rows to this CSV/Excel file")

	_ = importCmd.MarkFlagRequired("input")
}
