package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"obracusto/output"
)

var templateOutput string

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write the spreadsheet import template",
	Long: `Write an import template with the columns Vencimento, Descrição, Valor and Status
and one example row. The file is Excel unless the output path ends in .csv.`,
	Example: `
  # Excel template
  obracusto template -o modelo.xlsx

  # CSV template (semicolon separated)
  obracusto template -o modelo.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := output.WriteTemplate(templateOutput); err != nil {
			return err
		}
		fmt.Printf("Template written: %s\n", templateOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)

	templateCmd.Flags().StringVarP(&templateOutput, "output", "o", "modelo-importacao.xlsx", "Output file path (.xlsx or .csv)")
}
