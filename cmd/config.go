package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage obracusto configuration file values.",
	Long: `Create, edit, display, and delete the obracusto configuration file.

The configuration stores the import scope and backends:
- project.id (required)
- import.target / import.concurrency / import.default_category / import.added_by
- storage.db_path and backend.url / backend.api_key
- columns.<field>[] extra header names
- rules[].file_template / project_id / category`,
	Example: `
  # Create default config in $HOME/.obracusto.yaml
  obracusto config create

  # Show active config and source file
  obracusto config show

  # Open active config in editor (creates example if missing)
  obracusto config edit

  # Delete active config file
  obracusto config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
