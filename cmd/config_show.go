package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"obracusto/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. The backend API key
is masked.`,
	Example: `
  # Show active configuration
  obracusto config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		}
		writeConfigSummary(os.Stdout, cfg)
	},
}

func writeConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintf(w, "project.id: %s\n", cfg.Project.ID)
	fmt.Fprintf(w, "import.target: %s\n", cfg.Import.Target)
	fmt.Fprintf(w, "import.concurrency: %d\n", cfg.Import.Concurrency)
	fmt.Fprintf(w, "import.default_category: %s\n", cfg.Import.DefaultCategory)
	fmt.Fprintf(w, "import.added_by: %s\n", cfg.Import.AddedBy)
	fmt.Fprintf(w, "storage.db_path: %s\n", cfg.Storage.DBPath)
	fmt.Fprintf(w, "backend.url: %s\n", cfg.Backend.URL)
	fmt.Fprintf(w, "backend.api_key: %s\n", maskSecret(cfg.Backend.APIKey))
	fmt.Fprintf(w, "backend.timeout_seconds: %d\n", cfg.Backend.TimeoutSeconds)
	fmt.Fprintf(w, "log.level: %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "log.format: %s\n", cfg.Log.Format)
	fmt.Fprintf(w, "columns.description: %s\n", strings.Join(cfg.Columns.Description, ", "))
	fmt.Fprintf(w, "columns.amount: %s\n", strings.Join(cfg.Columns.Amount, ", "))
	fmt.Fprintf(w, "columns.due_date: %s\n", strings.Join(cfg.Columns.DueDate, ", "))
	fmt.Fprintf(w, "columns.status: %s\n", strings.Join(cfg.Columns.Status, ", "))
	fmt.Fprintf(w, "rules: %d\n", len(cfg.Rules))
	for i, rule := range cfg.Rules {
		fmt.Fprintf(w, "rules[%d].name: %s\n", i, rule.Name)
		fmt.Fprintf(w, "rules[%d].file_template: %s\n", i, rule.FileTemplate)
		fmt.Fprintf(w, "rules[%d].project_id: %s\n", i, rule.ProjectID)
		fmt.Fprintf(w, "rules[%d].category: %s\n", i, rule.Category)
	}
}

// maskSecret keeps the last four characters of long secrets.
func maskSecret(value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return ""
	case len(value) <= 8:
		return "****"
	default:
		return "****" + value[len(value)-4:]
	}
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
