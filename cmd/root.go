/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"obracusto/config"
	"obracusto/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "obracusto",
	Short: "Import construction expense spreadsheets into a project ledger.",
	Long: `
**********************************************
*              OBRA CUSTO                    *
**********************************************

This CLI reads expense spreadsheets (Excel, CSV) with loosely named Portuguese or
English columns, normalizes Brazilian amounts and dates, and creates one expense
per valid row in the local SQLite ledger or a remote REST backend.

Supported input formats:
- Excel: .xlsx, .xlsm, .xls
- CSV: .csv, .txt (comma, semicolon or tab separated)
`,
	Example: `
  # Create configuration file
  obracusto config create

  # Download the import template
  obracusto template -o modelo.xlsx

  # Check which columns are recognized before importing
  obracusto inspect -i planilha.xlsx

  # Import into the local ledger
  obracusto import -i planilha.xlsx

  # Parse only, create nothing
  obracusto import -i planilha.csv --dry-run

  # Export stored expenses
  obracusto export --output ./despesas.xlsx
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(viper.GetString(config.KeyLogLevel), viper.GetString(config.KeyLogFormat), os.Stderr)
		if used := viper.ConfigFileUsed(); used != "" {
			log.Debug().Str("file", used).Msg("config loaded")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.obracusto.yaml, then ./.obracusto.yaml)")
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	if err := logging.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".obracusto" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".obracusto")
	}

	viper.SetEnvPrefix("OBRACUSTO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: obracusto config create")
	}
}
