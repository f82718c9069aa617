package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"obracusto/storage"
)

var (
	deleteDBPath  string
	deleteProject string
)

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete stored expenses or the complete SQLite database file",
	Long: `Destructive local ledger cleanup command.

Without --project the complete SQLite database file is deleted. With --project only
the expenses of that project are removed. Before deletion, an interactive security
prompt requires typing exactly "Y".`,
	Example: `
  # Delete the complete SQLite file (requires interactive confirmation)
  obracusto delete --db ./obracusto.db

  # Delete the expenses of one project
  obracusto delete --db ./obracusto.db --project obra-001
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := strings.TrimSpace(deleteDBPath)
		if dbPath == "" {
			dbPath = "./obracusto.db"
		}
		project := strings.TrimSpace(deleteProject)

		subject := fmt.Sprintf("database file %q", dbPath)
		if project != "" {
			subject = fmt.Sprintf("all expenses of project %q in %q", project, dbPath)
		}
		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, subject)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		if project == "" {
			if err := removeDatabaseFile(dbPath); err != nil {
				return err
			}
			fmt.Printf("Deleted database file: %s\n", dbPath)
			return nil
		}

		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("database file not found: %s", dbPath)
		}
		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		deleted, err := store.DeleteProjectExpenses(cmd.Context(), project)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d expense(s) of project %s\n", deleted, project)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVar(&deleteDBPath, "db", "./obracusto.db", "Path to local SQLite database")
	deleteCmd.Flags().StringVar(&deleteProject, "project", "", "Only delete the expenses of this project")
}

func confirmDeletePrompt(input io.Reader, output io.Writer, subject string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete %s? Type Y to confirm: ", subject); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return strings.TrimSpace(line) == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	return nil
}
