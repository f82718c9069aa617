package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"obracusto/config"
)

const exampleProjectID = "obra-001"

// resolveConfigEditPath picks the file that config create/edit/delete act on:
// the --configFile flag, then the loaded config, then $HOME/.obracusto.yaml.
func resolveConfigEditPath(configFileFlag, configFileUsed string) (string, error) {
	if strings.TrimSpace(configFileFlag) != "" {
		return configFileFlag, nil
	}
	if strings.TrimSpace(configFileUsed) != "" {
		return configFileUsed, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".obracusto.yaml"), nil
}

// exampleConfigFor returns the example config with projectID filled in.
func exampleConfigFor(projectID string) string {
	content := config.ExampleYAML()
	projectID = strings.TrimSpace(projectID)
	if projectID == "" || projectID == exampleProjectID {
		return content
	}
	return strings.Replace(content, fmt.Sprintf("id: %q", exampleProjectID), fmt.Sprintf("id: %q", projectID), 1)
}

// ensureConfigFileWithTemplate writes the example config when path does not
// exist yet and reports whether it did.
func ensureConfigFileWithTemplate(path, projectID string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file failed: %w", err)
	}

	content := exampleConfigFor(projectID)
	if _, err := config.ValidateYAMLContent([]byte(content)); err != nil {
		return false, fmt.Errorf("example config is invalid: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return false, fmt.Errorf("creating example config failed: %w", err)
	}

	return true, nil
}
