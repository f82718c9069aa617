package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"obracusto/expense"
	"obracusto/importer"
)

const (
	TargetSQLite = "sqlite"
	TargetAPI    = "api"
)

const (
	KeyProjectID             = "project.id"
	KeyImportTarget          = "import.target"
	KeyImportConcurrency     = "import.concurrency"
	KeyImportDefaultCategory = "import.default_category"
	KeyImportAddedBy         = "import.added_by"
	KeyStorageDBPath         = "storage.db_path"
	KeyBackendURL            = "backend.url"
	KeyBackendAPIKey         = "backend.api_key"
	KeyBackendTimeout        = "backend.timeout_seconds"
	KeyLogLevel              = "log.level"
	KeyLogFormat             = "log.format"
	KeyRules                 = "rules"
)

type Config struct {
	Project ProjectConfig `mapstructure:"project"`
	Import  ImportConfig  `mapstructure:"import"`
	Storage StorageConfig `mapstructure:"storage"`
	Backend BackendConfig `mapstructure:"backend"`
	Log     LogConfig     `mapstructure:"log"`
	Columns ColumnsConfig `mapstructure:"columns"`
	Rules   []Rule        `mapstructure:"rules"`
}

type ProjectConfig struct {
	ID string `mapstructure:"id" validate:"required"`
}

type ImportConfig struct {
	Target          string `mapstructure:"target" validate:"oneof=sqlite api"`
	Concurrency     int    `mapstructure:"concurrency" validate:"min=0"`
	DefaultCategory string `mapstructure:"default_category"`
	AddedBy         string `mapstructure:"added_by"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path" validate:"required"`
}

type BackendConfig struct {
	URL            string `mapstructure:"url" validate:"omitempty,url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"min=1"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

// ColumnsConfig lists extra header aliases per field, tried after the
// built-in ones.
type ColumnsConfig struct {
	Description []string `mapstructure:"description"`
	Amount      []string `mapstructure:"amount"`
	DueDate     []string `mapstructure:"due_date"`
	Status      []string `mapstructure:"status"`
}

// Rule routes files matching FileTemplate to another project or category.
type Rule struct {
	Name         string `mapstructure:"name"`
	FileTemplate string `mapstructure:"file_template"`
	ProjectID    string `mapstructure:"project_id"`
	Category     string `mapstructure:"category"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# obracusto configuration
project:
  id: "obra-001"

import:
  target: "sqlite"        # sqlite | api
  concurrency: 0          # 0 sends every row at once
  default_category: "Outros"
  added_by: "Contratante"

storage:
  db_path: "./obracusto.db"

backend:
  url: ""                 # required when import.target is api
  api_key: ""
  timeout_seconds: 30

log:
  level: "info"
  format: "console"       # console | json

# Extra header names recognized per field.
columns:
  description: []
  amount: []
  due_date: []
  status: []

# Files matching file_template are imported into another project/category.
rules: []
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Import.Target = strings.ToLower(strings.TrimSpace(cfg.Import.Target))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if cfg.Import.Target == TargetAPI && strings.TrimSpace(cfg.Backend.URL) == "" {
		return nil, fmt.Errorf("validation failed: backend.url is required when import.target is %q", TargetAPI)
	}
	if err := validateRules(cfg.Rules); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Empty defaults make these keys visible to AutomaticEnv during Unmarshal.
	v.SetDefault(KeyProjectID, "")
	v.SetDefault(KeyBackendURL, "")
	v.SetDefault(KeyBackendAPIKey, "")
	v.SetDefault(KeyImportTarget, TargetSQLite)
	v.SetDefault(KeyImportConcurrency, 0)
	v.SetDefault(KeyImportDefaultCategory, expense.DefaultCategory)
	v.SetDefault(KeyImportAddedBy, expense.DefaultAddedBy)
	v.SetDefault(KeyStorageDBPath, "obracusto.db")
	v.SetDefault(KeyBackendTimeout, 30)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyRules, []map[string]any{})
}

func validateRules(rules []Rule) error {
	seen := make(map[string]struct{}, len(rules))
	for i, rule := range rules {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return fmt.Errorf("validation failed: rules[%d].name is required", i)
		}
		key := strings.ToLower(name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate rule name %q", name)
		}
		seen[key] = struct{}{}

		template := strings.TrimSpace(rule.FileTemplate)
		if template == "" {
			return fmt.Errorf("validation failed: rules[%d].file_template is required", i)
		}
		if _, err := filepath.Match(template, ""); err != nil {
			return fmt.Errorf("validation failed: rules[%d].file_template %q: %w", i, rule.FileTemplate, err)
		}
		if strings.TrimSpace(rule.ProjectID) == "" && strings.TrimSpace(rule.Category) == "" {
			return fmt.Errorf("validation failed: rules[%d] requires project_id or category", i)
		}
	}
	return nil
}

// Candidates returns the built-in header aliases extended with the
// configured ones.
func (c Config) Candidates() importer.FieldCandidates {
	return importer.DefaultCandidates().WithExtra(importer.FieldCandidates{
		Description: c.Columns.Description,
		Amount:      c.Columns.Amount,
		DueDate:     c.Columns.DueDate,
		Status:      c.Columns.Status,
	})
}

// MatchRuleByTemplate returns the first rule whose template matches the file
// base name or full path, or a zero Rule.
func MatchRuleByTemplate(path string, rules []Rule) Rule {
	baseName := filepath.Base(path)
	for _, rule := range rules {
		template := strings.TrimSpace(rule.FileTemplate)
		if template == "" {
			continue
		}
		matchesBase, err := filepath.Match(template, baseName)
		if err == nil && matchesBase {
			return rule
		}
		matchesFull, err := filepath.Match(template, path)
		if err == nil && matchesFull {
			return rule
		}
	}
	return Rule{}
}

// DraftOptionsFor resolves the project and category for rows of one file.
func (c Config) DraftOptionsFor(path string) expense.DraftOptions {
	rule := MatchRuleByTemplate(path, c.Rules)
	return expense.DraftOptions{
		ProjectID: firstNonEmpty(rule.ProjectID, c.Project.ID),
		Category:  firstNonEmpty(rule.Category, c.Import.DefaultCategory),
		AddedBy:   strings.TrimSpace(c.Import.AddedBy),
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
