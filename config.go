package structscan

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

// Generator names understood by the generate command
const (
	GeneratorTypeScript = "typescript"
	GeneratorMarkdown   = "markdown"
	GeneratorHTML       = "html"
	GeneratorJSON       = "json"
	GeneratorYAML       = "yaml"
	GeneratorXML        = "xml"
)

var knownGenerators = map[string]bool{
	GeneratorTypeScript: true,
	GeneratorMarkdown:   true,
	GeneratorHTML:       true,
	GeneratorJSON:       true,
	GeneratorYAML:       true,
	GeneratorXML:        true,
}

var knownDrivers = map[string]bool{
	"sqlite3": true,
	"pgx":     true,
	"mysql":   true,
}

// Config represents the structscan configuration
type Config struct {
	Input        string              `yaml:"input"`
	Attribute    string              `yaml:"attribute"`     // keep only declarations with this attribute name
	Filter       string              `yaml:"filter"`        // CEL expression selecting declarations
	CodeParam    string              `yaml:"code_param"`    // attribute parameter holding the error code
	MessageParam string              `yaml:"message_param"` // attribute parameter holding the message
	Databases    map[string]Database `yaml:"databases"`
	Generation   GenerationConfig    `yaml:"generation"`
}

// Database represents catalog database connection configuration
type Database struct {
	Driver     string `yaml:"driver"`
	Connection string `yaml:"connection"`
}

// GenerationConfig represents code generation settings
type GenerationConfig struct {
	Generators map[string]GeneratorConfig `yaml:"generators"`
}

// GeneratorConfig represents a single generator configuration
type GeneratorConfig struct {
	Output   string         `yaml:"output"`
	Disabled *bool          `yaml:"disabled"` // nil means enabled
	Settings map[string]any `yaml:"settings,omitempty"`
}

// IsEnabled returns true if the generator is not explicitly disabled
func (g GeneratorConfig) IsEnabled() bool {
	return g.Disabled == nil || !*g.Disabled
}

// StringSetting returns a string setting or def when it is missing
func (g GeneratorConfig) StringSetting(key, def string) string {
	if v, ok := g.Settings[key].(string); ok {
		return v
	}

	return def
}

// BoolSetting returns a boolean setting or def when it is missing
func (g GeneratorConfig) BoolSetting(key string, def bool) bool {
	if v, ok := g.Settings[key].(bool); ok {
		return v
	}

	return def
}

// StringMapSetting returns a map setting with string values
func (g GeneratorConfig) StringMapSetting(key string) map[string]string {
	raw, ok := g.Settings[key].(map[string]any)
	if !ok {
		return nil
	}

	result := make(map[string]string, len(raw))
	for k, v := range raw {
		result[k] = fmt.Sprint(v)
	}

	return result
}

// EnabledGenerators returns the names of the enabled generators in a stable order
func (c *Config) EnabledGenerators() []string {
	var names []string

	for name, generator := range c.Generation.Generators {
		if generator.IsEnabled() {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

// Database returns the catalog database configured for env
func (c *Config) Database(env string) (Database, error) {
	db, ok := c.Databases[env]
	if !ok {
		return Database{}, fmt.Errorf("%w: '%s'", ErrDatabaseNotConfigured, env)
	}

	return db, nil
}

// LoadConfig loads configuration from the specified file.
// A missing file yields the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	if !fileExists(configPath) {
		config := DefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration, rejecting unknown keys
func ParseConfig(data []byte) (*Config, error) {
	var config Config

	err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	for name, generator := range config.Generation.Generators {
		if !knownGenerators[name] {
			return fmt.Errorf("%w: unknown generator type '%s': must be one of %s", ErrConfigValidation, name, strings.Join(generatorNames(), ", "))
		}

		if generator.IsEnabled() && generator.Output == "" {
			return fmt.Errorf("%w: generator '%s': output path is required when enabled", ErrConfigValidation, name)
		}
	}

	for env, db := range config.Databases {
		if !knownDrivers[db.Driver] {
			return fmt.Errorf("%w: database '%s': invalid driver '%s': must be one of sqlite3, pgx, mysql", ErrConfigValidation, env, db.Driver)
		}

		if db.Connection == "" {
			return fmt.Errorf("%w: database '%s': connection is required", ErrConfigValidation, env)
		}
	}

	return nil
}

func generatorNames() []string {
	names := make([]string, 0, len(knownGenerators))
	for name := range knownGenerators {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func boolPtr(b bool) *bool {
	return &b
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Input:        "./errors.rs",
		CodeParam:    "code",
		MessageParam: "message",
		Databases: map[string]Database{
			"development": {
				Driver:     "sqlite3",
				Connection: "./structscan.db",
			},
		},
		Generation: GenerationConfig{
			Generators: map[string]GeneratorConfig{
				GeneratorTypeScript: {
					Output: "./generated/errors.ts",
					Settings: map[string]any{
						"base_type":  "Prisma.PrismaClientKnownRequestError",
						"union_name": "PrismaErrors",
						"enum_name":  "PrismaErrorCode",
					},
				},
				GeneratorMarkdown: {
					Output: "./generated/errors.md",
				},
				GeneratorHTML: {
					Output:   "./generated/errors.html",
					Disabled: boolPtr(true),
				},
				GeneratorJSON: {
					Output:   "./generated/errors.json",
					Disabled: boolPtr(true),
				},
			},
		},
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	if config.CodeParam == "" {
		config.CodeParam = "code"
	}

	if config.MessageParam == "" {
		config.MessageParam = "message"
	}

	if config.Databases == nil {
		config.Databases = make(map[string]Database)
	}

	if config.Generation.Generators == nil {
		config.Generation.Generators = make(map[string]GeneratorConfig)
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvVar  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return plainEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in paths and connections
func expandConfigEnvVars(config *Config) {
	config.Input = expandEnvVars(config.Input)

	for name, db := range config.Databases {
		db.Driver = expandEnvVars(db.Driver)
		db.Connection = expandEnvVars(db.Connection)
		config.Databases[name] = db
	}

	for name, generator := range config.Generation.Generators {
		generator.Output = expandEnvVars(generator.Output)
		config.Generation.Generators[name] = generator
	}
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
