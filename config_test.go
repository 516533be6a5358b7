package structscan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, "./errors.rs", config.Input)
	assert.Equal(t, "code", config.CodeParam)
	assert.Equal(t, "message", config.MessageParam)
	assert.Equal(t, []string{GeneratorMarkdown, GeneratorTypeScript}, config.EnabledGenerators())
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "structscan.yaml")

	configContent := `
input: "./query-engine/errors.rs"
attribute: user_facing
filter: 'code.startsWith("P1")'
databases:
  development:
    driver: sqlite3
    connection: ./catalog.db
generation:
  generators:
    typescript:
      output: "./src/errors.ts"
      settings:
        base_type: KnownError
        camel_case_fields: true
        type_map:
          u64: bigint
    json:
      output: "./generated/errors.json"
      disabled: true
`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)

	assert.Equal(t, "./query-engine/errors.rs", config.Input)
	assert.Equal(t, "user_facing", config.Attribute)
	assert.Equal(t, `code.startsWith("P1")`, config.Filter)
	assert.Equal(t, "code", config.CodeParam)
	assert.Equal(t, []string{GeneratorTypeScript}, config.EnabledGenerators())

	ts := config.Generation.Generators[GeneratorTypeScript]
	assert.Equal(t, "KnownError", ts.StringSetting("base_type", "x"))
	assert.Equal(t, "fallback", ts.StringSetting("enum_name", "fallback"))
	assert.True(t, ts.BoolSetting("camel_case_fields", false))
	assert.Equal(t, map[string]string{"u64": "bigint"}, ts.StringMapSetting("type_map"))
	assert.Equal(t, 0, len(ts.StringMapSetting("missing")))

	db, err := config.Database("development")
	assert.NoError(t, err)
	assert.Equal(t, "sqlite3", db.Driver)
}

func TestLoadConfig_StrictMode_UnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "structscan.yaml")

	configContent := `
input: "./errors.rs"
unknown_key: "should cause error"
`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	_, err = LoadConfig(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_ExpandsEnvVars(t *testing.T) {
	t.Setenv("STRUCTSCAN_SRC", "/src")
	t.Setenv("STRUCTSCAN_DB", "catalog.db")

	config, err := ParseConfig([]byte(`
input: "${STRUCTSCAN_SRC}/errors.rs"
databases:
  ci:
    driver: sqlite3
    connection: $STRUCTSCAN_DB
generation:
  generators:
    markdown:
      output: "${STRUCTSCAN_SRC}/errors.md"
`))
	assert.NoError(t, err)
	assert.Equal(t, "/src/errors.rs", config.Input)
	assert.Equal(t, "catalog.db", config.Databases["ci"].Connection)
	assert.Equal(t, "/src/errors.md", config.Generation.Generators[GeneratorMarkdown].Output)
}

func TestConfig_DatabaseNotConfigured(t *testing.T) {
	config := DefaultConfig()

	_, err := config.Database("production")
	assert.IsError(t, err, ErrDatabaseNotConfigured)
}
