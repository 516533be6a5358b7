package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"

	"github.com/shibukawa/structscan"
	"github.com/shibukawa/structscan/cursor"
)

const errorsSource = `#[user_facing(code = "P2002", message = "Unique constraint failed on the {constraint}")]
pub struct UniqueKeyViolation {
    /// Field name from one model from Prisma schema
    pub constraint: DatabaseConstraint,
}

#[user_facing(code = "P1010", message = "User was denied access")]
pub struct DatabaseAccessDenied {
    pub database_user: String,
    pub database_name: String,
}

#[internal(code = "X1")]
pub struct Hidden {}
`

type project struct {
	dir    string
	config string
	input  string
}

func (p project) path(name string) string {
	return filepath.Join(p.dir, name)
}

func (p project) context(stdout *bytes.Buffer) *Context {
	return &Context{Config: p.config, Quiet: true, Stdout: stdout}
}

func setupProject(t *testing.T, source string) project {
	t.Helper()

	dir := t.TempDir()
	p := project{
		dir:    dir,
		config: filepath.Join(dir, "structscan.yaml"),
		input:  filepath.Join(dir, "errors.rs"),
	}

	config := `input: "` + filepath.ToSlash(p.input) + `"
attribute: "user_facing"
databases:
  development:
    driver: "sqlite3"
    connection: "` + filepath.ToSlash(p.path("catalog.db")) + `"
generation:
  generators:
    typescript:
      output: "` + filepath.ToSlash(p.path("out/errors.ts")) + `"
      settings:
        union_name: "KnownErrors"
    markdown:
      output: "` + filepath.ToSlash(p.path("out/errors.md")) + `"
    json:
      output: "` + filepath.ToSlash(p.path("out/errors.json")) + `"
      disabled: true
`

	assert.NoError(t, os.WriteFile(p.config, []byte(config), 0644))
	assert.NoError(t, os.WriteFile(p.input, []byte(source), 0644))

	return p
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	assert.NoError(t, err)

	return string(data)
}

func TestGenerateCmd(t *testing.T) {
	t.Run("EnabledGenerators", func(t *testing.T) {
		p := setupProject(t, errorsSource)

		cmd := &GenerateCmd{}
		assert.NoError(t, cmd.Run(p.context(&bytes.Buffer{})))

		ts := readFile(t, p.path("out/errors.ts"))
		assert.Contains(t, ts, "export interface UniqueKeyViolation extends Prisma.PrismaClientKnownRequestError {")
		assert.Contains(t, ts, "export type KnownErrors = UniqueKeyViolation | DatabaseAccessDenied;")
		assert.NotContains(t, ts, "Hidden")

		md := readFile(t, p.path("out/errors.md"))
		assert.Contains(t, md, "## DatabaseAccessDenied")

		_, err := os.Stat(p.path("out/errors.json"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("SingleLanguage", func(t *testing.T) {
		p := setupProject(t, errorsSource)

		cmd := &GenerateCmd{Lang: "json"}
		assert.NoError(t, cmd.Run(p.context(&bytes.Buffer{})))

		assert.Contains(t, readFile(t, p.path("out/errors.json")), `"name": "UniqueKeyViolation"`)

		_, err := os.Stat(p.path("out/errors.ts"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("UnknownLanguage", func(t *testing.T) {
		p := setupProject(t, errorsSource)

		cmd := &GenerateCmd{Lang: "xml"}
		err := cmd.Run(p.context(&bytes.Buffer{}))
		assert.IsError(t, err, ErrGeneratorNotConfigured)
	})

	t.Run("Filter", func(t *testing.T) {
		p := setupProject(t, errorsSource)

		cmd := &GenerateCmd{Lang: "typescript", Filter: `code == "P1010"`}
		assert.NoError(t, cmd.Run(p.context(&bytes.Buffer{})))

		ts := readFile(t, p.path("out/errors.ts"))
		assert.Contains(t, ts, "export type KnownErrors = DatabaseAccessDenied;")
	})

	t.Run("ScanError", func(t *testing.T) {
		p := setupProject(t, "#[user_facing(code = \"P1\")]\npub struct Broken {\n    pub name String,\n}\n")

		err := (&GenerateCmd{}).Run(p.context(&bytes.Buffer{}))
		assert.Error(t, err)

		var scanErr *cursor.Error
		assert.True(t, errors.As(err, &scanErr))
		assert.IsError(t, err, cursor.ErrUnexpectedCharacter)
		assert.Equal(t, 3, scanErr.Line)
	})
}

func TestInspectCmd(t *testing.T) {
	p := setupProject(t, errorsSource)

	var stdout bytes.Buffer
	cmd := &InspectCmd{Format: "yaml"}
	assert.NoError(t, cmd.Run(p.context(&stdout)))

	out := stdout.String()
	assert.Contains(t, out, "format_version:")
	assert.Contains(t, out, "UniqueKeyViolation")
	assert.NotContains(t, out, "Hidden")

	err := (&InspectCmd{Format: "toml"}).Run(p.context(&stdout))
	assert.Error(t, err)
}

func TestInspectCmdWithoutInput(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "structscan.yaml")
	assert.NoError(t, os.WriteFile(config, []byte("attribute: \"user_facing\"\n"), 0644))

	err := (&InspectCmd{Format: "json"}).Run(&Context{Config: config, Quiet: true, Stdout: &bytes.Buffer{}})
	assert.IsError(t, err, structscan.ErrInputNotSpecified)
}

func TestStoreCmd(t *testing.T) {
	p := setupProject(t, errorsSource)

	var first bytes.Buffer
	assert.NoError(t, (&StoreCmd{Environment: "development"}).Run(p.context(&first)))

	firstID, err := uuid.Parse(strings.TrimSpace(first.String()))
	assert.NoError(t, err)

	var second bytes.Buffer
	assert.NoError(t, (&StoreCmd{Environment: "development"}).Run(p.context(&second)))

	secondID, err := uuid.Parse(strings.TrimSpace(second.String()))
	assert.NoError(t, err)
	assert.NotEqual(t, firstID, secondID)

	err = (&StoreCmd{Environment: "staging"}).Run(p.context(&bytes.Buffer{}))
	assert.IsError(t, err, structscan.ErrDatabaseNotConfigured)
}

func TestInitCmd(t *testing.T) {
	config := filepath.Join(t.TempDir(), "structscan.yaml")
	ctx := &Context{Config: config, Quiet: true, Stdout: &bytes.Buffer{}}

	assert.NoError(t, (&InitCmd{}).Run(ctx))

	loaded, err := structscan.LoadConfig(config)
	assert.NoError(t, err)
	assert.Equal(t, "user_facing", loaded.Attribute)
	assert.Equal(t, []string{"markdown", "typescript"}, loaded.EnabledGenerators())

	err = (&InitCmd{}).Run(ctx)
	assert.IsError(t, err, ErrConfigExists)

	assert.NoError(t, (&InitCmd{Force: true}).Run(ctx))
}

func TestVersionCmd(t *testing.T) {
	var stdout bytes.Buffer
	assert.NoError(t, (&VersionCmd{}).Run(&Context{Stdout: &stdout}))
	assert.Equal(t, "structscan v0.1.0\n", stdout.String())
}

func TestPrintError(t *testing.T) {
	p := setupProject(t, "pub struct Missing {}")

	err := (&InspectCmd{Format: "json"}).Run(p.context(&bytes.Buffer{}))
	assert.Error(t, err)

	var quiet bytes.Buffer
	printError(&quiet, err, false)
	assert.Contains(t, quiet.String(), "Error: failed to scan")
	assert.Contains(t, quiet.String(), "(1:1)")
	assert.NotContains(t, quiet.String(), "near:")

	var verbose bytes.Buffer
	printError(&verbose, err, true)
	assert.Contains(t, verbose.String(), "near: ")
}
