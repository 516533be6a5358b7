package main

import (
	"fmt"

	"github.com/fatih/color"
)

// InitCmd represents the init command
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(ctx *Context) error {
	if ctx.Verbose {
		color.Blue("Writing sample configuration to %s", ctx.Config)
	}

	if !i.Force && fileExists(ctx.Config) {
		return fmt.Errorf("%w: %s", ErrConfigExists, ctx.Config)
	}

	if err := writeFile(ctx.Config, []byte(sampleConfig)); err != nil {
		return fmt.Errorf("failed to create sample configuration: %w", err)
	}

	if !ctx.Quiet {
		color.Green("Created %s", ctx.Config)
		fmt.Fprintln(ctx.Stdout, "\nNext steps:")
		fmt.Fprintln(ctx.Stdout, "1. Point 'input' at the file holding your annotated structs")
		fmt.Fprintln(ctx.Stdout, "2. Enable the generators you need under generation.generators")
		fmt.Fprintln(ctx.Stdout, "3. Run 'structscan generate'")
	}

	return nil
}

const sampleConfig = `# File holding the #[attribute(...)] pub struct declarations
input: "./errors.rs"

# Keep only declarations annotated with this attribute (empty keeps all)
attribute: "user_facing"

# CEL expression selecting declarations, e.g. code.startsWith("P1")
filter: ""

# Attribute parameters holding the error code and message
code_param: "code"
message_param: "message"

# Catalog databases used by 'structscan store --env <name>'
databases:
  development:
    driver: "sqlite3"
    connection: "./structscan.db"

  production:
    driver: "pgx"
    connection: "postgres://${DB_USER}:${DB_PASS}@${DB_HOST}:${DB_PORT}/${DB_NAME}"

generation:
  generators:
    typescript:
      output: "./generated/errors.ts"
      settings:
        base_type: "Prisma.PrismaClientKnownRequestError"
        union_name: "PrismaErrors"
        enum_name: "PrismaErrorCode"
        camel_case_fields: false
        strict: false
        type_map:
          u32: "number"
          bool: "boolean"

    markdown:
      output: "./generated/errors.md"

    html:
      output: "./generated/errors.html"
      disabled: true

    json:
      output: "./generated/errors.json"
      disabled: true
`
