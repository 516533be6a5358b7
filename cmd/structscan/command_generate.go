package main

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"

	"github.com/shibukawa/structscan"
	"github.com/shibukawa/structscan/intermediate"
	"github.com/shibukawa/structscan/langs/docgen"
	"github.com/shibukawa/structscan/langs/tsgen"
	"github.com/shibukawa/structscan/scanner"
)

// GenerateCmd represents the generate command
type GenerateCmd struct {
	Input  string `short:"i" help:"Input file" type:"path"`
	Lang   string `help:"Run only this generator (typescript, markdown, html, json, yaml, xml)"`
	Filter string `help:"CEL expression selecting declarations"`
}

func (g *GenerateCmd) Run(ctx *Context) error {
	config, source, doc, err := loadDocument(ctx, g.Input, g.Filter)
	if err != nil {
		return err
	}

	names := config.EnabledGenerators()
	if g.Lang != "" {
		if _, ok := config.Generation.Generators[g.Lang]; !ok {
			return fmt.Errorf("%w: '%s'", ErrGeneratorNotConfigured, g.Lang)
		}

		names = []string{g.Lang}
	}

	if ctx.Verbose {
		color.Blue("Generating %d declaration(s) from %s", len(doc), source)
	}

	if len(names) == 0 && !ctx.Quiet {
		color.Yellow("No generator is enabled in %s", ctx.Config)
	}

	for _, name := range names {
		generator := config.Generation.Generators[name]

		content, err := render(name, generator, config, source, doc)
		if err != nil {
			return fmt.Errorf("generator %s failed: %w", name, err)
		}

		if err := writeFile(generator.Output, content); err != nil {
			return fmt.Errorf("failed to write %s: %w", generator.Output, err)
		}

		if !ctx.Quiet {
			color.Green("Generated %s", generator.Output)
		}
	}

	return nil
}

// render produces the output of one generator in memory
func render(name string, generator structscan.GeneratorConfig, config *structscan.Config, source string, doc scanner.Document) ([]byte, error) {
	var buf bytes.Buffer

	switch name {
	case structscan.GeneratorTypeScript:
		gen := tsgen.New(doc,
			tsgen.WithBaseType(generator.StringSetting("base_type", "Prisma.PrismaClientKnownRequestError")),
			tsgen.WithUnionName(generator.StringSetting("union_name", "")),
			tsgen.WithEnumName(generator.StringSetting("enum_name", "")),
			tsgen.WithParams(config.CodeParam, config.MessageParam),
			tsgen.WithTypeMap(generator.StringMapSetting("type_map")),
			tsgen.WithCamelCaseFields(generator.BoolSetting("camel_case_fields", false)),
			tsgen.WithStrict(generator.BoolSetting("strict", false)),
		)
		if err := gen.Generate(&buf); err != nil {
			return nil, err
		}

	case structscan.GeneratorMarkdown, structscan.GeneratorHTML:
		gen := docgen.New(doc,
			docgen.WithTitle(generator.StringSetting("title", "")),
			docgen.WithParams(config.CodeParam, config.MessageParam),
		)

		generate := gen.GenerateMarkdown
		if name == structscan.GeneratorHTML {
			generate = gen.GenerateHTML
		}

		if err := generate(&buf); err != nil {
			return nil, err
		}

	case structscan.GeneratorJSON, structscan.GeneratorYAML, structscan.GeneratorXML:
		if err := intermediate.FromDocument(source, doc).Encode(&buf, intermediate.Format(name)); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: '%s'", ErrGeneratorNotConfigured, name)
	}

	return buf.Bytes(), nil
}
