package tsgen

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shibukawa/structscan/scanner"
)

// DefaultTypeMap maps the Rust field types found in engine error definitions
var DefaultTypeMap = map[string]string{
	"String":             "string",
	"u64":                "number",
	"DatabaseConstraint": "/* @todo */ object",
}

// unknownType is emitted for field types missing from the type map
const unknownType = "unknown"

// Generator generates TypeScript declarations from a scanned document
type Generator struct {
	Document        scanner.Document
	BaseType        string            // interface every error extends; empty for none
	UnionName       string            // name of the union of all errors
	EnumName        string            // name of the code enum
	CodeParam       string            // attribute parameter holding the code
	MessageParam    string            // attribute parameter holding the message
	TypeMap         map[string]string // Rust type to TypeScript type
	CamelCaseFields bool              // database_user -> databaseUser
	Strict          bool              // fail on declarations without a code
}

// Option is a function that configures Generator
type Option func(*Generator)

// WithBaseType sets the interface every generated error extends
func WithBaseType(name string) Option {
	return func(g *Generator) {
		g.BaseType = name
	}
}

// WithUnionName sets the union type name
func WithUnionName(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.UnionName = name
		}
	}
}

// WithEnumName sets the code enum name
func WithEnumName(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.EnumName = name
		}
	}
}

// WithParams sets the attribute parameters holding code and message
func WithParams(code, message string) Option {
	return func(g *Generator) {
		if code != "" {
			g.CodeParam = code
		}
		if message != "" {
			g.MessageParam = message
		}
	}
}

// WithTypeMap adds or overrides type mappings
func WithTypeMap(types map[string]string) Option {
	return func(g *Generator) {
		for k, v := range types {
			g.TypeMap[k] = v
		}
	}
}

// WithCamelCaseFields converts snake_case field names to camelCase
func WithCamelCaseFields(enabled bool) Option {
	return func(g *Generator) {
		g.CamelCaseFields = enabled
	}
}

// WithStrict makes declarations without a code parameter an error
func WithStrict(enabled bool) Option {
	return func(g *Generator) {
		g.Strict = enabled
	}
}

// New creates a new Generator
func New(doc scanner.Document, opts ...Option) *Generator {
	g := &Generator{
		Document:     doc,
		BaseType:     "Prisma.PrismaClientKnownRequestError",
		UnionName:    "PrismaErrors",
		EnumName:     "PrismaErrorCode",
		CodeParam:    "code",
		MessageParam: "message",
		TypeMap:      make(map[string]string, len(DefaultTypeMap)),
	}
	for k, v := range DefaultTypeMap {
		g.TypeMap[k] = v
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

type fieldData struct {
	Name    string
	Type    string
	Comment string
}

type interfaceData struct {
	Name    string
	Code    string
	HasCode bool
	Message string
	Fields  []fieldData
}

type templateData struct {
	BaseType   string
	UnionName  string
	EnumName   string
	Interfaces []interfaceData
}

const tsTemplate = `// Code generated by structscan. DO NOT EDIT.
{{- range .Interfaces }}

{{ if .Message -}}
/**
 * {{ comment .Message }}
 */
{{ end -}}
export interface {{ .Name }}{{ if $.BaseType }} extends {{ $.BaseType }}{{ end }} {
  code: {{ if .HasCode }}{{ quote .Code }}{{ else }}string{{ end }};
  meta: {
{{- range .Fields }}
{{- if .Comment }}
    /**
     * {{ comment .Comment }}
     */
{{- end }}
    {{ .Name }}: {{ .Type }};
{{- end }}
  };
}
{{- end }}

export type {{ .UnionName }} = {{ union .Interfaces }};

export enum {{ .EnumName }} {
{{- range .Interfaces }}
{{- if .HasCode }}
  {{ .Name }} = {{ quote .Code }},
{{- end }}
{{- end }}
}
`

// Generate writes the TypeScript declarations to w
func (g *Generator) Generate(w io.Writer) error {
	data, err := g.templateData()
	if err != nil {
		return err
	}

	tmpl, err := template.New("typescript").Funcs(template.FuncMap{
		"quote":   quote,
		"comment": escapeComment,
		"union":   union,
	}).Parse(tsTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

func (g *Generator) templateData() (*templateData, error) {
	data := &templateData{
		BaseType:   g.BaseType,
		UnionName:  g.UnionName,
		EnumName:   g.EnumName,
		Interfaces: make([]interfaceData, 0, len(g.Document)),
	}

	for _, decl := range g.Document {
		code, hasCode := decl.Attribute.Param(g.CodeParam)
		if !hasCode && g.Strict {
			return nil, fmt.Errorf("%w: %s has no '%s' parameter", ErrCodeParamMissing, decl.Declaration.Name, g.CodeParam)
		}

		message, _ := decl.Attribute.Param(g.MessageParam)

		iface := interfaceData{
			Name:    decl.Declaration.Name,
			Code:    code,
			HasCode: hasCode,
			Message: message,
			Fields:  make([]fieldData, 0, len(decl.Declaration.Fields)),
		}

		for _, field := range decl.Declaration.Fields {
			iface.Fields = append(iface.Fields, fieldData{
				Name:    g.fieldName(field.Name),
				Type:    g.tsType(field.Type),
				Comment: field.DocComment,
			})
		}

		data.Interfaces = append(data.Interfaces, iface)
	}

	return data, nil
}

func (g *Generator) tsType(rustType string) string {
	if t, ok := g.TypeMap[rustType]; ok {
		return t
	}

	return unknownType
}

func (g *Generator) fieldName(name string) string {
	if !g.CamelCaseFields {
		return name
	}

	return camelCase(name)
}

// camelCase converts snake_case to camelCase
func camelCase(name string) string {
	caser := cases.Title(language.English)

	var builder strings.Builder

	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}

		if builder.Len() == 0 {
			builder.WriteString(part)
		} else {
			builder.WriteString(caser.String(part))
		}
	}

	if builder.Len() == 0 {
		return name
	}

	return builder.String()
}

func quote(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + replacer.Replace(s) + `"`
}

// escapeComment keeps text from closing the surrounding JSDoc block
func escapeComment(s string) string {
	s = strings.ReplaceAll(s, "*/", "*\\/")
	return strings.ReplaceAll(s, "\n", "\n * ")
}

func union(interfaces []interfaceData) string {
	if len(interfaces) == 0 {
		return "never"
	}

	names := make([]string, 0, len(interfaces))
	for _, iface := range interfaces {
		names = append(names, iface.Name)
	}

	return strings.Join(names, " | ")
}
