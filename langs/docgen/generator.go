// Package docgen renders a reference of scanned declarations as Markdown or HTML.
package docgen

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shibukawa/structscan/scanner"
)

// Generator generates reference documents from a scanned document
type Generator struct {
	Document     scanner.Document
	Title        string // document heading; derived from the attribute name when empty
	CodeParam    string
	MessageParam string
}

// Option is a function that configures Generator
type Option func(*Generator)

// WithTitle sets the document heading
func WithTitle(title string) Option {
	return func(g *Generator) {
		g.Title = title
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

// New creates a new Generator
func New(doc scanner.Document, opts ...Option) *Generator {
	g := &Generator{
		Document:     doc,
		CodeParam:    "code",
		MessageParam: "message",
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

type fieldData struct {
	Name       string
	Type       string
	DocComment string
}

type entryData struct {
	Name      string
	Attribute string
	Code      string
	Message   string
	Fields    []fieldData
}

type templateData struct {
	Header  string
	Title   string
	Entries []entryData
}

const generatedHeader = "<!-- Code generated by structscan. DO NOT EDIT. -->"

const markdownTemplate = `{{ if .Header }}{{ .Header }}

{{ end }}# {{ .Title }}
{{- if .Entries }}

| Code | Name | Message |
| --- | --- | --- |
{{- range .Entries }}
| {{ code .Code }} | [{{ .Name }}](#{{ anchor .Name }}) | {{ cell .Message }} |
{{- end }}
{{- range .Entries }}

## {{ .Name }}

- Code: {{ code .Code }}
- Attribute: ` + "`{{ .Attribute }}`" + `
{{- if .Message }}

{{ .Message }}
{{- end }}
{{- if .Fields }}

| Field | Type | Description |
| --- | --- | --- |
{{- range .Fields }}
| ` + "`{{ .Name }}`" + ` | ` + "`{{ .Type }}`" + ` | {{ cell .DocComment }} |
{{- end }}
{{- end }}
{{- end }}
{{- else }}

No declarations.
{{- end }}
`

// GenerateMarkdown writes the Markdown reference to w
func (g *Generator) GenerateMarkdown(w io.Writer) error {
	return g.render(w, generatedHeader)
}

func (g *Generator) render(w io.Writer, header string) error {
	tmpl, err := template.New("markdown").Funcs(template.FuncMap{
		"code":   codeCell,
		"anchor": strings.ToLower,
		"cell":   escapeCell,
	}).Parse(markdownTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, g.templateData(header)); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

// GenerateHTML renders the Markdown reference into a standalone HTML page
func (g *Generator) GenerateHTML(w io.Writer) error {
	var source bytes.Buffer
	if err := g.render(&source, ""); err != nil {
		return err
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	var body bytes.Buffer
	if err := md.Convert(source.Bytes(), &body); err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
%s
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`, generatedHeader, html.EscapeString(g.title()), body.String())

	return err
}

func (g *Generator) templateData(header string) *templateData {
	data := &templateData{
		Header:  header,
		Title:   g.title(),
		Entries: make([]entryData, 0, len(g.Document)),
	}

	for _, decl := range g.Document {
		code, _ := decl.Attribute.Param(g.CodeParam)
		message, _ := decl.Attribute.Param(g.MessageParam)

		entry := entryData{
			Name:      decl.Declaration.Name,
			Attribute: decl.Attribute.Name,
			Code:      code,
			Message:   message,
			Fields:    make([]fieldData, 0, len(decl.Declaration.Fields)),
		}

		for _, field := range decl.Declaration.Fields {
			entry.Fields = append(entry.Fields, fieldData{
				Name:       field.Name,
				Type:       field.Type,
				DocComment: field.DocComment,
			})
		}

		data.Entries = append(data.Entries, entry)
	}

	return data
}

// title returns the configured title or one built from the first attribute name,
// user_facing becoming "User Facing Reference".
func (g *Generator) title() string {
	if g.Title != "" {
		return g.Title
	}

	if len(g.Document) == 0 || g.Document[0].Attribute.Name == "" {
		return "Reference"
	}

	words := strings.ReplaceAll(g.Document[0].Attribute.Name, "_", " ")

	return cases.Title(language.English).String(words) + " Reference"
}

func codeCell(code string) string {
	if code == "" {
		return "-"
	}

	return "`" + code + "`"
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
