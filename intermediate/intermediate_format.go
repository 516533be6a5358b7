package intermediate

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/shibukawa/structscan/scanner"
)

// FormatVersion is written to every intermediate file
const FormatVersion = "1"

// Param represents one attribute parameter
type Param struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Attribute represents the attribute block preceding a declaration
type Attribute struct {
	Name   string  `json:"name" yaml:"name"`
	Params []Param `json:"params" yaml:"params"`
}

// Field represents a typed member of a declaration
type Field struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	DocComment string `json:"doc_comment,omitempty" yaml:"doc_comment,omitempty"`
}

// Declaration represents a record definition
type Declaration struct {
	Name   string  `json:"name" yaml:"name"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Entry pairs an attribute with its declaration
type Entry struct {
	Attribute   Attribute   `json:"attribute" yaml:"attribute"`
	Declaration Declaration `json:"declaration" yaml:"declaration"`
}

// IntermediateFormat is the serialized form of a scanned document
type IntermediateFormat struct {
	// Format version
	FormatVersion string `json:"format_version" yaml:"format_version"`

	// Source file the declarations were read from
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	Declarations []Entry `json:"declarations" yaml:"declarations"`
}

// FromDocument converts a scanned document
func FromDocument(source string, doc scanner.Document) *IntermediateFormat {
	f := &IntermediateFormat{
		FormatVersion: FormatVersion,
		Source:        source,
		Declarations:  make([]Entry, 0, len(doc)),
	}

	for _, decl := range doc {
		params := make([]Param, 0, len(decl.Attribute.Params))
		for _, p := range decl.Attribute.Params {
			params = append(params, Param{Name: p.Name, Value: p.Value})
		}

		fields := make([]Field, 0, len(decl.Declaration.Fields))
		for _, field := range decl.Declaration.Fields {
			fields = append(fields, Field{Name: field.Name, Type: field.Type, DocComment: field.DocComment})
		}

		f.Declarations = append(f.Declarations, Entry{
			Attribute:   Attribute{Name: decl.Attribute.Name, Params: params},
			Declaration: Declaration{Name: decl.Declaration.Name, Fields: fields},
		})
	}

	return f
}

// Document converts the intermediate format back to a scanned document
func (f *IntermediateFormat) Document() scanner.Document {
	doc := make(scanner.Document, 0, len(f.Declarations))

	for _, entry := range f.Declarations {
		params := make([]scanner.AttributeParam, 0, len(entry.Attribute.Params))
		for _, p := range entry.Attribute.Params {
			params = append(params, scanner.AttributeParam{Name: p.Name, Value: p.Value})
		}

		fields := make([]scanner.Field, 0, len(entry.Declaration.Fields))
		for _, field := range entry.Declaration.Fields {
			fields = append(fields, scanner.Field{Name: field.Name, Type: field.Type, DocComment: field.DocComment})
		}

		doc = append(doc, scanner.AnnotatedDeclaration{
			Attribute:   scanner.Attribute{Name: entry.Attribute.Name, Params: params},
			Declaration: scanner.Declaration{Name: entry.Declaration.Name, Fields: fields},
		})
	}

	return doc
}

// ToJSON serializes the intermediate format to indented JSON
func (f *IntermediateFormat) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal intermediate format: %w", err)
	}

	return append(data, '\n'), nil
}

// FromJSON deserializes the intermediate format from JSON
func FromJSON(data []byte) (*IntermediateFormat, error) {
	var format IntermediateFormat

	err := json.Unmarshal(data, &format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse intermediate format: %w", err)
	}

	return &format, nil
}

// ToYAML serializes the intermediate format to YAML
func (f *IntermediateFormat) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal intermediate format: %w", err)
	}

	return data, nil
}

// FromYAML deserializes the intermediate format from YAML
func FromYAML(data []byte) (*IntermediateFormat, error) {
	var format IntermediateFormat

	err := yaml.Unmarshal(data, &format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse intermediate format: %w", err)
	}

	return &format, nil
}
