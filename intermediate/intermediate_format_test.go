package intermediate

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/structscan/scanner"
)

const sample = `#[user_facing(code = "P2002", message = "Unique constraint failed on the {constraint}")]
pub struct UniqueKeyViolation {
    /// Field name from one model from Prisma schema
    pub constraint: DatabaseConstraint,
}

#[user_facing(code = "P1010", message = "User was denied access")]
pub struct DatabaseAccessDenied {
    pub database_user: String,
    pub database_name: String,
}
`

func parseSample(t *testing.T) scanner.Document {
	t.Helper()

	doc, err := scanner.Parse(sample)
	assert.NoError(t, err)

	return doc
}

func TestFromDocument(t *testing.T) {
	f := FromDocument("errors.rs", parseSample(t))

	assert.Equal(t, FormatVersion, f.FormatVersion)
	assert.Equal(t, "errors.rs", f.Source)
	assert.Equal(t, 2, len(f.Declarations))
	assert.Equal(t, Entry{
		Attribute: Attribute{
			Name: "user_facing",
			Params: []Param{
				{Name: "code", Value: "P2002"},
				{Name: "message", Value: "Unique constraint failed on the {constraint}"},
			},
		},
		Declaration: Declaration{
			Name: "UniqueKeyViolation",
			Fields: []Field{
				{Name: "constraint", Type: "DatabaseConstraint", DocComment: "Field name from one model from Prisma schema"},
			},
		},
	}, f.Declarations[0])
}

func TestJSONShape(t *testing.T) {
	f := FromDocument("errors.rs", parseSample(t))

	data, err := f.ToJSON()
	assert.NoError(t, err)

	json := string(data)
	assert.Contains(t, json, `"format_version": "1"`)
	assert.Contains(t, json, `"doc_comment": "Field name from one model from Prisma schema"`)
	assert.NotContains(t, json, `"doc_comment": ""`)
}

func TestRoundTrip(t *testing.T) {
	doc := parseSample(t)

	for _, format := range []Format{FormatJSON, FormatYAML, FormatXML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			err := FromDocument("errors.rs", doc).Encode(&buf, format)
			assert.NoError(t, err)

			decoded, err := Unmarshal(buf.Bytes(), format)
			assert.NoError(t, err)
			assert.Equal(t, "errors.rs", decoded.Source)
			assert.Equal(t, doc, decoded.Document())
		})
	}
}

func TestXMLLayout(t *testing.T) {
	data, err := FromDocument("", parseSample(t)).ToXML()
	assert.NoError(t, err)

	xml := string(data)
	assert.True(t, strings.HasPrefix(xml, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, xml, `<declaration name="DatabaseAccessDenied">`)
	assert.Contains(t, xml, `<param name="code">P1010</param>`)
	assert.Contains(t, xml, `<field name="database_user" type="String"/>`)
	assert.NotContains(t, xml, `source=`)
}

func TestFromXMLWithoutRoot(t *testing.T) {
	_, err := FromXML([]byte(`<other/>`))
	assert.IsError(t, err, ErrNoDeclarationsElement)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"YAML", FormatYAML},
		{"yml", FormatYAML},
		{"xml", FormatXML},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := ParseFormat(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}

	_, err := ParseFormat("toml")
	assert.IsError(t, err, ErrUnknownFormat)

	format, err := FormatFromPath("out/errors.yml")
	assert.NoError(t, err)
	assert.Equal(t, FormatYAML, format)
}
