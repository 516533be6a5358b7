package intermediate

import (
	"fmt"

	"github.com/beevik/etree"
)

// ToXML serializes the intermediate format to XML:
//
//	<declarations format_version="1" source="errors.rs">
//	  <declaration name="Foo">
//	    <attribute name="err"><param name="code">E1</param></attribute>
//	    <field name="id" type="u64">doc comment</field>
//	  </declaration>
//	</declarations>
func (f *IntermediateFormat) ToXML() ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("declarations")
	root.CreateAttr("format_version", f.FormatVersion)

	if f.Source != "" {
		root.CreateAttr("source", f.Source)
	}

	for _, entry := range f.Declarations {
		decl := root.CreateElement("declaration")
		decl.CreateAttr("name", entry.Declaration.Name)

		attr := decl.CreateElement("attribute")
		attr.CreateAttr("name", entry.Attribute.Name)

		for _, p := range entry.Attribute.Params {
			param := attr.CreateElement("param")
			param.CreateAttr("name", p.Name)
			param.SetText(p.Value)
		}

		for _, field := range entry.Declaration.Fields {
			el := decl.CreateElement("field")
			el.CreateAttr("name", field.Name)
			el.CreateAttr("type", field.Type)

			if field.DocComment != "" {
				el.SetText(field.DocComment)
			}
		}
	}

	doc.Indent(2)

	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal intermediate format: %w", err)
	}

	return data, nil
}

// FromXML deserializes the intermediate format from XML written by ToXML
func FromXML(data []byte) (*IntermediateFormat, error) {
	doc := etree.NewDocument()

	err := doc.ReadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse intermediate format: %w", err)
	}

	root := doc.SelectElement("declarations")
	if root == nil {
		return nil, ErrNoDeclarationsElement
	}

	f := &IntermediateFormat{
		FormatVersion: root.SelectAttrValue("format_version", ""),
		Source:        root.SelectAttrValue("source", ""),
		Declarations:  []Entry{},
	}

	for _, decl := range root.SelectElements("declaration") {
		entry := Entry{
			Declaration: Declaration{
				Name:   decl.SelectAttrValue("name", ""),
				Fields: []Field{},
			},
			Attribute: Attribute{Params: []Param{}},
		}

		if attr := decl.SelectElement("attribute"); attr != nil {
			entry.Attribute.Name = attr.SelectAttrValue("name", "")

			for _, param := range attr.SelectElements("param") {
				entry.Attribute.Params = append(entry.Attribute.Params, Param{
					Name:  param.SelectAttrValue("name", ""),
					Value: param.Text(),
				})
			}
		}

		for _, field := range decl.SelectElements("field") {
			entry.Declaration.Fields = append(entry.Declaration.Fields, Field{
				Name:       field.SelectAttrValue("name", ""),
				Type:       field.SelectAttrValue("type", ""),
				DocComment: field.Text(),
			})
		}

		f.Declarations = append(f.Declarations, entry)
	}

	return f, nil
}
