package scanner

// AttributeParam is one key/value pair inside an attribute block
type AttributeParam struct {
	Name  string
	Value string
}

// Attribute is a #[name(key = "value", ...)] block preceding a declaration
type Attribute struct {
	Name   string
	Params []AttributeParam
}

// Param returns the value of the named parameter.
// When the name is repeated the last occurrence wins.
func (a Attribute) Param(name string) (string, bool) {
	for i := len(a.Params) - 1; i >= 0; i-- {
		if a.Params[i].Name == name {
			return a.Params[i].Value, true
		}
	}

	return "", false
}

// Field is a typed member of a declaration
type Field struct {
	Name       string
	Type       string
	DocComment string // empty when the field has no doc comment
}

// Declaration is a record definition
type Declaration struct {
	Name   string
	Fields []Field
}

// AnnotatedDeclaration pairs a declaration with the attribute written right before it
type AnnotatedDeclaration struct {
	Attribute   Attribute
	Declaration Declaration
}

// Document is the result of one scan, in source order
type Document []AnnotatedDeclaration

// Names returns the declaration names in source order
func (d Document) Names() []string {
	names := make([]string, 0, len(d))
	for _, decl := range d {
		names = append(names, decl.Declaration.Name)
	}

	return names
}
