// Package filter selects declarations with CEL expressions.
//
// An expression sees these variables:
//
//	name       string               declaration name
//	attribute  string               attribute name
//	params     map(string, string)  attribute parameters (last one wins on duplicates)
//	code       string               value of the code parameter, "" when missing
//	message    string               value of the message parameter, "" when missing
//	fields     list(string)         field names in source order
//	types      map(string, string)  field name to field type
//
// For example `attribute == "user_facing" && code.startsWith("P1")`.
package filter

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/shibukawa/structscan/scanner"
)

// Sentinel errors
var (
	ErrFilterCompile = errors.New("failed to compile filter expression")
	ErrFilterNotBool = errors.New("filter expression must evaluate to bool")
	ErrFilterEval    = errors.New("failed to evaluate filter expression")
)

// Filter is a compiled CEL filter expression. It is safe for concurrent use.
type Filter struct {
	expression   string
	program      cel.Program
	codeParam    string
	messageParam string
}

// Option is a function that configures Filter
type Option func(*Filter)

// WithCodeParam sets the attribute parameter exposed as `code`
func WithCodeParam(name string) Option {
	return func(f *Filter) {
		f.codeParam = name
	}
}

// WithMessageParam sets the attribute parameter exposed as `message`
func WithMessageParam(name string) Option {
	return func(f *Filter) {
		f.messageParam = name
	}
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.HomogeneousAggregateLiterals(),
		cel.EagerlyValidateDeclarations(true),
		cel.Variable("name", cel.StringType),
		cel.Variable("attribute", cel.StringType),
		cel.Variable("params", cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable("code", cel.StringType),
		cel.Variable("message", cel.StringType),
		cel.Variable("fields", cel.ListType(cel.StringType)),
		cel.Variable("types", cel.MapType(cel.StringType, cel.StringType)),
	)
}

// New compiles expression
func New(expression string, opts ...Option) (*Filter, error) {
	f := &Filter{
		expression:   expression,
		codeParam:    "code",
		messageParam: "message",
	}
	for _, opt := range opts {
		opt(f)
	}

	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create filter environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrFilterCompile, issues.Err())
	}

	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: '%s' is %s", ErrFilterNotBool, expression, ast.OutputType())
	}

	f.program, err = env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFilterCompile, err)
	}

	return f, nil
}

// String returns the source expression
func (f *Filter) String() string {
	return f.expression
}

// Match reports whether decl satisfies the expression
func (f *Filter) Match(decl scanner.AnnotatedDeclaration) (bool, error) {
	out, _, err := f.program.Eval(f.activation(decl))
	if err != nil {
		return false, fmt.Errorf("%w on %s: %w", ErrFilterEval, decl.Declaration.Name, err)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: got %v", ErrFilterNotBool, out.Value())
	}

	return matched, nil
}

// Apply returns the declarations of doc that satisfy the expression, in source order
func (f *Filter) Apply(doc scanner.Document) (scanner.Document, error) {
	result := scanner.Document{}

	for _, decl := range doc {
		matched, err := f.Match(decl)
		if err != nil {
			return nil, err
		}

		if matched {
			result = append(result, decl)
		}
	}

	return result, nil
}

func (f *Filter) activation(decl scanner.AnnotatedDeclaration) map[string]any {
	params := make(map[string]string, len(decl.Attribute.Params))
	for _, p := range decl.Attribute.Params {
		params[p.Name] = p.Value
	}

	fields := make([]string, 0, len(decl.Declaration.Fields))
	types := make(map[string]string, len(decl.Declaration.Fields))

	for _, field := range decl.Declaration.Fields {
		fields = append(fields, field.Name)
		types[field.Name] = field.Type
	}

	return map[string]any{
		"name":      decl.Declaration.Name,
		"attribute": decl.Attribute.Name,
		"params":    params,
		"code":      params[f.codeParam],
		"message":   params[f.messageParam],
		"fields":    fields,
		"types":     types,
	}
}

// ByAttribute keeps the declarations whose attribute is named name.
// An empty name keeps everything.
func ByAttribute(doc scanner.Document, name string) scanner.Document {
	if name == "" {
		return doc
	}

	result := scanner.Document{}

	for _, decl := range doc {
		if decl.Attribute.Name == name {
			result = append(result, decl)
		}
	}

	return result
}
