package catalog

import (
	"reflect"

	"github.com/shibukawa/structscan/scanner"
)

// Diff lists declaration names that differ between two documents.
// Declarations are matched by name; the first occurrence of a duplicated name is used.
type Diff struct {
	Added   []string
	Removed []string
	Changed []string
}

// Empty reports whether the documents were equivalent
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Compare computes the difference from before to after, in source order
func Compare(before, after scanner.Document) Diff {
	diff := Diff{
		Added:   []string{},
		Removed: []string{},
		Changed: []string{},
	}

	previous := byName(before)
	current := byName(after)
	seen := make(map[string]bool, len(after))

	for _, decl := range after {
		name := decl.Declaration.Name
		if seen[name] {
			continue
		}

		seen[name] = true

		old, ok := previous[name]
		if !ok {
			diff.Added = append(diff.Added, name)
		} else if !reflect.DeepEqual(old, current[name]) {
			diff.Changed = append(diff.Changed, name)
		}
	}

	for _, decl := range before {
		name := decl.Declaration.Name
		if _, ok := current[name]; ok || seen[name] {
			continue
		}

		seen[name] = true
		diff.Removed = append(diff.Removed, name)
	}

	return diff
}

func byName(doc scanner.Document) map[string]scanner.AnnotatedDeclaration {
	result := make(map[string]scanner.AnnotatedDeclaration, len(doc))

	for _, decl := range doc {
		if _, ok := result[decl.Declaration.Name]; !ok {
			result[decl.Declaration.Name] = decl
		}
	}

	return result
}
