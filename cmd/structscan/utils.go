package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shibukawa/structscan"
	"github.com/shibukawa/structscan/filter"
	"github.com/shibukawa/structscan/scanner"
)

// resolveInput picks the input file from the command line or the configuration
func resolveInput(flag string, config *structscan.Config) (string, error) {
	if flag != "" {
		return flag, nil
	}

	if config.Input != "" {
		return config.Input, nil
	}

	return "", structscan.ErrInputNotSpecified
}

// scanFile reads and scans path
func scanFile(path string) (scanner.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	doc, err := scanner.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}

	return doc, nil
}

// selectDeclarations applies the attribute restriction and the CEL filter.
// expression overrides the filter from the configuration when not empty.
func selectDeclarations(doc scanner.Document, config *structscan.Config, expression string) (scanner.Document, error) {
	doc = filter.ByAttribute(doc, config.Attribute)

	if expression == "" {
		expression = config.Filter
	}

	if expression == "" {
		return doc, nil
	}

	f, err := filter.New(expression,
		filter.WithCodeParam(config.CodeParam),
		filter.WithMessageParam(config.MessageParam),
	)
	if err != nil {
		return nil, err
	}

	return f.Apply(doc)
}

// loadDocument runs the shared front half of every command: config, input, scan, filter
func loadDocument(ctx *Context, input, expression string) (*structscan.Config, string, scanner.Document, error) {
	config, err := structscan.LoadConfig(ctx.Config)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	path, err := resolveInput(input, config)
	if err != nil {
		return nil, "", nil, err
	}

	doc, err := scanFile(path)
	if err != nil {
		return nil, "", nil, err
	}

	doc, err = selectDeclarations(doc, config, expression)
	if err != nil {
		return nil, "", nil, err
	}

	return config, path, doc, nil
}

// ensureDir creates a directory if it doesn't exist
func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0755)
	}

	return nil
}

// writeFile writes content to a file, creating directories if necessary
func writeFile(path string, content []byte) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return os.WriteFile(path, content, 0644)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
