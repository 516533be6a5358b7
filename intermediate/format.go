package intermediate

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Sentinel errors
var (
	ErrUnknownFormat         = errors.New("unknown intermediate format")
	ErrNoDeclarationsElement = errors.New("no declarations element found")
)

// Format is a serialization of the intermediate document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatXML:
		return FormatXML, nil
	}

	return "", fmt.Errorf("%w: '%s'", ErrUnknownFormat, name)
}

// FormatFromPath guesses the format from a file extension
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Marshal serializes f in the given format
func (f *IntermediateFormat) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return f.ToJSON()
	case FormatYAML:
		return f.ToYAML()
	case FormatXML:
		return f.ToXML()
	}

	return nil, fmt.Errorf("%w: '%s'", ErrUnknownFormat, format)
}

// Encode writes f to w in the given format
func (f *IntermediateFormat) Encode(w io.Writer, format Format) error {
	data, err := f.Marshal(format)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// Unmarshal parses data in the given format
func Unmarshal(data []byte, format Format) (*IntermediateFormat, error) {
	switch format {
	case FormatJSON:
		return FromJSON(data)
	case FormatYAML:
		return FromYAML(data)
	case FormatXML:
		return FromXML(data)
	}

	return nil, fmt.Errorf("%w: '%s'", ErrUnknownFormat, format)
}
