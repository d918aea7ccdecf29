package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/pulsegraph/internal/compiler"
	"github.com/aretw0/pulsegraph/pkg/domain"
)

// Format selects how a graph file is decoded.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor infers the format from the file extension. Anything that is not
// YAML or JSON is read with the line grammar.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	return FormatText
}

// Loader implements ports.GraphLoader over a single file. The file is read
// on every call so edits are picked up by long running servers.
type Loader struct {
	path   string
	format Format
}

// NewLoader creates a Loader for path, inferring its format.
func NewLoader(path string) *Loader {
	return &Loader{path: path, format: FormatFor(path)}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string { return l.path }

// Name is the graph name: the document's name field when present, otherwise
// the file name without extension.
func (l *Loader) Name() string {
	if l.format != FormatText {
		if data, err := os.ReadFile(l.path); err == nil {
			if doc, err := DecodeDocument(data); err == nil && doc.Name != "" {
				return doc.Name
			}
		}
	}
	base := filepath.Base(l.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadModules reads and decodes the file.
func (l *Loader) LoadModules(ctx context.Context) ([]domain.ModuleSpec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}
	specs, err := Decode(data, l.format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	return specs, nil
}

// Decode turns raw bytes in the given format into module definitions.
func Decode(data []byte, format Format) ([]domain.ModuleSpec, error) {
	if format == FormatText {
		return compiler.NewParser().Parse(data)
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	return doc.Modules, nil
}
