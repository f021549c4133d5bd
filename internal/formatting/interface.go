// Package formatting renders analysis contexts, execution results, history
// and the registry tables for the CLI and the interactive shell.
//
// Three output formats are supported: a colored table layout for people and
// JSON or YAML for scripts.
package formatting

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/catalog"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table, json or yaml)", s)
	}
}

// CatalogSection selects which registry table FormatCatalog renders.
type CatalogSection string

const (
	SectionAll       CatalogSection = ""
	SectionTestTypes CatalogSection = "test-types"
	SectionServices  CatalogSection = "services"
	SectionActions   CatalogSection = "actions"
)

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool      // Suppress decorative elements
	Color  bool      // Enable colored output
	Writer io.Writer // Defaults to os.Stdout
}

func (o Options) writer() io.Writer {
	if o.Writer == nil {
		return os.Stdout
	}
	return o.Writer
}

// Formatter renders testctl values in one output format.
type Formatter interface {
	FormatContext(cc api.ComprehensiveContext) error
	FormatResult(result api.ExecutionResult) error
	FormatHistory(records []api.ExecutionRecord) error
	FormatCatalog(cat *catalog.Catalog, section CatalogSection) error

	// Generic data formatting
	FormatData(data interface{}) error

	// Configuration
	SetOptions(options Options)
	GetOptions() Options
}

// Factory creates formatters for different output formats
type Factory interface {
	CreateFormatter(options Options) Formatter
}

// NewFactory creates a new formatter factory
func NewFactory() Factory {
	return &factory{}
}

// factory implements the Factory interface
type factory struct{}

// CreateFormatter creates the appropriate formatter based on options
func (f *factory) CreateFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	default:
		return NewTableFormatter(options)
	}
}

// catalogSections collects the requested registry tables keyed by section.
func catalogSections(cat *catalog.Catalog, section CatalogSection) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	switch section {
	case SectionAll:
		out[string(SectionTestTypes)] = cat.TestTypes()
		out[string(SectionServices)] = cat.Services()
		out[string(SectionActions)] = cat.Actions()
	case SectionTestTypes:
		out[string(section)] = cat.TestTypes()
	case SectionServices:
		out[string(section)] = cat.Services()
	case SectionActions:
		out[string(section)] = cat.Actions()
	default:
		return nil, fmt.Errorf("unknown catalog section %q (use test-types, services or actions)", section)
	}
	return out, nil
}
