package formatting

import (
	"encoding/json"
	"fmt"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/catalog"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{
		options: options,
	}
}

// FormatContext writes the analysis as JSON.
func (f *JSONFormatter) FormatContext(cc api.ComprehensiveContext) error {
	return f.FormatData(cc)
}

// FormatResult writes the execution result as JSON.
func (f *JSONFormatter) FormatResult(result api.ExecutionResult) error {
	return f.FormatData(result)
}

// FormatHistory writes the execution records as a JSON array.
func (f *JSONFormatter) FormatHistory(records []api.ExecutionRecord) error {
	if records == nil {
		records = []api.ExecutionRecord{}
	}
	return f.FormatData(records)
}

// FormatCatalog writes the requested registry tables as a JSON object.
func (f *JSONFormatter) FormatCatalog(cat *catalog.Catalog, section CatalogSection) error {
	sections, err := catalogSections(cat, section)
	if err != nil {
		return err
	}
	return f.FormatData(sections)
}

// FormatData formats generic data as indented JSON
func (f *JSONFormatter) FormatData(data interface{}) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	_, err = fmt.Fprintln(f.options.writer(), string(b))
	return err
}

// SetOptions updates the formatter options
func (f *JSONFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *JSONFormatter) GetOptions() Options {
	return f.options
}
