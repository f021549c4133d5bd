package formatting

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/catalog"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{
		options: options,
	}
}

// FormatContext writes the analysis as YAML.
func (f *YAMLFormatter) FormatContext(cc api.ComprehensiveContext) error {
	return f.FormatData(cc)
}

// FormatResult writes the execution result as YAML.
func (f *YAMLFormatter) FormatResult(result api.ExecutionResult) error {
	return f.FormatData(result)
}

// FormatHistory writes the execution records as a YAML sequence.
func (f *YAMLFormatter) FormatHistory(records []api.ExecutionRecord) error {
	if records == nil {
		records = []api.ExecutionRecord{}
	}
	return f.FormatData(records)
}

// FormatCatalog writes the requested registry tables as a YAML mapping.
func (f *YAMLFormatter) FormatCatalog(cat *catalog.Catalog, section CatalogSection) error {
	sections, err := catalogSections(cat, section)
	if err != nil {
		return err
	}
	return f.FormatData(sections)
}

// FormatData formats generic data as YAML
func (f *YAMLFormatter) FormatData(data interface{}) error {
	yamlBytes, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to format YAML: %w", err)
	}
	_, err = f.options.writer().Write(yamlBytes)
	return err
}

// SetOptions updates the formatter options
func (f *YAMLFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *YAMLFormatter) GetOptions() Options {
	return f.options
}
