package template

import (
	"bytes"
	"fmt"
	texttemplate "text/template"

	"github.com/Masterminds/sprig/v3"
)

// Engine renders text templates with the sprig function library available.
type Engine struct {
	funcs texttemplate.FuncMap
}

// New creates a new template engine
func New() *Engine {
	return &Engine{funcs: sprig.TxtFuncMap()}
}

// Render parses text and executes it against data.
func (e *Engine) Render(name, text string, data interface{}) (string, error) {
	tmpl, err := texttemplate.New(name).Funcs(e.funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Validate reports whether text parses.
func (e *Engine) Validate(name, text string) error {
	if _, err := texttemplate.New(name).Funcs(e.funcs).Parse(text); err != nil {
		return fmt.Errorf("parsing template %s: %w", name, err)
	}
	return nil
}
