package formatting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/catalog"
)

const maxCellWidth = 100

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	options.Format = FormatTable
	return &TableFormatter{
		options: options,
	}
}

// FormatContext prints the analysis summary followed by the planned steps.
func (f *TableFormatter) FormatContext(cc api.ComprehensiveContext) error {
	w := f.options.writer()

	if !f.options.Quiet {
		fmt.Fprintf(w, "%s %s\n", f.paint(text.FgHiBlue, "Command:"), cc.Command)
	}

	summary := f.createTable()
	summary.AppendRows([]table.Row{
		{f.key("Test types"), joinValues(cc.TestTypes)},
		{f.key("Services"), orDash(strings.Join(cc.Services, ", "))},
		{f.key("Actions"), joinValues(cc.Actions)},
		{f.key("Affected"), fmt.Sprintf("%s (blast radius %d, %s)",
			orDash(strings.Join(cc.Dependencies.AffectedServices, ", ")),
			cc.Dependencies.BlastRadius, cc.Dependencies.SeverityLevel)},
		{f.key("Risk"), f.risk(cc.RiskAssessment.OverallRiskLevel)},
		{f.key("Strategy"), string(cc.ExecutionPlan.ExecutionStrategy)},
		{f.key("Order"), orDash(cc.ExecutionPlan.ExecutionOrder)},
		{f.key("Duration"), cc.EstimatedDuration},
		{f.key("Resources"), fmt.Sprintf("cpu %s, memory %s, priority %s",
			cc.ResourceRequirements.CPU, cc.ResourceRequirements.Memory, cc.ResourceRequirements.Priority)},
		{f.key("Confidence"), fmt.Sprintf("%.0f%%", cc.Confidence*100)},
	})
	summary.Render()

	if len(cc.ExecutionPlan.Steps) > 0 {
		steps := f.createTable()
		steps.AppendHeader(f.header("STEP", "ACTION", "SERVICE", "TEST TYPE", "DEPENDS ON", "DURATION"))
		for _, s := range cc.ExecutionPlan.Steps {
			steps.AppendRow(table.Row{
				s.StepID,
				string(s.ActionType),
				s.ServiceName,
				orDash(string(s.TestType)),
				orDash(strings.Join(s.Dependencies, ", ")),
				s.EstimatedDuration,
			})
		}
		steps.Render()
	}

	f.printList(text.FgYellow, "Warnings", cc.Warnings)
	f.printList(text.FgHiGreen, "Suggestions", cc.Suggestions)
	return nil
}

// FormatResult prints the outcome line, the per-step table when the result
// carries one, and any remaining data as key/value rows.
func (f *TableFormatter) FormatResult(result api.ExecutionResult) error {
	w := f.options.writer()

	status := f.paint(text.FgHiGreen, "✓ SUCCESS")
	if !result.Success {
		status = f.paint(text.FgHiRed, "✗ FAILED")
	}
	fmt.Fprintf(w, "%s %s\n", status, result.Message)

	rest := make(map[string]interface{}, len(result.Data))
	for k, v := range result.Data {
		rest[k] = v
	}

	if outcomes, ok := rest["steps"].([]api.StepOutcome); ok {
		delete(rest, "steps")
		if len(outcomes) > 0 {
			t := f.createTable()
			t.AppendHeader(f.header("STEP", "SERVICE", "STATUS", "DURATION", "MESSAGE"))
			for _, o := range outcomes {
				t.AppendRow(table.Row{
					o.StepID,
					o.ServiceName,
					f.status(o.Status),
					fmt.Sprintf("%dms", o.DurationMs),
					truncate(o.Message, maxCellWidth),
				})
			}
			t.Render()
		}
	}

	if len(rest) > 0 && !f.options.Quiet {
		return f.formatObjectData(rest)
	}
	return nil
}

// FormatHistory prints one row per execution, newest first.
func (f *TableFormatter) FormatHistory(records []api.ExecutionRecord) error {
	if len(records) == 0 {
		fmt.Fprint(f.options.writer(), f.formatEmptyMessage("📋", "No executions recorded"))
		return nil
	}

	t := f.createTable()
	t.AppendHeader(f.header("EXECUTION", "STATUS", "STRATEGY", "STEPS", "DURATION", "STARTED", "COMMAND"))
	for _, r := range records {
		t.AppendRow(table.Row{
			r.ExecutionID,
			f.status(r.Status),
			orDash(string(r.Strategy)),
			len(r.Steps),
			fmt.Sprintf("%dms", r.DurationMs),
			r.StartedAt.Format("2006-01-02 15:04:05"),
			truncate(orDash(r.Command), 60),
		})
	}
	t.Render()
	return nil
}

// FormatCatalog prints the requested registry tables.
func (f *TableFormatter) FormatCatalog(cat *catalog.Catalog, section CatalogSection) error {
	if _, err := catalogSections(cat, section); err != nil {
		return err
	}

	if section == SectionAll || section == SectionTestTypes {
		t := f.createTable()
		t.SetTitle("Test types")
		t.AppendHeader(f.header("TEST TYPE", "RISK", "CRITICALITY", "PARALLEL", "TIME", "TOOLS"))
		for _, tt := range cat.TestTypes() {
			t.AppendRow(table.Row{
				string(tt.TestType),
				f.risk(tt.RiskLevel),
				string(tt.Criticality),
				yesNo(tt.Parallelizable),
				tt.ExecutionTime,
				truncate(strings.Join(tt.Tools, ", "), 40),
			})
		}
		t.Render()
	}

	if section == SectionAll || section == SectionServices {
		t := f.createTable()
		t.SetTitle("Services")
		t.AppendHeader(f.header("SERVICE", "PORT", "CRITICALITY", "ISOLATABLE", "ENDPOINTS", "DEPENDS ON"))
		for _, s := range cat.Services() {
			t.AppendRow(table.Row{
				s.Name,
				s.Port,
				f.risk(s.Criticality),
				yesNo(s.Isolatable),
				s.EndpointCount,
				orDash(strings.Join(s.Dependencies, ", ")),
			})
		}
		t.Render()
	}

	if section == SectionAll || section == SectionActions {
		t := f.createTable()
		t.SetTitle("Actions")
		t.AppendHeader(f.header("ACTION", "RISK", "CRITICALITY", "PARALLEL", "TIME", "OUTPUTS"))
		for _, a := range cat.Actions() {
			t.AppendRow(table.Row{
				string(a.ActionType),
				f.risk(a.RiskLevel),
				string(a.Criticality),
				yesNo(a.Parallelizable),
				a.ExecutionTime,
				truncate(strings.Join(a.OutputTypes, ", "), 40),
			})
		}
		t.Render()
	}
	return nil
}

// FormatData formats generic data using table logic
func (f *TableFormatter) FormatData(data interface{}) error {
	switch d := data.(type) {
	case map[string]interface{}:
		return f.formatObjectData(d)
	case []interface{}:
		return f.formatArrayData(d)
	case string:
		fmt.Fprintln(f.options.writer(), d)
	default:
		fmt.Fprintf(f.options.writer(), "%v\n", d)
	}
	return nil
}

// SetOptions updates the formatter options
func (f *TableFormatter) SetOptions(options Options) {
	options.Format = FormatTable
	f.options = options
}

// GetOptions returns the current formatter options
func (f *TableFormatter) GetOptions() Options {
	return f.options
}

// Helper methods

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.options.writer())
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) paint(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}

func (f *TableFormatter) key(s string) string {
	return f.paint(text.FgHiCyan, s)
}

func (f *TableFormatter) header(names ...string) table.Row {
	row := make(table.Row, len(names))
	for i, n := range names {
		row[i] = f.paint(text.FgHiCyan, n)
	}
	return row
}

func (f *TableFormatter) risk(level api.RiskLevel) string {
	switch level {
	case api.RiskCritical, api.RiskHigh:
		return f.paint(text.FgHiRed, string(level))
	case api.RiskMedium:
		return f.paint(text.FgYellow, string(level))
	default:
		return f.paint(text.FgGreen, string(level))
	}
}

func (f *TableFormatter) status(s api.StepStatus) string {
	switch s {
	case api.StatusCompleted:
		return f.paint(text.FgHiGreen, string(s))
	case api.StatusFailed:
		return f.paint(text.FgHiRed, string(s))
	case api.StatusRunning:
		return f.paint(text.FgHiBlue, string(s))
	default:
		return f.paint(text.FgYellow, string(s))
	}
}

func (f *TableFormatter) printList(c text.Color, title string, items []string) {
	if len(items) == 0 || f.options.Quiet {
		return
	}
	w := f.options.writer()
	fmt.Fprintf(w, "\n%s\n", f.paint(c, title+":"))
	for _, item := range items {
		fmt.Fprintf(w, "  • %s\n", item)
	}
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(icon, message string) string {
	return fmt.Sprintf("%s %s\n", f.paint(text.FgYellow, icon), f.paint(text.FgYellow, message))
}

// formatObjectData formats object data as key-value pairs, sorted by key
func (f *TableFormatter) formatObjectData(data map[string]interface{}) error {
	t := f.createTable()
	t.AppendHeader(f.header("KEY", "VALUE"))

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		t.AppendRow(table.Row{
			f.key(key),
			truncate(fmt.Sprintf("%v", data[key]), maxCellWidth),
		})
	}

	t.Render()
	return nil
}

// formatArrayData formats array data as a simple list
func (f *TableFormatter) formatArrayData(data []interface{}) error {
	w := f.options.writer()
	if len(data) == 0 {
		fmt.Fprint(w, f.formatEmptyMessage("📋", "No items found"))
		return nil
	}

	for i, item := range data {
		fmt.Fprintf(w, "  %d. %v\n", i+1, item)
	}

	fmt.Fprintf(w, "\n%s %s %s\n",
		f.paint(text.FgHiBlue, "Total:"),
		f.paint(text.FgHiWhite, fmt.Sprint(len(data))),
		f.paint(text.FgHiBlue, "items"))

	return nil
}
