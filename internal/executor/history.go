package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/template"
	"github.com/giantswarm/testctl/pkg/logging"
)

// HistorySource exposes finished executions, newest first.
type HistorySource interface {
	History() []api.ExecutionRecord
}

type emptyHistory struct{}

func (emptyHistory) History() []api.ExecutionRecord { return nil }

// allServices selects every service in history-based executors.
const allServices = "all"

func isAllServices(filter string) bool {
	return filter == "" || strings.EqualFold(filter, allServices)
}

func matchesService(filter, service string) bool {
	return isAllServices(filter) || filter == service
}

// FailureAnalyzer derives TestFailure records from failed steps in the
// execution history.
type FailureAnalyzer struct {
	history HistorySource
}

// NewFailureAnalyzer creates a failure analyzer over history.
func NewFailureAnalyzer(history HistorySource) *FailureAnalyzer {
	if history == nil {
		history = emptyHistory{}
	}
	return &FailureAnalyzer{history: history}
}

// Failures returns the failed steps for service, newest execution first.
func (f *FailureAnalyzer) Failures(service string) []api.TestFailure {
	failures := []api.TestFailure{}
	for _, record := range f.history.History() {
		for _, step := range record.Steps {
			if step.Status != api.StatusFailed || !matchesService(service, step.ServiceName) {
				continue
			}
			failedAt := step.StartedAt.Add(time.Duration(step.DurationMs) * time.Millisecond)
			failures = append(failures, api.TestFailure{
				ExecutionID: record.ExecutionID,
				StepID:      step.StepID,
				ServiceName: step.ServiceName,
				TestType:    step.TestType,
				ActionType:  step.ActionType,
				Message:     step.Message,
				FailedAt:    failedAt,
			})
		}
	}
	return failures
}

// Execute implements Executor.
func (f *FailureAnalyzer) Execute(ctx context.Context, service string, _ map[string]interface{}) api.ExecutionResult {
	logging.Info("Executor", "Analyzing failures for service: %s", service)
	if err := ctx.Err(); err != nil {
		return api.NewFailureResult("Failure analysis failed: " + err.Error())
	}

	failures := f.Failures(service)
	return api.NewSuccessResult("Failure analysis completed", map[string]interface{}{
		"failures": failures,
		"count":    len(failures),
	})
}

const reportTemplate = `Test execution report
Generated: {{ .Generated | date "2006-01-02 15:04:05" }}
Scope: {{ .Scope }}
Executions: {{ len .Executions }} ({{ .Succeeded }} succeeded, {{ .Failed }} failed)
{{ range .Executions }}
{{ .ExecutionID | trunc 8 }} {{ printf "%-9s" .Status }} {{ printf "%dms" .DurationMs }} {{ default "-" .Command | quote }}
{{- range .Steps }}
  {{ printf "%-9s" .Status }} {{ .StepID }}{{ if .Message }}: {{ .Message | trunc 80 }}{{ end }}
{{- end }}
{{ else }}
No executions recorded.
{{ end -}}
`

type reportData struct {
	Generated  time.Time
	Scope      string
	Executions []api.ExecutionRecord
	Succeeded  int
	Failed     int
}

// Reporter renders the execution history as a plain-text report.
type Reporter struct {
	history HistorySource
	engine  *template.Engine
}

// NewReporter creates a reporter over history.
func NewReporter(history HistorySource) *Reporter {
	if history == nil {
		history = emptyHistory{}
	}
	return &Reporter{history: history, engine: template.New()}
}

// Report renders the executions touching service.
func (r *Reporter) Report(service string) (string, int, error) {
	data := reportData{Scope: service, Generated: time.Now()}
	if isAllServices(service) {
		data.Scope = "all services"
	}

	for _, record := range r.history.History() {
		if !touches(record, service) {
			continue
		}
		data.Executions = append(data.Executions, record)
		if record.Status == api.StatusCompleted {
			data.Succeeded++
		} else {
			data.Failed++
		}
	}

	text, err := r.engine.Render("report", reportTemplate, data)
	if err != nil {
		return "", 0, err
	}
	return text, len(data.Executions), nil
}

// Execute implements Executor.
func (r *Reporter) Execute(ctx context.Context, service string, _ map[string]interface{}) api.ExecutionResult {
	logging.Info("Executor", "Generating report for service: %s", service)
	if err := ctx.Err(); err != nil {
		return api.NewFailureResult("Report generation failed: " + err.Error())
	}

	text, count, err := r.Report(service)
	if err != nil {
		return api.NewFailureResult(fmt.Sprintf("Report generation failed: %v", err))
	}
	return api.NewSuccessResult("Report generation completed", map[string]interface{}{
		"service":    service,
		"report":     text,
		"executions": count,
	})
}

func touches(record api.ExecutionRecord, service string) bool {
	if isAllServices(service) {
		return true
	}
	for _, step := range record.Steps {
		if step.ServiceName == service {
			return true
		}
	}
	return false
}
