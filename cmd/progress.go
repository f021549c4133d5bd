package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/giantswarm/testctl/internal/formatting"
	"github.com/giantswarm/testctl/internal/orchestrator"
)

// progress shows a spinner while a plan runs and follows step events in its
// suffix. A nil *progress is valid and does nothing.
type progress struct {
	s *spinner.Spinner
}

// newProgress returns nil when the output is not an interactive table.
func newProgress(f formatting.Formatter, w io.Writer, suffix string) *progress {
	o := f.GetOptions()
	if o.Format != formatting.FormatTable || o.Quiet || !o.Color {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + suffix
	return &progress{s: s}
}

// events returns the orchestrator callback for this spinner.
func (p *progress) events() orchestrator.EventCallback {
	if p == nil {
		return nil
	}
	return p
}

func (p *progress) start() {
	if p != nil {
		p.s.Start()
	}
}

func (p *progress) stop() {
	if p != nil {
		p.s.Stop()
	}
}

// GenerateStepEvent implements orchestrator.EventCallback.
func (p *progress) GenerateStepEvent(_, stepID, eventType string, _ map[string]interface{}) {
	var suffix string
	switch eventType {
	case orchestrator.EventStepStarted:
		suffix = fmt.Sprintf(" Running %s...", stepID)
	case orchestrator.EventStepFailed:
		suffix = fmt.Sprintf(" %s failed", stepID)
	case orchestrator.EventExecutionHalted:
		suffix = " Halting after critical failure..."
	default:
		return
	}
	p.s.Lock()
	p.s.Suffix = suffix
	p.s.Unlock()
}
