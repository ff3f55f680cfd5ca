// Package triage asks a vision model to explain a failed verification run.
// Triage is advisory: it never changes the verdict or the exit code.
package triage

import (
	"fmt"
	"os"

	"github.com/mentalcardgames/mcgverify/internal/runner"
	"github.com/mentalcardgames/mcgverify/internal/scenario"
)

// Report is the failure context handed to a provider for diagnosis.
type Report struct {
	ScenarioName  string
	Steps         []string // rendered step list, in declaration order
	FailingStep   int
	Reason        string
	ScreenshotPNG []byte // downscaled artifact; nil when unavailable
}

// Provider produces a human-readable diagnosis of a failed run.
type Provider interface {
	Explain(report Report) (string, error)
}

// NewProvider creates a provider by name.
func NewProvider(name, model string) (Provider, error) {
	switch name {
	case "claude", "anthropic":
		return NewClaudeProvider(model)
	case "openai", "gpt":
		return NewOpenAIProvider(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: claude, openai)", name)
	}
}

// FromRun assembles a report from a verdict and its scenario, downscaling
// the artifact to keep vision payloads small. A missing or undecodable
// artifact just leaves the report without a screenshot.
func FromRun(sc *scenario.Scenario, v *runner.Verdict) Report {
	steps := make([]string, len(sc.Steps))
	for i, st := range sc.Steps {
		steps[i] = st.String()
	}

	report := Report{
		ScenarioName: sc.Name,
		Steps:        steps,
		FailingStep:  v.FailingStep,
		Reason:       v.Reason,
	}

	if v.ArtifactPath != "" {
		if data, err := os.ReadFile(v.ArtifactPath); err == nil {
			if small, err := downscalePNG(data); err == nil {
				report.ScreenshotPNG = small
			}
		}
	}

	return report
}
