package triage

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a senior test engineer reviewing a failed end-to-end browser verification run against a real-time card game web client.

You will receive:
1. The ordered list of scenario steps, with the failing step marked
2. The failure reason reported by the harness
3. A screenshot captured at the moment the run ended (when available)

Produce a short diagnosis (at most one paragraph) of the most likely cause. Distinguish between:
- the application genuinely not rendering the expected state (client or server bug)
- the expected state arriving too late (slow backend, timeout too tight)
- the scenario itself being stale (renamed labels, changed markup roles)

Base visual claims only on what is actually in the screenshot. If the screenshot contradicts the failure reason, say so. Do not suggest code changes; name the suspected cause and what to check next.`

func buildUserPrompt(r Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Scenario: %s\n\nSteps:\n", r.ScenarioName)
	for i, step := range r.Steps {
		marker := "  "
		if i == r.FailingStep {
			marker = "✗ "
		}
		fmt.Fprintf(&b, "%s%d. %s\n", marker, i+1, step)
	}

	fmt.Fprintf(&b, "\nFailure reason: %s\n", r.Reason)

	if len(r.ScreenshotPNG) > 0 {
		b.WriteString("\nThe screenshot captured at the end of the run is attached.\n")
	} else {
		b.WriteString("\nNo screenshot is available for this run.\n")
	}

	return b.String()
}
