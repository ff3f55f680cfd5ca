package triage

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentalcardgames/mcgverify/internal/runner"
	"github.com/mentalcardgames/mcgverify/internal/scenario"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestBuildUserPrompt(t *testing.T) {
	report := Report{
		ScenarioName: "realtime-updates",
		Steps: []string{
			"navigate /",
			`click {role: button, name: "Connect"}`,
			`assert-visible {role: cell, name: "Player"}`,
		},
		FailingStep:   2,
		Reason:        "step 2: timeout exceeded",
		ScreenshotPNG: []byte{1},
	}

	prompt := buildUserPrompt(report)

	assert.Contains(t, prompt, "Scenario: realtime-updates")
	assert.Contains(t, prompt, "✗ 3. assert-visible")
	assert.Contains(t, prompt, "  1. navigate /")
	assert.Contains(t, prompt, "Failure reason: step 2: timeout exceeded")
	assert.Contains(t, prompt, "screenshot captured at the end of the run is attached")
}

func TestBuildUserPromptWithoutScreenshot(t *testing.T) {
	prompt := buildUserPrompt(Report{ScenarioName: "x", Steps: []string{"navigate /"}, FailingStep: 0, Reason: "boom"})
	assert.Contains(t, prompt, "No screenshot is available")
}

func TestDownscalePNG(t *testing.T) {
	data, err := downscalePNG(encodePNG(t, 1600, 900))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, maxImageWidth, img.Bounds().Dx())
	// Aspect ratio preserved.
	assert.Equal(t, 450, img.Bounds().Dy())
}

func TestDownscalePNGPassThroughWhenSmall(t *testing.T) {
	data, err := downscalePNG(encodePNG(t, 320, 200))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
}

func TestDownscalePNGRejectsGarbage(t *testing.T) {
	_, err := downscalePNG([]byte("not an image"))
	assert.Error(t, err)
}

func TestFromRun(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "verification.png")
	require.NoError(t, os.WriteFile(artifact, encodePNG(t, 1280, 720), 0o644))

	sc := scenario.RealtimeUpdates()
	v := &runner.Verdict{
		Status:       runner.StatusFail,
		FailingStep:  4,
		Reason:       "step 4: timeout exceeded",
		ArtifactPath: artifact,
	}

	report := FromRun(sc, v)

	assert.Equal(t, "realtime-updates", report.ScenarioName)
	require.Len(t, report.Steps, 6)
	assert.Equal(t, 4, report.FailingStep)
	assert.NotEmpty(t, report.ScreenshotPNG)

	img, err := png.Decode(bytes.NewReader(report.ScreenshotPNG))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), maxImageWidth)
}

func TestFromRunMissingArtifact(t *testing.T) {
	v := &runner.Verdict{Status: runner.StatusFail, FailingStep: 0, Reason: "boom", ArtifactPath: "/nonexistent/x.png"}
	report := FromRun(scenario.AutostartSnapshot(), v)
	assert.Nil(t, report.ScreenshotPNG)
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider("llama", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}
