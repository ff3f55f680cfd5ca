package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/mentalcardgames/mcgverify/internal/browser"
	"github.com/mentalcardgames/mcgverify/internal/runner"
	"github.com/mentalcardgames/mcgverify/internal/scenario"
	"github.com/mentalcardgames/mcgverify/internal/triage"
)

var (
	scenarioFlag   string
	headless       bool
	artifact       string
	timeoutSec     int
	stepTimeoutSec int
	width          int
	height         int
	triageOn       bool
	provider       string
	model          string
	verbose        bool
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "mcgverify <base-url>",
		Short: "Verify the card-game web client end to end",
		Long: `mcgverify drives a headless Chrome against a running card-game web client,
executes a scripted scenario of navigate/click/assert steps located by ARIA
role and accessible name, and reports a pass/fail verdict plus a screenshot.

Example:
  mcgverify http://127.0.0.1:3000
  mcgverify http://127.0.0.1:3000 --scenario scenarios/realtime_updates.toml`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVar(&scenarioFlag, "scenario", "", "Scenario TOML file, or a built-in name (default: realtime-updates)")
	rootCmd.Flags().BoolVar(&headless, "headless", true, "Run Chrome without a visible window")
	rootCmd.Flags().StringVarP(&artifact, "artifact", "o", "verification.png", "Screenshot output path (overwritten)")
	rootCmd.Flags().IntVar(&timeoutSec, "timeout", 60, "Scenario-level soft deadline (seconds)")
	rootCmd.Flags().IntVar(&stepTimeoutSec, "step-timeout", 10, "Default assert step timeout (seconds)")
	rootCmd.Flags().IntVar(&width, "width", 1280, "Viewport width")
	rootCmd.Flags().IntVar(&height, "height", 720, "Viewport height")
	rootCmd.Flags().BoolVar(&triageOn, "triage", false, "Ask an AI provider to diagnose a failed run")
	rootCmd.Flags().StringVar(&provider, "provider", "", "Triage provider: claude, openai (default: from env or claude)")
	rootCmd.Flags().StringVar(&model, "model", "", "Specific triage model override")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	baseURL := args[0]

	log.DefaultLogger = log.Logger{
		Level:  log.InfoLevel,
		Writer: &log.ConsoleWriter{ColorOutput: true},
	}
	if verbose {
		log.DefaultLogger.Level = log.DebugLevel
	}

	sc, err := loadScenario(scenarioFlag)
	if err != nil {
		return err
	}

	fmt.Printf("→ Running scenario %q against %s\n", sc.Name, baseURL)

	cfg := runner.Config{
		ArtifactPath:    artifact,
		ScenarioTimeout: time.Duration(timeoutSec) * time.Second,
		AssertTimeout:   time.Duration(stepTimeoutSec) * time.Second,
	}
	r := runner.New(cfg, func() (runner.Session, error) {
		return browser.Acquire(browser.Config{
			Headless: headless,
			BaseURL:  baseURL,
			Width:    width,
			Height:   height,
		})
	})

	verdict, err := r.Run(sc)
	if err != nil {
		fmt.Printf("✗ fatal: %v\n", err)
		return err
	}

	if verdict.Status == runner.StatusPass {
		fmt.Printf("✓ pass (artifact: %s)\n", verdict.ArtifactPath)
		return nil
	}

	fmt.Printf("✗ fail at step %d: %s\n", verdict.FailingStep, verdict.Reason)
	if verdict.ArtifactPath != "" {
		fmt.Printf("  artifact: %s\n", verdict.ArtifactPath)
	}

	if triageOn {
		runTriage(sc, verdict)
	}

	return fmt.Errorf("scenario %q failed", sc.Name)
}

// loadScenario resolves the --scenario flag: a built-in name, a TOML file
// path, or empty for the default flow.
func loadScenario(flag string) (*scenario.Scenario, error) {
	if sc, ok := scenario.Builtin(flag); ok {
		return sc, nil
	}
	return scenario.Load(flag)
}

// runTriage is best-effort: a triage failure never changes the exit code.
func runTriage(sc *scenario.Scenario, verdict *runner.Verdict) {
	name := provider
	if name == "" {
		name = os.Getenv("MCGVERIFY_DEFAULT_PROVIDER")
		if name == "" {
			name = "claude"
		}
	}

	fmt.Printf("→ Requesting failure triage via %s... ", name)
	p, err := triage.NewProvider(name, model)
	if err != nil {
		fmt.Println("failed")
		log.Warn().Err(err).Msg("triage provider init failed")
		return
	}

	diagnosis, err := p.Explain(triage.FromRun(sc, verdict))
	if err != nil {
		fmt.Println("failed")
		log.Warn().Err(err).Msg("triage failed")
		return
	}

	fmt.Println("done")
	fmt.Println()
	fmt.Println(diagnosis)
}
