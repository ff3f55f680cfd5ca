// Package runner drives one scenario from session acquisition to verdict.
package runner

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/phuslu/log"

	"github.com/mentalcardgames/mcgverify/internal/executor"
	"github.com/mentalcardgames/mcgverify/internal/overlay"
	"github.com/mentalcardgames/mcgverify/internal/scenario"
)

// Status is the outcome of a run.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// Verdict is produced exactly once per scenario run.
type Verdict struct {
	Status       Status
	FailingStep  int    // index of the failing step; -1 on pass
	Reason       string // empty on pass
	ArtifactPath string // empty only if artifact capture itself failed
}

// Session is everything the runner needs from the browser boundary.
type Session interface {
	executor.Session
	Screenshot() ([]byte, error)
	Close()
}

// Config configures one run.
type Config struct {
	ArtifactPath    string
	ScenarioTimeout time.Duration // soft deadline across all steps; 0 disables
	AssertTimeout   time.Duration // default per-assert window
	PollInterval    time.Duration
}

type state int

const (
	stateIdle state = iota
	stateRunning
	stateCompleted
)

// Runner executes exactly one scenario. A fresh instance is required per
// run; reuse is rejected.
type Runner struct {
	cfg     Config
	state   state
	acquire func() (Session, error)
}

// New returns a runner in the Idle state. acquire is the session factory:
// the CLI passes the real browser, tests pass fakes.
func New(cfg Config, acquire func() (Session, error)) *Runner {
	return &Runner{cfg: cfg, acquire: acquire}
}

// Run executes the scenario's steps in order, short-circuits on the first
// failure, captures the screenshot artifact on every outcome, and releases
// the session as the very last action. A non-nil error is returned only for
// fatal launch failures; step failures are reported through the verdict.
func (r *Runner) Run(sc *scenario.Scenario) (*Verdict, error) {
	if r.state != stateIdle {
		return nil, errors.New("runner already used: one run per instance")
	}
	r.state = stateRunning
	defer func() { r.state = stateCompleted }()

	session, err := r.acquire()
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	// Teardown is best-effort and unconditional; it is deliberately not
	// subject to the scenario deadline.
	defer session.Close()

	verdict := &Verdict{Status: StatusPass, FailingStep: -1, ArtifactPath: r.cfg.ArtifactPath}

	var deadline time.Time
	if r.cfg.ScenarioTimeout > 0 {
		deadline = time.Now().Add(r.cfg.ScenarioTimeout)
	}

	opts := executor.Options{
		AssertTimeout: r.cfg.AssertTimeout,
		PollInterval:  r.cfg.PollInterval,
		Deadline:      deadline,
	}

	log.Info().Str("scenario", sc.Name).Int("steps", len(sc.Steps)).Msg("run started")

	for i, step := range sc.Steps {
		if !deadline.IsZero() && time.Now().After(deadline) {
			verdict.Status = StatusFail
			verdict.FailingStep = i
			verdict.Reason = fmt.Sprintf("step %d (%s): scenario deadline of %v exceeded", i, step, r.cfg.ScenarioTimeout)
			break
		}

		log.Info().Int("step", i).Str("action", step.Action).Msg(step.String())
		if err := executor.Execute(session, step, opts); err != nil {
			verdict.Status = StatusFail
			verdict.FailingStep = i
			verdict.Reason = fmt.Sprintf("step %d: %v", i, err)
			log.Warn().Int("step", i).Err(err).Msg("step failed")
			break
		}
	}

	// The artifact is the primary debugging aid for a failed run, so it is
	// captured on every exit path, before teardown.
	if err := r.captureArtifact(session, sc, verdict); err != nil {
		log.Error().Err(err).Msg("artifact capture failed")
		if verdict.Status == StatusPass {
			verdict.Status = StatusFail
			verdict.Reason = fmt.Sprintf("artifact capture failed: %v", err)
		}
	}

	log.Info().Str("scenario", sc.Name).Str("status", string(verdict.Status)).Msg("run completed")
	return verdict, nil
}

func (r *Runner) captureArtifact(session Session, sc *scenario.Scenario, v *Verdict) error {
	shot, err := session.Screenshot()
	if err != nil {
		v.ArtifactPath = ""
		return err
	}

	if v.Status == StatusFail {
		shot = markFailure(session, sc, v, shot)
	}

	if err := os.WriteFile(r.cfg.ArtifactPath, shot, 0o644); err != nil {
		v.ArtifactPath = ""
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// markFailure draws a ring on the screenshot at the element the failing
// step targeted, when that selector still resolves to exactly one element.
// Any problem here degrades to the unmarked screenshot.
func markFailure(session Session, sc *scenario.Scenario, v *Verdict, shot []byte) []byte {
	if v.FailingStep < 0 || v.FailingStep >= len(sc.Steps) {
		return shot
	}
	step := sc.Steps[v.FailingStep]
	if step.Role == "" || step.Name == "" {
		return shot
	}

	matches, err := session.FindByRole(step.Role, step.Name)
	if err != nil || len(matches) != 1 {
		return shot
	}
	x, y, err := matches[0].Center()
	if err != nil {
		return shot
	}

	img, _, err := image.Decode(bytes.NewReader(shot))
	if err != nil {
		return shot
	}
	marked := overlay.MarkPoint(img, int(x), int(y))

	var buf bytes.Buffer
	if err := png.Encode(&buf, marked); err != nil {
		return shot
	}
	return buf.Bytes()
}
