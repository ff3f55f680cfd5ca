// Package executor performs single scenario steps against a live session.
package executor

import (
	"errors"
	"fmt"
	"time"

	"github.com/phuslu/log"

	"github.com/mentalcardgames/mcgverify/internal/browser"
	"github.com/mentalcardgames/mcgverify/internal/poll"
	"github.com/mentalcardgames/mcgverify/internal/scenario"
)

var (
	// ErrElementNotFound is returned when a click selector matches nothing.
	ErrElementNotFound = errors.New("element not found")

	// ErrAmbiguousSelector is returned when a click selector matches more
	// than one element.
	ErrAmbiguousSelector = errors.New("ambiguous selector")

	// ErrNotInteractable is returned when the resolved element cannot
	// receive a click (covered or off-screen).
	ErrNotInteractable = errors.New("element not interactable")
)

// Session is the automation capability surface a step needs. The real
// implementation is browser.Session; tests substitute fakes.
type Session interface {
	Navigate(url string) error
	FindByRole(role, name string) ([]browser.Element, error)
	TextVisible(fragment string) (bool, error)
}

// Options bounds the waits a step may perform.
type Options struct {
	AssertTimeout time.Duration // default window for assert steps
	PollInterval  time.Duration // predicate re-check interval
	Deadline      time.Time     // scenario-level soft deadline; zero means none
}

// Execute runs one step. Click dispatches and returns without waiting for
// any resulting state change; scenarios make that causation explicit by
// pairing every state-mutating click with a subsequent assert step.
func Execute(s Session, step scenario.Step, opts Options) error {
	switch step.Action {
	case scenario.ActionNavigate:
		log.Debug().Str("url", step.URL).Msg("navigating")
		return s.Navigate(step.URL)
	case scenario.ActionClick:
		return executeClick(s, step)
	case scenario.ActionAssertVisible:
		return executeAssert(step, VisiblePredicate(s, step.Role, step.Name), opts)
	case scenario.ActionAssertText:
		return executeAssert(step, TextPredicate(s, step.Text), opts)
	default:
		return fmt.Errorf("unknown action type: %s", step.Action)
	}
}

// resolveUnique resolves a role+name selector to exactly one element, the
// invariant every interaction step relies on.
func resolveUnique(s Session, role, name string) (browser.Element, error) {
	matches, err := s.FindByRole(role, name)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: {role: %s, name: %q}", ErrElementNotFound, role, name)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: {role: %s, name: %q} matched %d elements", ErrAmbiguousSelector, role, name, len(matches))
	}
}

func executeClick(s Session, step scenario.Step) error {
	el, err := resolveUnique(s, step.Role, step.Name)
	if err != nil {
		return err
	}
	if !el.Interactable() {
		return fmt.Errorf("%w: {role: %s, name: %q}", ErrNotInteractable, step.Role, step.Name)
	}
	log.Debug().Str("role", step.Role).Str("name", step.Name).Msg("clicking")
	if err := el.Click(); err != nil {
		return fmt.Errorf("click {role: %s, name: %q}: %w", step.Role, step.Name, err)
	}
	return nil
}

func executeAssert(step scenario.Step, pred poll.Predicate, opts Options) error {
	timeout := step.Timeout(opts.AssertTimeout)
	// Clip to the scenario deadline so one slow assert cannot push the
	// whole run past it.
	if !opts.Deadline.IsZero() {
		if remaining := time.Until(opts.Deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if err := poll.WaitFor(pred, timeout, opts.PollInterval); err != nil {
		return fmt.Errorf("%s: %w", step, err)
	}
	return nil
}

// VisiblePredicate reports whether some element matching (role, name) is
// visible. Pure observation: safe to re-evaluate on every poll tick.
func VisiblePredicate(s Session, role, name string) poll.Predicate {
	return func() (bool, error) {
		matches, err := s.FindByRole(role, name)
		if err != nil {
			return false, err
		}
		for _, el := range matches {
			visible, err := el.Visible()
			if err != nil {
				return false, err
			}
			if visible {
				return true, nil
			}
		}
		return false, nil
	}
}

// TextPredicate reports whether the rendered page text contains fragment.
func TextPredicate(s Session, fragment string) poll.Predicate {
	return func() (bool, error) {
		return s.TextVisible(fragment)
	}
}
