// Package scenario defines the verification flows: ordered sequences of
// navigate/click/assert steps located by role + accessible name.
package scenario

import (
	"fmt"
	"time"
)

// Step actions.
const (
	ActionNavigate      = "navigate"
	ActionClick         = "click"
	ActionAssertVisible = "assert-visible"
	ActionAssertText    = "assert-text-visible"
)

// DefaultAssertTimeout is the window an assert step waits for its condition
// when the step carries no override.
const DefaultAssertTimeout = 10 * time.Second

// Step is one atomic instruction. Immutable once constructed; executed in
// declaration order. Which fields apply depends on Action:
//
//	navigate:            url
//	click:               role, name
//	assert-visible:      role, name, timeout_ms
//	assert-text-visible: text, timeout_ms
type Step struct {
	Action    string `toml:"action" json:"action" validate:"required,oneof=navigate click assert-visible assert-text-visible"`
	URL       string `toml:"url,omitempty" json:"url,omitempty"`
	Role      string `toml:"role,omitempty" json:"role,omitempty"`
	Name      string `toml:"name,omitempty" json:"name,omitempty"`
	Text      string `toml:"text,omitempty" json:"text,omitempty"`
	TimeoutMS int    `toml:"timeout_ms,omitempty" json:"timeout_ms,omitempty" validate:"gte=0"`
}

// Timeout returns the step's assertion window: its own override when set,
// otherwise def, otherwise DefaultAssertTimeout.
func (s Step) Timeout(def time.Duration) time.Duration {
	if s.TimeoutMS > 0 {
		return time.Duration(s.TimeoutMS) * time.Millisecond
	}
	if def > 0 {
		return def
	}
	return DefaultAssertTimeout
}

// String renders the step for logs and failure reasons.
func (s Step) String() string {
	switch s.Action {
	case ActionNavigate:
		return fmt.Sprintf("navigate %s", s.URL)
	case ActionClick:
		return fmt.Sprintf("click {role: %s, name: %q}", s.Role, s.Name)
	case ActionAssertVisible:
		return fmt.Sprintf("assert-visible {role: %s, name: %q}", s.Role, s.Name)
	case ActionAssertText:
		return fmt.Sprintf("assert-text-visible %q", s.Text)
	}
	return s.Action
}

// Scenario is one ordered, fully-specified verification run.
type Scenario struct {
	Name  string `toml:"name" validate:"required"`
	Steps []Step `toml:"step" validate:"required,min=1,dive"`
}
