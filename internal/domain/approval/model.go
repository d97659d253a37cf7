// Package approval models the multi-level document approval workflow:
// configured levels, the actions legal at each level, and the mapping from
// raw status codes to display information.
package approval

import (
	"fmt"

	"purchasing/internal/core/apperror"
)

// ActionType classifies an approval action. The type drives presentation and
// the lifecycle guard's interpretation of a level's status.
type ActionType string

const (
	// ActionComplete is a terminal sign-off (approve).
	ActionComplete ActionType = "Complete"
	// ActionUnComplete is a terminal refusal (reject).
	ActionUnComplete ActionType = "UnComplete"
	// ActionProcess marks the level as being worked on.
	ActionProcess ActionType = "Process"
	// ActionRequest asks for approval at the level.
	ActionRequest ActionType = "Request"
)

// Action is one legal action at an approval level.
type Action struct {
	// Value is the status code the action writes, e.g. "Y".
	Value string     `json:"value" db:"action_value"`
	Label string     `json:"label" db:"action_label"`
	Type  ActionType `json:"type" db:"action_type"`
}

// Level is one step of the approval sequence.
type Level struct {
	// Number of the level, 1..N in sign-off order.
	Number int `json:"number" db:"level_no"`

	// Columns to display for this level in the approval grid.
	Columns []string `json:"columns"`

	// Actions legal at this level.
	Actions []Action `json:"actions"`

	// ApplyWhen is an optional CEL condition over document fields. The
	// level is skipped when the condition evaluates to false. Empty means
	// the level always applies.
	ApplyWhen string `json:"applyWhen,omitempty" db:"apply_when"`
}

// Action returns the configured action with the given value code.
func (l *Level) Action(value string) (*Action, bool) {
	for i := range l.Actions {
		if l.Actions[i].Value == value {
			return &l.Actions[i], true
		}
	}
	return nil, false
}

// Config is the approval configuration for one module. Loaded once per
// session and treated as a read-only snapshot.
type Config struct {
	ModuleCode string  `json:"moduleCode"`
	Levels     []Level `json:"levels"`
}

// Level returns the configured level with the given number.
func (c *Config) Level(number int) (*Level, bool) {
	for i := range c.Levels {
		if c.Levels[i].Number == number {
			return &c.Levels[i], true
		}
	}
	return nil, false
}

// MaxLevel returns the highest configured level number, 0 when empty.
func (c *Config) MaxLevel() int {
	max := 0
	for i := range c.Levels {
		if c.Levels[i].Number > max {
			max = c.Levels[i].Number
		}
	}
	return max
}

// ValidateAction checks that actionValue is configured for the level. The
// check is purely local, a misconfigured action never reaches the server.
func (c *Config) ValidateAction(level int, actionValue string) error {
	lv, ok := c.Level(level)
	if !ok {
		return apperror.NewBusinessRule(apperror.CodeApprovalNotAllowed,
			fmt.Sprintf("approval level %d is not configured", level))
	}
	if _, ok := lv.Action(actionValue); !ok {
		return apperror.NewBusinessRule(apperror.CodeApprovalNotAllowed,
			fmt.Sprintf("action %q is not configured for approval level %d", actionValue, level)).
			WithDetail("level", level).
			WithDetail("action", actionValue)
	}
	return nil
}

// StatusDisplay is the presentation of a raw approval status code.
type StatusDisplay struct {
	Label string
	Type  ActionType
}

// fallback mapping by single-character code, used for documents that predate
// the current approval configuration.
var fallbackStatus = map[string]StatusDisplay{
	"Y": {Label: "Approved", Type: ActionComplete},
	"N": {Label: "Rejected", Type: ActionUnComplete},
	"P": {Label: "Pending", Type: ActionProcess},
	"R": {Label: "Requested", Type: ActionRequest},
}

// StatusDisplay resolves a raw status code at a level to its display info.
// Configured actions win; unknown codes fall back to the built-in
// single-character mapping, then to the raw code itself.
func (c *Config) StatusDisplay(level int, code string) StatusDisplay {
	if code == "" {
		return StatusDisplay{Label: "", Type: ActionProcess}
	}
	if lv, ok := c.Level(level); ok {
		if a, ok := lv.Action(code); ok {
			return StatusDisplay{Label: a.Label, Type: a.Type}
		}
	}
	if d, ok := fallbackStatus[code]; ok {
		return d
	}
	return StatusDisplay{Label: code, Type: ActionProcess}
}

// StatusType resolves only the semantic type of a raw status code.
func (c *Config) StatusType(level int, code string) ActionType {
	return c.StatusDisplay(level, code).Type
}
