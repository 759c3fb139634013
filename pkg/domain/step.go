package domain

import (
	"fmt"
	"strings"
	"time"
)

// Action discriminates the Step variants.
type Action string

const (
	ActionDelay           Action = "delay"
	ActionMoveToImage     Action = "move_to_image"
	ActionMoveToOrigin    Action = "move_to_origin"
	ActionMoveTo          Action = "move_to"
	ActionCheckDuplicates Action = "check_duplicates"
	ActionLeftClick       Action = "left_click"
	ActionRightClick      Action = "right_click"
)

// Defaults applied when a record omits a field.
const (
	DefaultConfidence   = 0.8
	DefaultImageTimeout = 10 * time.Second
)

// Known reports whether a is one of the supported actions.
func (a Action) Known() bool {
	switch a {
	case ActionDelay, ActionMoveToImage, ActionMoveToOrigin, ActionMoveTo,
		ActionCheckDuplicates, ActionLeftClick, ActionRightClick:
		return true
	}
	return false
}

// UsesAsset reports whether the action refers to an image asset.
func (a Action) UsesAsset() bool {
	return a == ActionMoveToImage || a == ActionCheckDuplicates
}

// UsesPointer reports whether the action reads or moves the shared pointer device.
func (a Action) UsesPointer() bool {
	switch a {
	case ActionMoveToImage, ActionMoveToOrigin, ActionMoveTo, ActionLeftClick, ActionRightClick:
		return true
	}
	return false
}

// Step is one atomic action within a macro.
// Only the fields relevant to Action are meaningful.
type Step struct {
	Action     Action        `json:"action"`
	Duration   time.Duration `json:"duration,omitempty"`
	Target     string        `json:"target,omitempty"`
	Confidence float64       `json:"confidence,omitempty"`
	Timeout    time.Duration `json:"timeout,omitempty"`
	X          int           `json:"x,omitempty"`
	Y          int           `json:"y,omitempty"`
}

// Delay builds a delay step.
func Delay(d time.Duration) Step {
	return Step{Action: ActionDelay, Duration: d}
}

// MoveToImage builds an image-guided move step.
func MoveToImage(target string, confidence float64, timeout time.Duration) Step {
	return Step{Action: ActionMoveToImage, Target: target, Confidence: confidence, Timeout: timeout}
}

// MoveToOrigin builds an origin-return step.
func MoveToOrigin() Step {
	return Step{Action: ActionMoveToOrigin}
}

// MoveTo builds a fixed-coordinate move step.
func MoveTo(x, y int) Step {
	return Step{Action: ActionMoveTo, X: x, Y: y}
}

// CheckDuplicates builds a duplicate-detection step.
func CheckDuplicates(target string, confidence float64) Step {
	return Step{Action: ActionCheckDuplicates, Target: target, Confidence: confidence}
}

// LeftClick builds a left button click step.
func LeftClick() Step {
	return Step{Action: ActionLeftClick}
}

// RightClick builds a right button click step.
func RightClick() Step {
	return Step{Action: ActionRightClick}
}

// String returns a short human-readable description of the step.
func (s Step) String() string {
	switch s.Action {
	case ActionDelay:
		return fmt.Sprintf("Delay %s", s.Duration)
	case ActionMoveToImage:
		return fmt.Sprintf("Move to image '%s' (confidence %.2f, timeout %s)", s.Target, s.Confidence, s.Timeout)
	case ActionMoveToOrigin:
		return "Move to origin"
	case ActionMoveTo:
		return fmt.Sprintf("Move to %d,%d", s.X, s.Y)
	case ActionCheckDuplicates:
		return fmt.Sprintf("Check duplicates of '%s' (confidence %.2f)", s.Target, s.Confidence)
	case ActionLeftClick, ActionRightClick:
		words := strings.Split(string(s.Action), "_")
		for i, w := range words {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
		return strings.Join(words, " ")
	default:
		return string(s.Action)
	}
}

// FormatSteps renders a numbered, one-line-per-step summary.
func FormatSteps(steps []Step) string {
	lines := make([]string, 0, len(steps))
	for i, s := range steps {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, s))
	}
	return strings.Join(lines, "\n")
}
