package domain

import "time"

// ExecState is the state of one execution slot or instance.
type ExecState string

const (
	StateIdle      ExecState = "idle"
	StateRunning   ExecState = "running"
	StateCompleted ExecState = "completed" // Terminal
	StateAborted   ExecState = "aborted"   // Terminal
)

// Terminal reports whether s ends an instance.
func (s ExecState) Terminal() bool {
	return s == StateCompleted || s == StateAborted
}

// Abort reasons reported in RunResult.Reason.
const (
	ReasonDuplicates = "duplicates"
	ReasonCancelled  = "cancelled"
	ReasonPointer    = "pointer"
)

// RunnerStatus is the process-wide state of the runner.
type RunnerStatus string

const (
	StatusStopped RunnerStatus = "stopped"
	StatusRunning RunnerStatus = "running"
)

// Point is a screen coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Match is one image-search hit on the screen.
type Match struct {
	X, Y          int
	Width, Height int
	Score         float64
}

// Center returns the middle of the matched region.
func (m Match) Center() Point {
	return Point{X: m.X + m.Width/2, Y: m.Y + m.Height/2}
}

// Instance is one in-flight run of a macro.
type Instance struct {
	ID        string
	Macro     Macro
	Origin    Point
	StepIndex int
	State     ExecState
	Started   time.Time
}

// RunResult is the terminal report of an Instance.
type RunResult struct {
	InstanceID string        `json:"instance_id"`
	MacroName  string        `json:"macro"`
	Combo      Combo         `json:"combo"`
	State      ExecState     `json:"state"`
	Reason     string        `json:"reason,omitempty"`
	StepsRun   int           `json:"steps_run"`
	Duration   time.Duration `json:"duration"`
}
