package pipeline

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/glueregen/internal/classify"
)

// Step names that are not target names.
const (
	StepRefresh      = "refresh-vendored-source"
	StepVerifySource = "verify-vendored-source"
	StepGenerator    = "run-binding-generator"
)

// StepStatus is the outcome of one step.
type StepStatus string

const (
	StatusSucceeded StepStatus = "succeeded"
	StatusSkipped   StepStatus = "skipped"
	StatusWarning   StepStatus = "warning" // failed, run continues
	StatusFailed    StepStatus = "failed"
)

// StepResult records one executed (or skipped) step.
type StepResult struct {
	Name          string
	Status        StepStatus
	Path          string
	FilesIncluded int
	Counts        map[classify.Category]int
	Changed       bool
	Err           error
	Duration      time.Duration
}

// State is the terminal state of a run.
type State string

const (
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// RunResult is the outcome of a run.
type RunResult struct {
	RunID      string
	State      State
	FailedStep string
	DryRun     bool
	Steps      []StepResult
	StartTime  time.Time
	Duration   time.Duration
}

// Terminal renders the terminal state as CompletedAllSteps or FailedAtStep(name).
func (r *RunResult) Terminal() string {
	if r.State == StateFailed {
		return fmt.Sprintf("FailedAtStep(%s)", r.FailedStep)
	}
	return "CompletedAllSteps"
}

// Step returns the result for name.
func (r *RunResult) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// Changed lists the targets whose content changed (or would change in a dry run).
func (r *RunResult) Changed() []string {
	var out []string
	for _, s := range r.Steps {
		if s.Changed {
			out = append(out, s.Name)
		}
	}
	return out
}

// Warnings returns the steps that failed without halting the run.
func (r *RunResult) Warnings() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Status == StatusWarning {
			out = append(out, s)
		}
	}
	return out
}

func (r *RunResult) add(s StepResult) { r.Steps = append(r.Steps, s) }
