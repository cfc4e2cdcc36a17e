// Package runner contains the execution controller that resolves run requests
// into step sequences and drives them with failure-stop semantics.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/langfuse-k8s/langfusectl/internal/steps"
)

// State is the controller's lifecycle state.
type State int

const (
	// StateIdle means no run request has been accepted yet.
	StateIdle State = iota
	// StateRunning means a step sequence is being executed.
	StateRunning
	// StateCompleted means every resolved step finished without failure.
	StateCompleted
	// StateHalted means a step failed and the remaining sequence was aborted.
	StateHalted
	// StateBlocked means a precondition or prerequisite failed before the
	// action could run.
	StateBlocked
)

// String returns the lower-case textual form of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateHalted:
		return "halted"
	case StateBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// RunRequest selects either one step or the full ordered batch.
// It is resolved at invocation time from operator input and never stored.
type RunRequest struct {
	all    bool
	stepID string
}

// FullBatch requests every catalog step in ordinal order.
func FullBatch() RunRequest {
	return RunRequest{all: true}
}

// SingleStep requests exactly one step by identifier.
func SingleStep(id string) RunRequest {
	return RunRequest{stepID: id}
}

// Result summarizes one run: terminal state plus per-step outcomes.
type Result struct {
	State    State
	Outcomes []steps.Outcome
}

// Controller executes resolved step sequences strictly one at a time.
type Controller struct {
	catalog   []steps.Step
	logger    *slog.Logger
	state     State
	onOutcome func(steps.Outcome)
}

// New constructs a Controller over the given catalog. onOutcome, when not nil,
// is invoked for every outcome as it is produced.
func New(catalog []steps.Step, logger *slog.Logger, onOutcome func(steps.Outcome)) *Controller {
	sorted := make([]steps.Step, len(catalog))
	copy(sorted, catalog)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Ordinal < sorted[j].Ordinal })

	return &Controller{
		catalog:   sorted,
		logger:    logger,
		state:     StateIdle,
		onOutcome: onOutcome,
	}
}

// State returns the controller's current state.
func (c *Controller) State() State {
	return c.state
}

// Steps returns the catalog in ordinal order.
func (c *Controller) Steps() []steps.Step {
	return c.catalog
}

// Run resolves the request into a step sequence and executes it. A Failure
// outcome halts the sequence; a failed precondition blocks it without
// attempting the action. Skipped steps do not stop the batch.
func (c *Controller) Run(ctx context.Context, req RunRequest) (Result, error) {
	sequence, err := c.resolve(req)
	if err != nil {
		return Result{State: c.state}, err
	}

	c.state = StateRunning
	result := Result{}

	for _, step := range sequence {
		if step.Check != nil {
			if err := step.Check(ctx); err != nil {
				outcome := steps.Outcome{
					StepID:  step.ID,
					Status:  steps.StatusFailure,
					Message: fmt.Sprintf("blocked: %v", err),
					Err:     err,
				}
				c.emit(outcome)
				result.Outcomes = append(result.Outcomes, outcome)
				c.state = StateBlocked
				result.State = c.state
				return result, nil
			}
		}

		c.logger.Info("running step", "step", step.ID, "ordinal", step.Ordinal)
		outcome := steps.Execute(ctx, step)
		c.emit(outcome)
		result.Outcomes = append(result.Outcomes, outcome)

		if outcome.Status == steps.StatusFailure {
			var prereq *steps.PrerequisiteMissingError
			if errors.As(outcome.Err, &prereq) {
				c.state = StateBlocked
			} else {
				c.state = StateHalted
			}
			result.State = c.state
			return result, nil
		}
	}

	c.state = StateCompleted
	result.State = c.state
	return result, nil
}

// resolve turns a RunRequest into the concrete ordinal-ordered step sequence.
func (c *Controller) resolve(req RunRequest) ([]steps.Step, error) {
	if req.all {
		return c.catalog, nil
	}
	for _, step := range c.catalog {
		if step.ID == req.stepID {
			return []steps.Step{step}, nil
		}
	}
	return nil, fmt.Errorf("unknown step %q", req.stepID)
}

func (c *Controller) emit(outcome steps.Outcome) {
	if c.onOutcome != nil {
		c.onOutcome(outcome)
	}
}
