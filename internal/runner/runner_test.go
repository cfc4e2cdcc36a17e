package runner

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langfuse-k8s/langfusectl/internal/logging"
	"github.com/langfuse-k8s/langfusectl/internal/steps"
)

// scriptedStep builds a catalog step whose run appends its ID to trace.
func scriptedStep(id string, ordinal int, trace *[]string, runErr error) steps.Step {
	return steps.Step{
		ID:      id,
		Ordinal: ordinal,
		Run: func(context.Context) (string, error) {
			*trace = append(*trace, id)
			return "done", runErr
		},
	}
}

func newController(catalog []steps.Step) *Controller {
	return New(catalog, logging.NewLogger(io.Discard, logging.LevelError), nil)
}

func TestFullBatchAllSucceed(t *testing.T) {
	var trace []string
	catalog := []steps.Step{
		scriptedStep("a", 0, &trace, nil),
		scriptedStep("b", 1, &trace, nil),
		scriptedStep("c", 2, &trace, nil),
	}
	ctrl := newController(catalog)
	require.Equal(t, StateIdle, ctrl.State())

	res, err := ctrl.Run(context.Background(), FullBatch())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, res.State)
	assert.Equal(t, StateCompleted, ctrl.State())
	assert.Equal(t, []string{"a", "b", "c"}, trace, "every step exactly once, in ordinal order")
	require.Len(t, res.Outcomes, 3)
	for _, o := range res.Outcomes {
		assert.Equal(t, steps.StatusSuccess, o.Status)
	}
}

func TestFullBatchHaltsOnFirstFailure(t *testing.T) {
	var trace []string
	catalog := []steps.Step{
		scriptedStep("a", 0, &trace, nil),
		scriptedStep("b", 1, &trace, errors.New("boom")),
		scriptedStep("c", 2, &trace, nil),
	}
	ctrl := newController(catalog)

	res, err := ctrl.Run(context.Background(), FullBatch())
	require.NoError(t, err)
	assert.Equal(t, StateHalted, res.State)
	assert.Equal(t, []string{"a", "b"}, trace, "steps after the failure never execute")
	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, steps.StatusFailure, res.Outcomes[1].Status)
}

func TestFullBatchBlockedOnPrerequisite(t *testing.T) {
	var trace []string
	prereqErr := &steps.PrerequisiteMissingError{Requirement: "helm", Err: errors.New("not on PATH")}
	catalog := []steps.Step{
		scriptedStep("a", 0, &trace, prereqErr),
		scriptedStep("b", 1, &trace, nil),
	}
	ctrl := newController(catalog)

	res, err := ctrl.Run(context.Background(), FullBatch())
	require.NoError(t, err)
	assert.Equal(t, StateBlocked, res.State)
	assert.Equal(t, []string{"a"}, trace)
}

func TestPreconditionBlocksWithoutRunningAction(t *testing.T) {
	var trace []string
	catalog := []steps.Step{
		scriptedStep("a", 0, &trace, nil),
		{
			ID:      "b",
			Ordinal: 1,
			Check:   func(context.Context) error { return errors.New("control plane missing") },
			Run: func(context.Context) (string, error) {
				trace = append(trace, "b")
				return "", nil
			},
		},
	}
	ctrl := newController(catalog)

	res, err := ctrl.Run(context.Background(), FullBatch())
	require.NoError(t, err)
	assert.Equal(t, StateBlocked, res.State)
	assert.Equal(t, []string{"a"}, trace, "blocked action is never attempted")
	require.Len(t, res.Outcomes, 2)
	assert.Contains(t, res.Outcomes[1].Message, "blocked")
}

func TestSkippedStepDoesNotHaltBatch(t *testing.T) {
	var trace []string
	catalog := []steps.Step{
		scriptedStep("a", 0, &trace, steps.Skip("placeholder apply declined")),
		scriptedStep("b", 1, &trace, nil),
	}
	ctrl := newController(catalog)

	res, err := ctrl.Run(context.Background(), FullBatch())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, res.State)
	assert.Equal(t, []string{"a", "b"}, trace)
	assert.Equal(t, steps.StatusSkipped, res.Outcomes[0].Status)
}

func TestSingleStepRunsExactlyOne(t *testing.T) {
	var trace []string
	catalog := []steps.Step{
		scriptedStep("a", 0, &trace, nil),
		scriptedStep("b", 1, &trace, nil),
	}
	ctrl := newController(catalog)

	res, err := ctrl.Run(context.Background(), SingleStep("b"))
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, res.State)
	assert.Equal(t, []string{"b"}, trace)
}

func TestSingleStepUnknownID(t *testing.T) {
	ctrl := newController(nil)

	_, err := ctrl.Run(context.Background(), SingleStep("nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown step")
}

func TestCatalogSortedByOrdinal(t *testing.T) {
	var trace []string
	catalog := []steps.Step{
		scriptedStep("c", 2, &trace, nil),
		scriptedStep("a", 0, &trace, nil),
		scriptedStep("b", 1, &trace, nil),
	}
	ctrl := newController(catalog)

	_, err := ctrl.Run(context.Background(), FullBatch())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, trace)
}

func TestOutcomeCallbackSeesEachOutcome(t *testing.T) {
	var trace []string
	var seen []string
	catalog := []steps.Step{
		scriptedStep("a", 0, &trace, nil),
		scriptedStep("b", 1, &trace, nil),
	}
	ctrl := New(catalog, logging.NewLogger(io.Discard, logging.LevelError), func(o steps.Outcome) {
		seen = append(seen, o.StepID)
	})

	_, err := ctrl.Run(context.Background(), FullBatch())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, seen)
}
