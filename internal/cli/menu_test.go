package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langfuse-k8s/langfusectl/internal/logging"
	"github.com/langfuse-k8s/langfusectl/internal/steps"
)

func sampleCatalog() []steps.Step {
	return []steps.Step{
		{ID: "check-prereqs", Ordinal: 0, Description: "verify prerequisites"},
		{ID: "install-argocd", Ordinal: 1, Description: "install control plane"},
		{ID: "status", Ordinal: 6, Description: "show status"},
	}
}

func TestStepBySelection(t *testing.T) {
	catalog := sampleCatalog()

	step, ok := stepBySelection(catalog, "1")
	require.True(t, ok)
	assert.Equal(t, "install-argocd", step.ID)

	step, ok = stepBySelection(catalog, "6")
	require.True(t, ok)
	assert.Equal(t, "status", step.ID)

	step, ok = stepBySelection(catalog, "status")
	require.True(t, ok)
	assert.Equal(t, 6, step.Ordinal)

	_, ok = stepBySelection(catalog, "9")
	assert.False(t, ok)

	_, ok = stepBySelection(catalog, "x")
	assert.False(t, ok)
}

func TestPrintOutcome(t *testing.T) {
	var buf bytes.Buffer
	print := printOutcome(&buf)

	print(steps.Outcome{StepID: "install-argocd", Status: steps.StatusSuccess, Message: "ready"})
	print(steps.Outcome{StepID: "provision-secrets", Status: steps.StatusSkipped, Message: "declined"})
	print(steps.Outcome{StepID: "deploy-app", Status: steps.StatusFailure, Message: "apply failed"})

	out := buf.String()
	assert.Contains(t, out, "[ ok ] install-argocd: ready")
	assert.Contains(t, out, "[skip] provision-secrets: declined")
	assert.Contains(t, out, "[fail] deploy-app: apply failed")
}

func TestDeclineConfirm(t *testing.T) {
	confirm := declineConfirm(logging.NewLogger(io.Discard, logging.LevelError))

	ok, err := confirm("apply anyway?")
	require.NoError(t, err)
	assert.False(t, ok, "non-interactive runs never confirm destructive overrides")
}
