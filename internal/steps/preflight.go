package steps

import (
	"context"
	"fmt"
)

// requiredTools are the external binaries every other step depends on.
var requiredTools = []string{"kubectl", "helm", "argocd"}

// runCheckPrereqs verifies the external tool dependencies and cluster reachability.
// A miss here blocks the entire batch; there is no partial credit.
func (t *Toolbox) runCheckPrereqs(ctx context.Context) (string, error) {
	for _, tool := range requiredTools {
		if _, err := t.LookPath(tool); err != nil {
			return "", &PrerequisiteMissingError{Requirement: tool, Err: err}
		}
		t.Logger.Debug("tool present", "tool", tool)
	}

	if err := t.Kube.Version(ctx); err != nil {
		return "", &PrerequisiteMissingError{Requirement: "kubectl client", Err: err}
	}

	if err := t.Kube.ClusterInfo(ctx); err != nil {
		return "", &PrerequisiteMissingError{Requirement: "cluster connectivity", Err: err}
	}

	return fmt.Sprintf("tools %v present, cluster reachable", requiredTools), nil
}
