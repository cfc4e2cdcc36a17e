package steps

import (
	"context"
	"fmt"
)

// runInstallArgoCD installs the control plane: create-or-leave the namespace,
// apply the install manifest and wait a bounded time for the server.
// Rerunning against a ready control plane succeeds without extra side effects.
func (t *Toolbox) runInstallArgoCD(ctx context.Context) (string, error) {
	ns := t.Settings.ArgoNamespace

	if err := t.Kube.EnsureNamespace(ctx, ns); err != nil {
		return "", &ExternalCallError{Op: fmt.Sprintf("ensure namespace %q", ns), Err: err}
	}
	t.Logger.Info("control-plane namespace ensured", "namespace", ns)

	if err := t.Kube.ApplyURL(ctx, ns, t.Settings.InstallManifestURL); err != nil {
		return "", &ExternalCallError{Op: "apply Argo CD install manifest", Err: err}
	}
	t.Logger.Info("install manifest applied", "manifest", t.Settings.InstallManifestURL)

	timeout := fmt.Sprintf("%ds", int(t.Settings.InstallTimeout.Seconds()))
	if err := t.Kube.WaitForDeployments(ctx, ns, timeout); err != nil {
		return "", &DeploymentTimeoutError{
			Target:  "Argo CD server readiness",
			Timeout: t.Settings.InstallTimeout,
			Err:     err,
		}
	}

	return fmt.Sprintf("Argo CD ready in namespace %q", ns), nil
}
