package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/langfuse-k8s/langfusectl/internal/registry"
)

// acceptPollInterval is how often the control plane is asked whether it has
// picked up a freshly applied descriptor.
const acceptPollInterval = 2 * time.Second

// runDeployApp renders and applies the single-environment Application
// descriptor for the selected environment. Success means accepted by the
// control plane, not fully rolled out.
func (t *Toolbox) runDeployApp(ctx context.Context) (string, error) {
	rec, err := t.targetRecord()
	if err != nil {
		return "", &ExternalCallError{Op: "resolve target environment", Err: err}
	}

	doc, err := t.Renderer.Application(rec)
	if err != nil {
		return "", &ExternalCallError{Op: fmt.Sprintf("render Application descriptor for %q", rec.Name), Err: err}
	}

	if err := t.Kube.Apply(ctx, doc); err != nil {
		return "", &ExternalCallError{Op: fmt.Sprintf("apply Application descriptor for %q", rec.Name), Err: err}
	}
	t.Logger.Info("deployment descriptor applied", "env", rec.Name, "unit", rec.UnitName())

	if err := t.waitAccepted(ctx, rec); err != nil {
		return "", err
	}

	return fmt.Sprintf("deployment unit %q accepted", rec.UnitName()), nil
}

// runDeployAll renders and applies the list-generator descriptor covering the
// whole registry, producing one deployment unit per environment record.
func (t *Toolbox) runDeployAll(ctx context.Context) (string, error) {
	records := t.Registry.Records

	doc, err := t.Renderer.ApplicationSet(records)
	if err != nil {
		return "", &ExternalCallError{Op: "render ApplicationSet descriptor", Err: err}
	}

	if err := t.Kube.Apply(ctx, doc); err != nil {
		return "", &ExternalCallError{Op: "apply ApplicationSet descriptor", Err: err}
	}
	t.Logger.Info("list-generator descriptor applied", "environments", len(records))

	var units []string
	for _, rec := range records {
		if err := t.waitAccepted(ctx, rec); err != nil {
			return "", err
		}
		units = append(units, rec.UnitName())
	}

	return fmt.Sprintf("deployment units accepted: %s", strings.Join(units, ", ")), nil
}

// waitAccepted polls the control plane until it acknowledges the record's
// deployment unit, then triggers a one-off sync for manually synced
// environments. The wait is bounded by Settings.AcceptTimeout.
func (t *Toolbox) waitAccepted(ctx context.Context, rec registry.EnvironmentRecord) error {
	unit := rec.UnitName()
	deadline := time.Now().Add(t.Settings.AcceptTimeout)

	for {
		_, notFound, err := t.Argo.AppGet(ctx, unit)
		if err != nil {
			return &ExternalCallError{Op: fmt.Sprintf("query application %q", unit), Err: err}
		}
		if !notFound {
			break
		}
		if time.Now().After(deadline) {
			return &DeploymentTimeoutError{
				Target:  fmt.Sprintf("control plane to accept %q", unit),
				Timeout: t.Settings.AcceptTimeout,
				Err:     fmt.Errorf("application not registered"),
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(acceptPollInterval):
		}
	}

	if !rec.AutoSync {
		if err := t.Argo.AppSync(ctx, unit); err != nil {
			return &ExternalCallError{Op: fmt.Sprintf("sync application %q", unit), Err: err}
		}
		t.Logger.Info("manual sync requested", "unit", unit)
	}

	return nil
}
