package steps

import (
	"context"
	"fmt"

	"github.com/langfuse-k8s/langfusectl/internal/registry"
)

// runStatus aggregates control-plane and workload state per environment.
// Missing resources are informational: a cluster that has nothing deployed
// yet is an answer, not an error.
func (t *Toolbox) runStatus(ctx context.Context) (string, error) {
	records := t.Registry.Records
	if t.TargetEnv != "" {
		rec, err := t.Registry.Get(t.TargetEnv)
		if err != nil {
			return "", &ExternalCallError{Op: "resolve target environment", Err: err}
		}
		records = []registry.EnvironmentRecord{rec}
	}

	for _, rec := range records {
		if err := t.reportUnitStatus(ctx, rec); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("status reported for %d environment(s)", len(records)), nil
}

func (t *Toolbox) reportUnitStatus(ctx context.Context, rec registry.EnvironmentRecord) error {
	unit := rec.UnitName()
	fmt.Fprintf(t.Out, "=== %s (%s)\n", unit, rec.Hostname)

	appOut, notFound, err := t.Argo.AppGet(ctx, unit)
	switch {
	case err != nil:
		return &ExternalCallError{Op: fmt.Sprintf("query application %q", unit), Err: err}
	case notFound:
		fmt.Fprintf(t.Out, "application %q: not found (not deployed yet)\n", unit)
	default:
		fmt.Fprintln(t.Out, appOut)
	}

	listOut, notFound, err := t.Kube.List(ctx, unit, "pods,svc,ingress")
	switch {
	case err != nil:
		return &ExternalCallError{Op: fmt.Sprintf("list workload resources in %q", unit), Err: err}
	case notFound:
		fmt.Fprintf(t.Out, "pods/services/ingress in %q: not found (namespace empty or absent)\n", unit)
	default:
		fmt.Fprintln(t.Out, listOut)
	}

	return nil
}
