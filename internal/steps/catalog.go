package steps

import "context"

// Step identifiers in ordinal order.
const (
	StepCheckPrereqs     = "check-prereqs"
	StepInstallArgoCD    = "install-argocd"
	StepAdminCredential  = "admin-credential"
	StepProvisionSecrets = "provision-secrets"
	StepDeployApp        = "deploy-app"
	StepDeployAll        = "deploy-all"
	StepStatus           = "status"
)

// Catalog returns the ordered step catalog bound to the given toolbox.
func Catalog(t *Toolbox) []Step {
	return []Step{
		{
			ID:          StepCheckPrereqs,
			Ordinal:     0,
			Capability:  CapabilityPreflight,
			Description: "Verify kubectl, helm and argocd are installed and the cluster is reachable",
			Run:         t.runCheckPrereqs,
		},
		{
			ID:          StepInstallArgoCD,
			Ordinal:     1,
			Capability:  CapabilityInstall,
			Description: "Install Argo CD and wait for the server to become ready",
			Check:       t.checkKubectlPresent,
			Run:         t.runInstallArgoCD,
		},
		{
			ID:          StepAdminCredential,
			Ordinal:     2,
			Capability:  CapabilityCredential,
			Description: "Retrieve and decode the initial Argo CD admin password",
			Check:       t.checkControlPlanePresent,
			Run:         t.runAdminCredential,
		},
		{
			ID:          StepProvisionSecrets,
			Ordinal:     3,
			Capability:  CapabilitySecrets,
			Description: "Apply the Langfuse secrets document to the cluster",
			Check:       t.checkSecretsFilePresent,
			Run:         t.runProvisionSecrets,
		},
		{
			ID:          StepDeployApp,
			Ordinal:     4,
			Capability:  CapabilityDeploy,
			Description: "Deploy Langfuse for a single environment via an Application descriptor",
			Check:       t.checkControlPlanePresent,
			Run:         t.runDeployApp,
		},
		{
			ID:          StepDeployAll,
			Ordinal:     5,
			Capability:  CapabilityDeploy,
			Description: "Deploy every registered environment via the ApplicationSet list generator",
			Check:       t.checkControlPlanePresent,
			Run:         t.runDeployAll,
		},
		{
			ID:          StepStatus,
			Ordinal:     6,
			Capability:  CapabilityStatus,
			Description: "Show application, pod, service and ingress status per environment",
			Run:         t.runStatus,
		},
	}
}

// checkKubectlPresent is the cheap precondition shared by cluster-touching steps.
func (t *Toolbox) checkKubectlPresent(context.Context) error {
	if _, err := t.LookPath("kubectl"); err != nil {
		return &PrerequisiteMissingError{Requirement: "kubectl", Err: err}
	}
	return nil
}
