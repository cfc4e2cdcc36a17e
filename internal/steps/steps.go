// Package steps defines the ordered catalog of deployment steps and the
// collaborators they act through.
package steps

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/langfuse-k8s/langfusectl/internal/config"
	"github.com/langfuse-k8s/langfusectl/internal/registry"
)

// Capability classifies the kind of external effect a step performs.
type Capability string

const (
	// CapabilityPreflight verifies external tool and cluster prerequisites.
	CapabilityPreflight Capability = "preflight"
	// CapabilityInstall installs the GitOps control plane.
	CapabilityInstall Capability = "install"
	// CapabilityCredential reads a credential from the cluster.
	CapabilityCredential Capability = "credential-read"
	// CapabilitySecrets applies a secrets document.
	CapabilitySecrets Capability = "secret-apply"
	// CapabilityDeploy submits deployment descriptors to the control plane.
	CapabilityDeploy Capability = "deploy"
	// CapabilityStatus inspects deployment state read-only.
	CapabilityStatus Capability = "status-query"
)

// Status is the result classification of a single step invocation.
type Status int

const (
	// StatusSuccess means the step's effect was applied or observed as expected.
	StatusSuccess Status = iota
	// StatusFailure means the step failed and a batch must halt.
	StatusFailure
	// StatusSkipped means the step aborted itself without affecting the batch.
	StatusSkipped
)

// String returns the lower-case textual form of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome is the observable result of one step invocation. It lives only for
// the duration of the run and is surfaced to the operator.
type Outcome struct {
	// StepID identifies the step that produced the outcome.
	StepID string
	// Status classifies the result.
	Status Status
	// Message is the operator-facing diagnostic or summary.
	Message string
	// Err is the underlying cause when Status is StatusFailure.
	Err error
}

// Step is one named operation in the catalog. Steps form a total order by
// Ordinal which defines the canonical batch sequence.
type Step struct {
	// ID is the stable step identifier used in outcomes and single-step requests.
	ID string
	// Ordinal is the step's position in the canonical batch sequence.
	Ordinal int
	// Capability classifies the step's external effect.
	Capability Capability
	// Description is the operator-facing menu line.
	Description string
	// Check evaluates the step's precondition; nil means always ready.
	// A non-nil error blocks the step without attempting the action.
	Check func(ctx context.Context) error
	// Run performs the step's single external effect and returns a summary
	// message. Errors become Failure outcomes; Skip errors become Skipped.
	Run func(ctx context.Context) (string, error)
}

// Execute runs a step's action and converts its result into an Outcome.
// Every failure is caught here; nothing escapes the step boundary.
func Execute(ctx context.Context, s Step) Outcome {
	msg, err := s.Run(ctx)
	if err != nil {
		var skip *SkipError
		if errors.As(err, &skip) {
			return Outcome{StepID: s.ID, Status: StatusSkipped, Message: skip.Reason}
		}
		return Outcome{StepID: s.ID, Status: StatusFailure, Message: err.Error(), Err: err}
	}
	return Outcome{StepID: s.ID, Status: StatusSuccess, Message: msg}
}

// KubeClient is the cluster-resource API surface the steps rely on.
type KubeClient interface {
	Version(ctx context.Context) error
	ClusterInfo(ctx context.Context) error
	Apply(ctx context.Context, yaml []byte) error
	ApplyURL(ctx context.Context, namespace, ref string) error
	EnsureNamespace(ctx context.Context, name string) error
	NamespaceExists(ctx context.Context, name string) bool
	WaitForDeployments(ctx context.Context, namespace, timeout string) error
	SecretKey(ctx context.Context, namespace, name, key string) (string, error)
	List(ctx context.Context, namespace, kinds string) (output string, notFound bool, err error)
}

// ArgoClient is the GitOps control-plane API surface the steps rely on.
type ArgoClient interface {
	ClientVersion(ctx context.Context) error
	AppGet(ctx context.Context, name string) (output string, notFound bool, err error)
	AppSync(ctx context.Context, name string) error
}

// DescriptorRenderer produces deployment descriptors from environment records.
type DescriptorRenderer interface {
	Application(rec registry.EnvironmentRecord) ([]byte, error)
	ApplicationSet(records []registry.EnvironmentRecord) ([]byte, error)
}

// ConfirmFunc asks the operator a yes/no question and reports the answer.
type ConfirmFunc func(prompt string) (bool, error)

// Toolbox bundles the collaborators injected into step implementations.
type Toolbox struct {
	Kube     KubeClient
	Argo     ArgoClient
	Renderer DescriptorRenderer
	Registry *registry.Registry
	Settings config.Settings
	Logger   *slog.Logger
	Out      io.Writer
	Confirm  ConfirmFunc
	// LookPath resolves a binary on PATH; swapped out in tests.
	LookPath func(file string) (string, error)
	// TargetEnv selects the environment for single-environment steps.
	// Empty selects the first registry record.
	TargetEnv string
}

// targetRecord resolves the environment record for single-environment steps.
func (t *Toolbox) targetRecord() (registry.EnvironmentRecord, error) {
	if t.TargetEnv != "" {
		return t.Registry.Get(t.TargetEnv)
	}
	return t.Registry.Records[0], nil
}
