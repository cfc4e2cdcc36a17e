package steps

import (
	"context"
	"encoding/base64"
	"fmt"
)

// initialAdminSecret is the well-known name Argo CD stores its bootstrap credential under.
const initialAdminSecret = "argocd-initial-admin-secret"

// checkControlPlanePresent requires the control-plane namespace to exist.
func (t *Toolbox) checkControlPlanePresent(ctx context.Context) error {
	ns := t.Settings.ArgoNamespace
	if !t.Kube.NamespaceExists(ctx, ns) {
		return fmt.Errorf("control-plane namespace %q not found; run the install step first", ns)
	}
	return nil
}

// runAdminCredential reads the bootstrap admin secret, decodes it and surfaces
// it to the operator. The credential is never written to disk.
func (t *Toolbox) runAdminCredential(ctx context.Context) (string, error) {
	ns := t.Settings.ArgoNamespace

	encoded, err := t.Kube.SecretKey(ctx, ns, initialAdminSecret, "password")
	if err != nil {
		return "", &ExternalCallError{Op: fmt.Sprintf("read secret %q", initialAdminSecret), Err: err}
	}

	password, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", &ExternalCallError{Op: "decode admin password", Err: err}
	}

	fmt.Fprintf(t.Out, "Argo CD admin credential:\n  username: admin\n  password: %s\n", password)

	return "initial admin credential printed (not persisted)", nil
}
