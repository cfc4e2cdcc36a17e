package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
)

// placeholderMarker flags values in the secrets document that were never customized.
const placeholderMarker = "REPLACE_ME"

// checkSecretsFilePresent requires the secrets document to exist on disk.
func (t *Toolbox) checkSecretsFilePresent(context.Context) error {
	if _, err := os.Stat(t.Settings.SecretsPath); err != nil {
		return fmt.Errorf("secrets document %q not readable: %w", t.Settings.SecretsPath, err)
	}
	return nil
}

// runProvisionSecrets applies the secrets document, guarding against an
// uncustomized document. A declined confirmation skips the step; the batch
// continues.
func (t *Toolbox) runProvisionSecrets(ctx context.Context) (string, error) {
	path := t.Settings.SecretsPath

	doc, err := os.ReadFile(path)
	if err != nil {
		return "", &ExternalCallError{Op: fmt.Sprintf("read secrets document %q", path), Err: err}
	}

	if bytes.Contains(doc, []byte(placeholderMarker)) {
		cause := &UnresolvedPlaceholderError{Path: path, Marker: placeholderMarker}
		t.Logger.Warn("secrets document contains unresolved placeholders", "path", path, "marker", placeholderMarker)

		ok, err := t.Confirm(fmt.Sprintf("%s. Apply anyway?", cause.Error()))
		if err != nil {
			return "", &ExternalCallError{Op: "confirm placeholder override", Err: err}
		}
		if !ok {
			return "", Skip("%s; apply declined", cause.Error())
		}
	}

	if err := t.Kube.Apply(ctx, doc); err != nil {
		return "", &ExternalCallError{Op: "apply secrets document", Err: err}
	}

	return fmt.Sprintf("secrets document %q applied", path), nil
}
