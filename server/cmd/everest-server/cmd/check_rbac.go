package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/everest-platform/console/pkg/rbac"
)

// ExecuteCheckRBAC validates a policy.csv file against the RBAC model. A
// .yaml or .yml argument is read as the everest-rbac ConfigMap manifest.
func ExecuteCheckRBAC(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("check-rbac", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: check-rbac <policy.csv|configmap.yaml>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to read policy: %w", err)
	}
	policy := string(data)
	switch filepath.Ext(fs.Arg(0)) {
	case ".yaml", ".yml":
		if policy, err = rbac.PolicyFromManifest(data); err != nil {
			return err
		}
	}
	if err := rbac.ValidatePolicy(policy); err != nil {
		fmt.Fprintf(out, "✗ Policy %s is invalid:\n%v\n", fs.Arg(0), err)
		return errors.New("policy validation failed")
	}
	fmt.Fprintf(out, "✓ Policy %s is valid\n", fs.Arg(0))
	return nil
}
