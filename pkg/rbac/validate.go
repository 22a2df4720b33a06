package rbac

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidPolicyLine is returned for a line that is neither a p nor a g rule.
	ErrInvalidPolicyLine = errors.New("invalid policy line")
	// ErrUnknownResource is returned for a p rule naming an unknown resource.
	ErrUnknownResource = errors.New("unknown resource")
	// ErrUnknownAction is returned for a p rule naming an unknown action.
	ErrUnknownAction = errors.New("unknown action")
	// ErrInvalidObject is returned for a p rule whose object is not <namespace>/<name>.
	ErrInvalidObject = errors.New("object must be '*' or '<namespace>/<name>'")
	// ErrInvalidNamespaceObject is returned for a namespaces rule whose
	// object is not a plain namespace name.
	ErrInvalidNamespaceObject = errors.New("namespaces object must be '*' or a namespace name")
	// ErrNotRBACConfigMap is returned for a manifest that is not a ConfigMap
	// carrying a policy.csv key.
	ErrNotRBACConfigMap = errors.New("manifest is not a ConfigMap with a policy.csv key")
)

//nolint:gochecknoglobals
var (
	knownResources = []string{
		ResourceDatabaseClusters,
		ResourceDatabaseClusterBackups,
		ResourceDatabaseClusterRestores,
		ResourceDatabaseClusterCredentials,
		ResourceBackupStorages,
		ResourceMonitoringInstances,
		ResourceDatabaseEngines,
		ResourceNamespaces,
		ResourcePodSchedulingPolicies,
		"*",
	}
	knownActions = []string{ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionAll}
)

// ValidatePolicy checks every line of a CSV policy and makes sure casbin
// accepts the whole policy. All line errors are returned joined.
func ValidatePolicy(policy string) error {
	var errs []error
	for i, line := range policyLines(policy) {
		if err := validateLine(line); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", i+1, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	m, err := model.NewModelFromString(Model)
	if err != nil {
		return err
	}
	if _, err := casbin.NewEnforcer(m, &policyAdapter{policy: policy}); err != nil {
		return fmt.Errorf("casbin rejected the policy: %w", err)
	}
	return nil
}

func validateLine(line string) error {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	switch fields[0] {
	case "g":
		if len(fields) != 3 || fields[1] == "" || fields[2] == "" {
			return fmt.Errorf("%w: g rules take a user and a role: %q", ErrInvalidPolicyLine, line)
		}
		return nil
	case "p":
		if len(fields) != 5 {
			return fmt.Errorf("%w: p rules take a subject, resource, action and object: %q", ErrInvalidPolicyLine, line)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPolicyLine, line)
	}

	res, act, obj := fields[2], fields[3], fields[4]
	if !slices.Contains(knownResources, res) {
		return fmt.Errorf("%w: %s", ErrUnknownResource, res)
	}
	if !slices.Contains(knownActions, act) {
		return fmt.Errorf("%w: %s", ErrUnknownAction, act)
	}
	switch {
	case obj == "*":
	case res == ResourceNamespaces:
		if strings.Contains(obj, "/") {
			return fmt.Errorf("%w: %s", ErrInvalidNamespaceObject, obj)
		}
	case strings.Count(obj, "/") != 1:
		return fmt.Errorf("%w: %s", ErrInvalidObject, obj)
	}
	return nil
}

type configMapManifest struct {
	Kind string            `yaml:"kind"`
	Data map[string]string `yaml:"data"`
}

// PolicyFromManifest extracts the CSV policy from a ConfigMap manifest, the
// way everest-rbac is stored in the cluster.
func PolicyFromManifest(manifest []byte) (string, error) {
	var cm configMapManifest
	if err := yaml.Unmarshal(manifest, &cm); err != nil {
		return "", fmt.Errorf("failed to parse manifest: %w", err)
	}
	policy, ok := cm.Data[keyPolicy]
	if cm.Kind != "ConfigMap" || !ok {
		return "", ErrNotRBACConfigMap
	}
	return policy, nil
}
