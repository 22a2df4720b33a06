// Package rbac enforces the console's role based access control policy.
//
// The policy lives in the everest-rbac ConfigMap as casbin CSV lines:
//
//	p, <role>, <resource>, <action>, <namespace>/<name>
//	g, <user>, <role>
//
// Objects and resources accept keyMatch globs, and "*" matches anything.
package rbac

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
)

// Resources named in policies.
const (
	ResourceDatabaseClusters           = "database-clusters"
	ResourceDatabaseClusterBackups     = "database-cluster-backups"
	ResourceDatabaseClusterRestores    = "database-cluster-restores"
	ResourceDatabaseClusterCredentials = "database-cluster-credentials"
	ResourceBackupStorages             = "backup-storages"
	ResourceMonitoringInstances        = "monitoring-instances"
	ResourceDatabaseEngines            = "database-engines"
	ResourceNamespaces                 = "namespaces"
	ResourcePodSchedulingPolicies      = "pod-scheduling-policies"
)

// Actions named in policies.
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionAll    = "*"
)

const (
	configMapNamespace = "everest-system"
	configMapName      = "everest-rbac"
	keyEnabled         = "enabled"
	keyPolicy          = "policy.csv"

	adminUser = "admin"
	adminRole = "role:admin"

	// DefaultRefreshInterval is how often Start re-reads the policy.
	DefaultRefreshInterval = 10 * time.Second
)

// Model is the casbin model every policy is evaluated against.
const Model = `
[request_definition]
r = sub, res, act, obj

[policy_definition]
p = sub, res, act, obj

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (keyMatch(r.res, p.res) || p.res == '*') && (r.act == p.act || p.act == '*') && (keyMatch(r.obj, p.obj) || p.obj == '*')
`

// builtinPolicy grants the admin account everything.
var builtinPolicy = []string{
	"p, " + adminRole + ", *, *, */*",
	"g, " + adminUser + ", " + adminRole,
}

// ConfigMapGetter reads the policy ConfigMap.
type ConfigMapGetter interface {
	GetConfigMap(ctx context.Context, namespace, name string) (*corev1.ConfigMap, error)
}

// ErrPolicyNotLoaded is returned when the enforcer is used before a policy was read.
var ErrPolicyNotLoaded = errors.New("rbac policy is not loaded")

// Enforcer evaluates requests against the policy in the RBAC ConfigMap.
type Enforcer struct {
	mu       sync.RWMutex
	enforcer *casbin.SyncedEnforcer
	enabled  bool
	version  string

	cm ConfigMapGetter
	l  *zap.SugaredLogger
}

// NewEnforcer loads the policy from the ConfigMap and returns an enforcer.
func NewEnforcer(ctx context.Context, cm ConfigMapGetter, l *zap.SugaredLogger) (*Enforcer, error) {
	e := &Enforcer{cm: cm, l: l.With("component", "rbac")}
	if err := e.Reload(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEnforcerFromPolicy returns an enforcer for a fixed policy. It never reloads.
func NewEnforcerFromPolicy(policy string, enabled bool, l *zap.SugaredLogger) (*Enforcer, error) {
	e := &Enforcer{l: l.With("component", "rbac")}
	if err := e.load(policy, enabled, ""); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload re-reads the ConfigMap. The casbin enforcer is only rebuilt when
// the ConfigMap changed.
func (e *Enforcer) Reload(ctx context.Context) error {
	if e.cm == nil {
		return nil
	}
	cm, err := e.cm.GetConfigMap(ctx, configMapNamespace, configMapName)
	if err != nil {
		return fmt.Errorf("failed to read rbac config map: %w", err)
	}

	e.mu.RLock()
	unchanged := e.enforcer != nil && cm.GetResourceVersion() != "" && cm.GetResourceVersion() == e.version
	e.mu.RUnlock()
	if unchanged {
		return nil
	}

	return e.load(cm.Data[keyPolicy], cm.Data[keyEnabled] == "true", cm.GetResourceVersion())
}

func (e *Enforcer) load(policy string, enabled bool, version string) error {
	m, err := model.NewModelFromString(Model)
	if err != nil {
		return fmt.Errorf("invalid rbac model: %w", err)
	}
	enf, err := casbin.NewSyncedEnforcer(m, &policyAdapter{policy: policy})
	if err != nil {
		return fmt.Errorf("failed to load rbac policy: %w", err)
	}

	e.mu.Lock()
	e.enforcer = enf
	e.enabled = enabled
	e.version = version
	e.mu.Unlock()
	e.l.Debugw("rbac policy loaded", "enabled", enabled, "version", version)
	return nil
}

// Start re-reads the policy every interval until ctx is cancelled.
func (e *Enforcer) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.Reload(ctx); err != nil {
				e.l.Warnw("failed to refresh rbac policy", "error", err)
			}
		}
	}
}

// Enabled reports whether the policy is enforced.
func (e *Enforcer) Enabled() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.enabled
}

// Enforce reports whether user may perform action on resource for object.
// object is "<namespace>/<name>". Everything is allowed when RBAC is disabled.
func (e *Enforcer) Enforce(user, resource, action, object string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.enforcer == nil {
		return false, ErrPolicyNotLoaded
	}
	if !e.enabled {
		return true, nil
	}
	return e.enforcer.Enforce(user, resource, action, object)
}

// Permissions returns the policy lines that apply to user, including those
// inherited from its roles. Each line is [resource, action, object].
func (e *Enforcer) Permissions(user string) ([][]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.enforcer == nil {
		return nil, ErrPolicyNotLoaded
	}
	rules, err := e.enforcer.GetImplicitPermissionsForUser(user)
	if err != nil {
		return nil, err
	}
	result := make([][]string, 0, len(rules))
	for _, r := range rules {
		if len(r) < 4 {
			continue
		}
		result = append(result, []string{r[1], r[2], r[3]})
	}
	return result, nil
}

// ObjectName joins a namespace and a name into a policy object.
func ObjectName(namespace, name string) string {
	return namespace + "/" + name
}

// NamespaceObject is the policy object of everything of a resource inside a
// namespace. Rules for "<namespace>/*" and "*/*" match it. Rules on the
// namespaces resource itself use the plain namespace name.
func NamespaceObject(namespace string) string {
	return ObjectName(namespace, "*")
}

// policyAdapter feeds casbin the CSV policy plus the built-in admin rules.
// It is read-only.
type policyAdapter struct {
	policy string
}

var _ persist.Adapter = (*policyAdapter)(nil)

func (a *policyAdapter) LoadPolicy(m model.Model) error {
	for _, line := range append(policyLines(a.policy), builtinPolicy...) {
		if err := persist.LoadPolicyLine(line, m); err != nil {
			return fmt.Errorf("invalid policy line %q: %w", line, err)
		}
	}
	return nil
}

var errReadOnly = errors.New("rbac policy is read-only")

func (a *policyAdapter) SavePolicy(model.Model) error             { return errReadOnly }
func (a *policyAdapter) AddPolicy(string, string, []string) error { return errReadOnly }
func (a *policyAdapter) RemovePolicy(string, string, []string) error {
	return errReadOnly
}

func (a *policyAdapter) RemoveFilteredPolicy(string, string, int, ...string) error {
	return errReadOnly
}

// policyLines returns the non-empty, non-comment lines of a CSV policy.
func policyLines(policy string) []string {
	var lines []string
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
