package rbac

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
)

type staticConfigMap struct {
	cm    *corev1.ConfigMap
	calls int
}

func (s *staticConfigMap) GetConfigMap(context.Context, string, string) (*corev1.ConfigMap, error) {
	s.calls++
	return s.cm.DeepCopy(), nil
}

func policyConfigMap(enabled bool, lines ...string) *corev1.ConfigMap {
	en := "false"
	if enabled {
		en = "true"
	}
	return &corev1.ConfigMap{Data: map[string]string{
		keyEnabled: en,
		keyPolicy:  strings.Join(lines, "\n"),
	}}
}

func TestEnforce(t *testing.T) {
	t.Parallel()

	policy := []string{
		"p, role:dev, database-clusters, read, dev/*",
		"p, role:dev, database-clusters, *, dev/sandbox",
		"p, role:ops, *, *, prod/*",
		"p, role:ops, namespaces, read, prod",
		"g, alice, role:dev",
		"g, bob, role:ops",
	}

	tests := []struct {
		user, res, act, obj string
		want                bool
	}{
		{"alice", ResourceDatabaseClusters, ActionRead, "dev/db1", true},
		{"alice", ResourceDatabaseClusters, ActionUpdate, "dev/db1", false},
		{"alice", ResourceDatabaseClusters, ActionDelete, "dev/sandbox", true},
		{"alice", ResourceBackupStorages, ActionRead, "dev/s3", false},
		{"alice", ResourceDatabaseClusters, ActionRead, "prod/db1", false},
		{"bob", ResourceBackupStorages, ActionCreate, "prod/s3", true},
		{"bob", ResourceBackupStorages, ActionCreate, "dev/s3", false},
		{"admin", ResourceNamespaces, ActionRead, "kube-system", true},
		{"bob", ResourceNamespaces, ActionRead, "prod", true},
		{"bob", ResourceNamespaces, ActionRead, "dev", false},
		{"alice", ResourceNamespaces, ActionRead, "dev", false},
		{"mallory", ResourceDatabaseClusters, ActionRead, "dev/db1", false},
	}

	e, err := NewEnforcer(context.Background(), &staticConfigMap{cm: policyConfigMap(true, policy...)}, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.True(t, e.Enabled())

	for _, tt := range tests {
		t.Run(tt.user+" "+tt.act+" "+tt.obj, func(t *testing.T) {
			t.Parallel()
			got, err := e.Enforce(tt.user, tt.res, tt.act, tt.obj)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnforceDisabled(t *testing.T) {
	t.Parallel()

	e, err := NewEnforcer(context.Background(), &staticConfigMap{cm: policyConfigMap(false)}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.False(t, e.Enabled())

	ok, err := e.Enforce("anyone", ResourceDatabaseClusters, ActionDelete, "prod/db1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPermissions(t *testing.T) {
	t.Parallel()

	e, err := NewEnforcerFromPolicy(strings.Join([]string{
		"p, role:dev, database-clusters, read, dev/*",
		"g, alice, role:dev",
	}, "\n"), true, zap.NewNop().Sugar())
	require.NoError(t, err)

	perms, err := e.Permissions("alice")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{ResourceDatabaseClusters, ActionRead, "dev/*"}}, perms)

	perms, err = e.Permissions("nobody")
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestReloadSkipsUnchangedConfigMap(t *testing.T) {
	t.Parallel()

	cm := policyConfigMap(true, "g, alice, role:admin")
	cm.SetResourceVersion("7")
	src := &staticConfigMap{cm: cm}
	e, err := NewEnforcer(context.Background(), src, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.NoError(t, e.Reload(context.Background()))
	assert.Equal(t, "7", e.version)

	src.cm = policyConfigMap(false)
	src.cm.SetResourceVersion("8")
	require.NoError(t, e.Reload(context.Background()))
	assert.False(t, e.Enabled())
	assert.Equal(t, 3, src.calls)
}

func TestValidatePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		policy  string
		wantErr error
	}{
		{name: "empty"},
		{name: "valid", policy: "# comment\np, role:dev, database-clusters, read, dev/*\ng, alice, role:dev"},
		{name: "wildcards", policy: "p, role:dev, *, *, *"},
		{name: "unknown resource", policy: "p, role:dev, clusters, read, dev/*", wantErr: ErrUnknownResource},
		{name: "unknown action", policy: "p, role:dev, database-clusters, write, dev/*", wantErr: ErrUnknownAction},
		{name: "bad object", policy: "p, role:dev, database-clusters, read, dev", wantErr: ErrInvalidObject},
		{name: "namespace", policy: "p, role:dev, namespaces, read, dev"},
		{name: "namespace glob", policy: "p, role:dev, namespaces, read, dev/*", wantErr: ErrInvalidNamespaceObject},
		{name: "short p", policy: "p, role:dev, database-clusters, read", wantErr: ErrInvalidPolicyLine},
		{name: "bad g", policy: "g, alice", wantErr: ErrInvalidPolicyLine},
		{name: "unknown type", policy: "x, a, b", wantErr: ErrInvalidPolicyLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePolicy(tt.policy)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
