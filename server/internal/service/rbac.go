package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/common"
	"github.com/everest-platform/console/pkg/rbac"
	"github.com/everest-platform/console/server/internal/metrics"
)

// ErrNoUser is returned when the request context carries no user.
var ErrNoUser = errors.New("no user in request context")

// UserGetter extracts the authenticated user from a request context.
type UserGetter func(ctx context.Context) (string, error)

// UserFromContext reads the user stored by the auth middleware.
func UserFromContext(ctx context.Context) (string, error) {
	user, ok := ctx.Value(common.UserCtxKey).(string)
	if !ok || user == "" {
		return "", ErrNoUser
	}
	return user, nil
}

// rbacHandler authorizes every operation against the RBAC policy. Lists are
// filtered down to the items the user may read.
type rbacHandler struct {
	next       Handler
	l          *zap.Logger
	enforcer   *rbac.Enforcer
	userGetter UserGetter
}

var _ Handler = (*rbacHandler)(nil)

// NewRBACHandler returns a handler that enforces the policy of enforcer
// before calling next.
func NewRBACHandler(next Handler, enforcer *rbac.Enforcer, userGetter UserGetter, l *zap.Logger) Handler {
	return &rbacHandler{
		next:       next,
		l:          l.With(zap.String("handler", "rbac")),
		enforcer:   enforcer,
		userGetter: userGetter,
	}
}

func (h *rbacHandler) enforce(ctx context.Context, resource, action, object string) error {
	user, err := h.userGetter(ctx)
	if err != nil {
		return err
	}
	ok, err := h.enforcer.Enforce(user, resource, action, object)
	if err != nil {
		return fmt.Errorf("failed to enforce rbac policy: %w", err)
	}
	if !ok {
		metrics.RBACDenials.WithLabelValues(resource, action).Inc()
		h.l.Debug("permission denied",
			zap.String("user", user),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.String("object", object),
		)
		return models.ErrInsufficientPermissions
	}
	return nil
}

// filterReadable keeps the items user may read.
func filterReadable[T any](ctx context.Context, h *rbacHandler, resource string, items []T, object func(*T) string) ([]T, error) {
	user, err := h.userGetter(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for i := range items {
		ok, err := h.enforcer.Enforce(user, resource, rbac.ActionRead, object(&items[i]))
		if err != nil {
			return nil, fmt.Errorf("failed to enforce rbac policy: %w", err)
		}
		if ok {
			out = append(out, items[i])
		}
	}
	return out, nil
}

type namespacedObject interface {
	GetNamespace() string
	GetName() string
}

func objectOf(o namespacedObject) string {
	return rbac.ObjectName(o.GetNamespace(), o.GetName())
}

func (h *rbacHandler) ListDatabaseClusters(ctx context.Context, namespace string) (*models.DatabaseClusterList, error) {
	list, err := h.next.ListDatabaseClusters(ctx, namespace)
	if err != nil {
		return nil, err
	}
	list.Items, err = filterReadable(ctx, h, rbac.ResourceDatabaseClusters, list.Items,
		func(db *models.DatabaseCluster) string { return objectOf(db) })
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (h *rbacHandler) GetDatabaseCluster(ctx context.Context, namespace, name string) (*models.DatabaseCluster, error) {
	if err := h.enforce(ctx, rbac.ResourceDatabaseClusters, rbac.ActionRead, rbac.ObjectName(namespace, name)); err != nil {
		return nil, err
	}
	return h.next.GetDatabaseCluster(ctx, namespace, name)
}

func (h *rbacHandler) CreateDatabaseCluster(ctx context.Context, db *models.DatabaseCluster) (*models.DatabaseCluster, error) {
	if err := h.enforce(ctx, rbac.ResourceDatabaseClusters, rbac.ActionCreate, objectOf(db)); err != nil {
		return nil, err
	}
	if ds := db.Spec.DataSource; ds != nil && ds.BackupSource != nil {
		obj := rbac.ObjectName(db.GetNamespace(), ds.BackupSource.BackupStorageName)
		if err := h.enforce(ctx, rbac.ResourceBackupStorages, rbac.ActionRead, obj); err != nil {
			return nil, err
		}
	}
	return h.next.CreateDatabaseCluster(ctx, db)
}

func (h *rbacHandler) UpdateDatabaseCluster(ctx context.Context, db *models.DatabaseCluster) (*models.DatabaseCluster, error) {
	if err := h.enforce(ctx, rbac.ResourceDatabaseClusters, rbac.ActionUpdate, objectOf(db)); err != nil {
		return nil, err
	}
	return h.next.UpdateDatabaseCluster(ctx, db)
}

func (h *rbacHandler) DeleteDatabaseCluster(ctx context.Context, namespace, name string, params *models.DeleteDatabaseClusterParams) error {
	if err := h.enforce(ctx, rbac.ResourceDatabaseClusters, rbac.ActionDelete, rbac.ObjectName(namespace, name)); err != nil {
		return err
	}
	return h.next.DeleteDatabaseCluster(ctx, namespace, name, params)
}

func (h *rbacHandler) GetDatabaseClusterCredentials(ctx context.Context, namespace, name string) (*models.DatabaseClusterCredential, error) {
	if err := h.enforce(ctx, rbac.ResourceDatabaseClusterCredentials, rbac.ActionRead, rbac.ObjectName(namespace, name)); err != nil {
		return nil, err
	}
	return h.next.GetDatabaseClusterCredentials(ctx, namespace, name)
}

// Backups and restores are authorized against the cluster they belong to.
func backupObject(b *models.DatabaseClusterBackup) string {
	return rbac.ObjectName(b.GetNamespace(), b.Spec.DBClusterName)
}

func restoreObject(r *models.DatabaseClusterRestore) string {
	return rbac.ObjectName(r.GetNamespace(), r.Spec.DBClusterName)
}

func (h *rbacHandler) ListDatabaseClusterBackups(ctx context.Context, namespace, cluster string) (*models.DatabaseClusterBackupList, error) {
	if err := h.enforce(ctx, rbac.ResourceDatabaseClusterBackups, rbac.ActionRead, rbac.ObjectName(namespace, cluster)); err != nil {
		return nil, err
	}
	return h.next.ListDatabaseClusterBackups(ctx, namespace, cluster)
}

func (h *rbacHandler) ListDatabaseClusterRestores(ctx context.Context, namespace, cluster string) (*models.DatabaseClusterRestoreList, error) {
	if err := h.enforce(ctx, rbac.ResourceDatabaseClusterRestores, rbac.ActionRead, rbac.ObjectName(namespace, cluster)); err != nil {
		return nil, err
	}
	return h.next.ListDatabaseClusterRestores(ctx, namespace, cluster)
}

func (h *rbacHandler) ListBackups(ctx context.Context, namespace string) (*models.DatabaseClusterBackupList, error) {
	list, err := h.next.ListBackups(ctx, namespace)
	if err != nil {
		return nil, err
	}
	if list.Items, err = filterReadable(ctx, h, rbac.ResourceDatabaseClusterBackups, list.Items, backupObject); err != nil {
		return nil, err
	}
	return list, nil
}

func (h *rbacHandler) GetBackup(ctx context.Context, namespace, name string) (*models.DatabaseClusterBackup, error) {
	b, err := h.next.GetBackup(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	if err := h.enforce(ctx, rbac.ResourceDatabaseClusterBackups, rbac.ActionRead, backupObject(b)); err != nil {
		return nil, err
	}
	return b, nil
}

func (h *rbacHandler) CreateBackup(ctx context.Context, b *models.DatabaseClusterBackup) (*models.DatabaseClusterBackup, error) {
	if err := h.enforce(ctx, rbac.ResourceDatabaseClusterBackups, rbac.ActionCreate, backupObject(b)); err != nil {
		return nil, err
	}
	storage := rbac.ObjectName(b.GetNamespace(), b.Spec.BackupStorageName)
	if err := h.enforce(ctx, rbac.ResourceBackupStorages, rbac.ActionRead, storage); err != nil {
		return nil, err
	}
	return h.next.CreateBackup(ctx, b)
}

func (h *rbacHandler) DeleteBackup(ctx context.Context, namespace, name string) error {
	b, err := h.next.GetBackup(ctx, namespace, name)
	if err != nil {
		return err
	}
	if err := h.enforce(ctx, rbac.ResourceDatabaseClusterBackups, rbac.ActionDelete, backupObject(b)); err != nil {
		return err
	}
	return h.next.DeleteBackup(ctx, namespace, name)
}

func (h *rbacHandler) ListRestores(ctx context.Context, namespace string) (*models.DatabaseClusterRestoreList, error) {
	list, err := h.next.ListRestores(ctx, namespace)
	if err != nil {
		return nil, err
	}
	if list.Items, err = filterReadable(ctx, h, rbac.ResourceDatabaseClusterRestores, list.Items, restoreObject); err != nil {
		return nil, err
	}
	return list, nil
}

func (h *rbacHandler) GetRestore(ctx context.Context, namespace, name string) (*models.DatabaseClusterRestore, error) {
	r, err := h.next.GetRestore(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	if err := h.enforce(ctx, rbac.ResourceDatabaseClusterRestores, rbac.ActionRead, restoreObject(r)); err != nil {
		return nil, err
	}
	return r, nil
}

func (h *rbacHandler) CreateRestore(ctx context.Context, r *models.DatabaseClusterRestore) (*models.DatabaseClusterRestore, error) {
	if err := h.enforce(ctx, rbac.ResourceDatabaseClusterRestores, rbac.ActionCreate, restoreObject(r)); err != nil {
		return nil, err
	}
	return h.next.CreateRestore(ctx, r)
}

func (h *rbacHandler) UpdateRestore(ctx context.Context, r *models.DatabaseClusterRestore) (*models.DatabaseClusterRestore, error) {
	if err := h.enforce(ctx, rbac.ResourceDatabaseClusterRestores, rbac.ActionUpdate, restoreObject(r)); err != nil {
		return nil, err
	}
	return h.next.UpdateRestore(ctx, r)
}

func (h *rbacHandler) DeleteRestore(ctx context.Context, namespace, name string) error {
	r, err := h.next.GetRestore(ctx, namespace, name)
	if err != nil {
		return err
	}
	if err := h.enforce(ctx, rbac.ResourceDatabaseClusterRestores, rbac.ActionDelete, restoreObject(r)); err != nil {
		return err
	}
	return h.next.DeleteRestore(ctx, namespace, name)
}

func (h *rbacHandler) ListBackupStorages(ctx context.Context, namespace string) (*models.BackupStorageList, error) {
	list, err := h.next.ListBackupStorages(ctx, namespace)
	if err != nil {
		return nil, err
	}
	list.Items, err = filterReadable(ctx, h, rbac.ResourceBackupStorages, list.Items,
		func(bs *models.BackupStorage) string { return objectOf(bs) })
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (h *rbacHandler) GetBackupStorage(ctx context.Context, namespace, name string) (*models.BackupStorage, error) {
	if err := h.enforce(ctx, rbac.ResourceBackupStorages, rbac.ActionRead, rbac.ObjectName(namespace, name)); err != nil {
		return nil, err
	}
	return h.next.GetBackupStorage(ctx, namespace, name)
}

func (h *rbacHandler) CreateBackupStorage(
	ctx context.Context,
	namespace string,
	req *models.CreateBackupStorageRequest,
) (*models.BackupStorage, error) {
	if err := h.enforce(ctx, rbac.ResourceBackupStorages, rbac.ActionCreate, rbac.ObjectName(namespace, req.Name)); err != nil {
		return nil, err
	}
	return h.next.CreateBackupStorage(ctx, namespace, req)
}

func (h *rbacHandler) UpdateBackupStorage(
	ctx context.Context,
	namespace, name string,
	req *models.UpdateBackupStorageRequest,
) (*models.BackupStorage, error) {
	if err := h.enforce(ctx, rbac.ResourceBackupStorages, rbac.ActionUpdate, rbac.ObjectName(namespace, name)); err != nil {
		return nil, err
	}
	return h.next.UpdateBackupStorage(ctx, namespace, name, req)
}

func (h *rbacHandler) DeleteBackupStorage(ctx context.Context, namespace, name string) error {
	if err := h.enforce(ctx, rbac.ResourceBackupStorages, rbac.ActionDelete, rbac.ObjectName(namespace, name)); err != nil {
		return err
	}
	return h.next.DeleteBackupStorage(ctx, namespace, name)
}

func (h *rbacHandler) ListMonitoringInstances(ctx context.Context, namespace string) (*models.MonitoringConfigList, error) {
	list, err := h.next.ListMonitoringInstances(ctx, namespace)
	if err != nil {
		return nil, err
	}
	list.Items, err = filterReadable(ctx, h, rbac.ResourceMonitoringInstances, list.Items,
		func(mc *models.MonitoringConfig) string { return objectOf(mc) })
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (h *rbacHandler) GetMonitoringInstance(ctx context.Context, namespace, name string) (*models.MonitoringConfig, error) {
	if err := h.enforce(ctx, rbac.ResourceMonitoringInstances, rbac.ActionRead, rbac.ObjectName(namespace, name)); err != nil {
		return nil, err
	}
	return h.next.GetMonitoringInstance(ctx, namespace, name)
}

func (h *rbacHandler) CreateMonitoringInstance(
	ctx context.Context,
	namespace string,
	req *models.CreateMonitoringInstanceRequest,
) (*models.MonitoringConfig, error) {
	if err := h.enforce(ctx, rbac.ResourceMonitoringInstances, rbac.ActionCreate, rbac.ObjectName(namespace, req.Name)); err != nil {
		return nil, err
	}
	return h.next.CreateMonitoringInstance(ctx, namespace, req)
}

func (h *rbacHandler) UpdateMonitoringInstance(
	ctx context.Context,
	namespace, name string,
	req *models.UpdateMonitoringInstanceRequest,
) (*models.MonitoringConfig, error) {
	if err := h.enforce(ctx, rbac.ResourceMonitoringInstances, rbac.ActionUpdate, rbac.ObjectName(namespace, name)); err != nil {
		return nil, err
	}
	return h.next.UpdateMonitoringInstance(ctx, namespace, name, req)
}

func (h *rbacHandler) DeleteMonitoringInstance(ctx context.Context, namespace, name string) error {
	if err := h.enforce(ctx, rbac.ResourceMonitoringInstances, rbac.ActionDelete, rbac.ObjectName(namespace, name)); err != nil {
		return err
	}
	return h.next.DeleteMonitoringInstance(ctx, namespace, name)
}

func (h *rbacHandler) ListDatabaseEngines(ctx context.Context, namespace string) (*models.DatabaseEngineList, error) {
	list, err := h.next.ListDatabaseEngines(ctx, namespace)
	if err != nil {
		return nil, err
	}
	list.Items, err = filterReadable(ctx, h, rbac.ResourceDatabaseEngines, list.Items,
		func(e *models.DatabaseEngine) string { return objectOf(e) })
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (h *rbacHandler) GetDatabaseEngine(ctx context.Context, namespace, name string) (*models.DatabaseEngine, error) {
	if err := h.enforce(ctx, rbac.ResourceDatabaseEngines, rbac.ActionRead, rbac.ObjectName(namespace, name)); err != nil {
		return nil, err
	}
	return h.next.GetDatabaseEngine(ctx, namespace, name)
}

func (h *rbacHandler) UpdateDatabaseEngine(ctx context.Context, e *models.DatabaseEngine) (*models.DatabaseEngine, error) {
	if err := h.enforce(ctx, rbac.ResourceDatabaseEngines, rbac.ActionUpdate, objectOf(e)); err != nil {
		return nil, err
	}
	return h.next.UpdateDatabaseEngine(ctx, e)
}

// GetUpgradePlan requires read access to every engine in the plan.
func (h *rbacHandler) GetUpgradePlan(ctx context.Context, namespace string) (*models.UpgradePlan, error) {
	plan, err := h.next.GetUpgradePlan(ctx, namespace)
	if err != nil {
		return nil, err
	}
	for _, u := range plan.Upgrades {
		if err := h.enforce(ctx, rbac.ResourceDatabaseEngines, rbac.ActionRead, rbac.ObjectName(namespace, u.Name)); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// ApproveUpgradePlan requires update access to every engine being upgraded.
func (h *rbacHandler) ApproveUpgradePlan(ctx context.Context, namespace string) error {
	plan, err := h.next.GetUpgradePlan(ctx, namespace)
	if err != nil {
		return err
	}
	for _, u := range plan.Upgrades {
		if err := h.enforce(ctx, rbac.ResourceDatabaseEngines, rbac.ActionUpdate, rbac.ObjectName(namespace, u.Name)); err != nil {
			return err
		}
	}
	return h.next.ApproveUpgradePlan(ctx, namespace)
}

func (h *rbacHandler) ListPodSchedulingPolicies(ctx context.Context, namespace string) (*models.PodSchedulingPolicyList, error) {
	list, err := h.next.ListPodSchedulingPolicies(ctx, namespace)
	if err != nil {
		return nil, err
	}
	list.Items, err = filterReadable(ctx, h, rbac.ResourcePodSchedulingPolicies, list.Items,
		func(p *models.PodSchedulingPolicy) string { return objectOf(p) })
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (h *rbacHandler) GetPodSchedulingPolicy(ctx context.Context, namespace, name string) (*models.PodSchedulingPolicy, error) {
	if err := h.enforce(ctx, rbac.ResourcePodSchedulingPolicies, rbac.ActionRead, rbac.ObjectName(namespace, name)); err != nil {
		return nil, err
	}
	return h.next.GetPodSchedulingPolicy(ctx, namespace, name)
}

func (h *rbacHandler) CreatePodSchedulingPolicy(ctx context.Context, p *models.PodSchedulingPolicy) (*models.PodSchedulingPolicy, error) {
	if err := h.enforce(ctx, rbac.ResourcePodSchedulingPolicies, rbac.ActionCreate, objectOf(p)); err != nil {
		return nil, err
	}
	return h.next.CreatePodSchedulingPolicy(ctx, p)
}

func (h *rbacHandler) UpdatePodSchedulingPolicy(ctx context.Context, p *models.PodSchedulingPolicy) (*models.PodSchedulingPolicy, error) {
	if err := h.enforce(ctx, rbac.ResourcePodSchedulingPolicies, rbac.ActionUpdate, objectOf(p)); err != nil {
		return nil, err
	}
	return h.next.UpdatePodSchedulingPolicy(ctx, p)
}

func (h *rbacHandler) DeletePodSchedulingPolicy(ctx context.Context, namespace, name string) error {
	if err := h.enforce(ctx, rbac.ResourcePodSchedulingPolicies, rbac.ActionDelete, rbac.ObjectName(namespace, name)); err != nil {
		return err
	}
	return h.next.DeletePodSchedulingPolicy(ctx, namespace, name)
}

func (h *rbacHandler) ListNamespaces(ctx context.Context) ([]string, error) {
	namespaces, err := h.next.ListNamespaces(ctx)
	if err != nil {
		return nil, err
	}
	return filterReadable(ctx, h, rbac.ResourceNamespaces, namespaces,
		func(ns *string) string { return *ns })
}

func (h *rbacHandler) GetClusterInfo(ctx context.Context) (*models.ClusterInfo, error) {
	return h.next.GetClusterInfo(ctx)
}

// GetUserPermissions returns the rules that apply to the caller so the UI
// can hide what the user cannot do.
func (h *rbacHandler) GetUserPermissions(ctx context.Context) (*models.UserPermissions, error) {
	user, err := h.userGetter(ctx)
	if err != nil {
		return nil, err
	}
	result := &models.UserPermissions{Enabled: h.enforcer.Enabled(), Permissions: []models.Permission{}}
	if !result.Enabled {
		return result, nil
	}
	rules, err := h.enforcer.Permissions(user)
	if err != nil {
		return nil, err
	}
	for _, r := range rules {
		result.Permissions = append(result.Permissions, models.Permission{Resource: r[0], Action: r[1], Object: r[2]})
	}
	return result, nil
}
