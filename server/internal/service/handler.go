// Package service implements the console operations behind the REST API.
//
// Operations are served by a chain of handlers that all implement Handler:
//
//	rbac -> validation -> k8s
//
// Each link enforces one concern and delegates to the next one.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/kubernetes"
	"github.com/everest-platform/console/pkg/rbac"
	"github.com/everest-platform/console/pkg/versionservice"
	"github.com/everest-platform/console/server/internal/storagecheck"
)

// Handler is the full set of console operations.
type Handler interface {
	DatabaseClusterHandler
	DatabaseClusterBackupHandler
	DatabaseClusterRestoreHandler
	BackupStorageHandler
	MonitoringInstanceHandler
	DatabaseEngineHandler
	PodSchedulingPolicyHandler
	NamespaceHandler
}

// DatabaseClusterHandler serves database cluster operations.
type DatabaseClusterHandler interface {
	ListDatabaseClusters(ctx context.Context, namespace string) (*models.DatabaseClusterList, error)
	GetDatabaseCluster(ctx context.Context, namespace, name string) (*models.DatabaseCluster, error)
	CreateDatabaseCluster(ctx context.Context, db *models.DatabaseCluster) (*models.DatabaseCluster, error)
	UpdateDatabaseCluster(ctx context.Context, db *models.DatabaseCluster) (*models.DatabaseCluster, error)
	DeleteDatabaseCluster(ctx context.Context, namespace, name string, params *models.DeleteDatabaseClusterParams) error
	GetDatabaseClusterCredentials(ctx context.Context, namespace, name string) (*models.DatabaseClusterCredential, error)
	ListDatabaseClusterBackups(ctx context.Context, namespace, cluster string) (*models.DatabaseClusterBackupList, error)
	ListDatabaseClusterRestores(ctx context.Context, namespace, cluster string) (*models.DatabaseClusterRestoreList, error)
}

// DatabaseClusterBackupHandler serves backup operations.
type DatabaseClusterBackupHandler interface {
	ListBackups(ctx context.Context, namespace string) (*models.DatabaseClusterBackupList, error)
	GetBackup(ctx context.Context, namespace, name string) (*models.DatabaseClusterBackup, error)
	CreateBackup(ctx context.Context, b *models.DatabaseClusterBackup) (*models.DatabaseClusterBackup, error)
	DeleteBackup(ctx context.Context, namespace, name string) error
}

// DatabaseClusterRestoreHandler serves restore operations.
type DatabaseClusterRestoreHandler interface {
	ListRestores(ctx context.Context, namespace string) (*models.DatabaseClusterRestoreList, error)
	GetRestore(ctx context.Context, namespace, name string) (*models.DatabaseClusterRestore, error)
	CreateRestore(ctx context.Context, r *models.DatabaseClusterRestore) (*models.DatabaseClusterRestore, error)
	UpdateRestore(ctx context.Context, r *models.DatabaseClusterRestore) (*models.DatabaseClusterRestore, error)
	DeleteRestore(ctx context.Context, namespace, name string) error
}

// BackupStorageHandler serves backup storage operations.
type BackupStorageHandler interface {
	ListBackupStorages(ctx context.Context, namespace string) (*models.BackupStorageList, error)
	GetBackupStorage(ctx context.Context, namespace, name string) (*models.BackupStorage, error)
	CreateBackupStorage(ctx context.Context, namespace string, req *models.CreateBackupStorageRequest) (*models.BackupStorage, error)
	UpdateBackupStorage(ctx context.Context, namespace, name string, req *models.UpdateBackupStorageRequest) (*models.BackupStorage, error)
	DeleteBackupStorage(ctx context.Context, namespace, name string) error
}

// MonitoringInstanceHandler serves monitoring instance operations.
type MonitoringInstanceHandler interface {
	ListMonitoringInstances(ctx context.Context, namespace string) (*models.MonitoringConfigList, error)
	GetMonitoringInstance(ctx context.Context, namespace, name string) (*models.MonitoringConfig, error)
	CreateMonitoringInstance(ctx context.Context, namespace string, req *models.CreateMonitoringInstanceRequest) (*models.MonitoringConfig, error)
	UpdateMonitoringInstance(ctx context.Context, namespace, name string, req *models.UpdateMonitoringInstanceRequest) (*models.MonitoringConfig, error)
	DeleteMonitoringInstance(ctx context.Context, namespace, name string) error
}

// DatabaseEngineHandler serves engine and operator upgrade operations.
type DatabaseEngineHandler interface {
	ListDatabaseEngines(ctx context.Context, namespace string) (*models.DatabaseEngineList, error)
	GetDatabaseEngine(ctx context.Context, namespace, name string) (*models.DatabaseEngine, error)
	UpdateDatabaseEngine(ctx context.Context, e *models.DatabaseEngine) (*models.DatabaseEngine, error)
	GetUpgradePlan(ctx context.Context, namespace string) (*models.UpgradePlan, error)
	ApproveUpgradePlan(ctx context.Context, namespace string) error
}

// PodSchedulingPolicyHandler serves pod scheduling policy operations.
type PodSchedulingPolicyHandler interface {
	ListPodSchedulingPolicies(ctx context.Context, namespace string) (*models.PodSchedulingPolicyList, error)
	GetPodSchedulingPolicy(ctx context.Context, namespace, name string) (*models.PodSchedulingPolicy, error)
	CreatePodSchedulingPolicy(ctx context.Context, p *models.PodSchedulingPolicy) (*models.PodSchedulingPolicy, error)
	UpdatePodSchedulingPolicy(ctx context.Context, p *models.PodSchedulingPolicy) (*models.PodSchedulingPolicy, error)
	DeletePodSchedulingPolicy(ctx context.Context, namespace, name string) error
}

// NamespaceHandler serves cluster wide operations.
type NamespaceHandler interface {
	ListNamespaces(ctx context.Context) ([]string, error)
	GetClusterInfo(ctx context.Context) (*models.ClusterInfo, error)
	GetUserPermissions(ctx context.Context) (*models.UserPermissions, error)
}

// NewHandler builds the rbac -> validation -> k8s chain.
func NewHandler(
	kube *kubernetes.Kubernetes,
	vs versionservice.Interface,
	storage storagecheck.Checker,
	enforcer *rbac.Enforcer,
	l *zap.Logger,
) Handler {
	k8s := NewK8sHandler(kube, vs, l)
	validation := NewValidateHandler(k8s, kube, storage, l)
	return NewRBACHandler(validation, enforcer, UserFromContext, l)
}
