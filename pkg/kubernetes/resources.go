package kubernetes

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/common"
)

func objectMeta(namespace, name string) metav1.ObjectMeta {
	return metav1.ObjectMeta{Namespace: namespace, Name: name}
}

// ListDatabaseClusters lists database clusters in a namespace.
func (k *Kubernetes) ListDatabaseClusters(ctx context.Context, namespace string) (*models.DatabaseClusterList, error) {
	list := &models.DatabaseClusterList{}
	if err := k.list(ctx, "databaseclusters", list, ctrlclient.InNamespace(namespace)); err != nil {
		return nil, err
	}
	return list, nil
}

// GetDatabaseCluster returns a database cluster.
func (k *Kubernetes) GetDatabaseCluster(ctx context.Context, namespace, name string) (*models.DatabaseCluster, error) {
	db := &models.DatabaseCluster{}
	if err := k.get(ctx, "databaseclusters", namespace, name, db); err != nil {
		return nil, err
	}
	return db, nil
}

// CreateDatabaseCluster creates a database cluster.
func (k *Kubernetes) CreateDatabaseCluster(ctx context.Context, db *models.DatabaseCluster) (*models.DatabaseCluster, error) {
	if err := k.create(ctx, "databaseclusters", db); err != nil {
		return nil, err
	}
	return db, nil
}

// UpdateDatabaseCluster updates a database cluster.
func (k *Kubernetes) UpdateDatabaseCluster(ctx context.Context, db *models.DatabaseCluster) (*models.DatabaseCluster, error) {
	if err := k.update(ctx, "databaseclusters", db); err != nil {
		return nil, err
	}
	return db, nil
}

// DeleteDatabaseCluster deletes a database cluster.
func (k *Kubernetes) DeleteDatabaseCluster(ctx context.Context, namespace, name string) error {
	return k.delete(ctx, "databaseclusters", &models.DatabaseCluster{ObjectMeta: objectMeta(namespace, name)})
}

// ListDatabaseClusterBackups lists backups in a namespace.
func (k *Kubernetes) ListDatabaseClusterBackups(
	ctx context.Context,
	namespace string,
	opts ...ctrlclient.ListOption,
) (*models.DatabaseClusterBackupList, error) {
	list := &models.DatabaseClusterBackupList{}
	opts = append(opts, ctrlclient.InNamespace(namespace))
	if err := k.list(ctx, "databaseclusterbackups", list, opts...); err != nil {
		return nil, err
	}
	return list, nil
}

// ListBackupsForCluster lists the backups of a single cluster.
func (k *Kubernetes) ListBackupsForCluster(ctx context.Context, namespace, cluster string) (*models.DatabaseClusterBackupList, error) {
	return k.ListDatabaseClusterBackups(ctx, namespace,
		ctrlclient.MatchingLabels{common.DatabaseClusterNameLabel: cluster})
}

// GetDatabaseClusterBackup returns a backup.
func (k *Kubernetes) GetDatabaseClusterBackup(ctx context.Context, namespace, name string) (*models.DatabaseClusterBackup, error) {
	b := &models.DatabaseClusterBackup{}
	if err := k.get(ctx, "databaseclusterbackups", namespace, name, b); err != nil {
		return nil, err
	}
	return b, nil
}

// CreateDatabaseClusterBackup creates a backup. The cluster and storage
// labels are set so backups can be listed per cluster.
func (k *Kubernetes) CreateDatabaseClusterBackup(ctx context.Context, b *models.DatabaseClusterBackup) (*models.DatabaseClusterBackup, error) {
	labels := b.GetLabels()
	if labels == nil {
		labels = map[string]string{}
	}
	labels[common.DatabaseClusterNameLabel] = b.Spec.DBClusterName
	labels[common.BackupStorageNameLabel] = b.Spec.BackupStorageName
	b.SetLabels(labels)
	if err := k.create(ctx, "databaseclusterbackups", b); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateDatabaseClusterBackup updates a backup.
func (k *Kubernetes) UpdateDatabaseClusterBackup(ctx context.Context, b *models.DatabaseClusterBackup) (*models.DatabaseClusterBackup, error) {
	if err := k.update(ctx, "databaseclusterbackups", b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteDatabaseClusterBackup deletes a backup.
func (k *Kubernetes) DeleteDatabaseClusterBackup(ctx context.Context, namespace, name string) error {
	return k.delete(ctx, "databaseclusterbackups", &models.DatabaseClusterBackup{ObjectMeta: objectMeta(namespace, name)})
}

// ListDatabaseClusterRestores lists restores in a namespace.
func (k *Kubernetes) ListDatabaseClusterRestores(
	ctx context.Context,
	namespace string,
	opts ...ctrlclient.ListOption,
) (*models.DatabaseClusterRestoreList, error) {
	list := &models.DatabaseClusterRestoreList{}
	opts = append(opts, ctrlclient.InNamespace(namespace))
	if err := k.list(ctx, "databaseclusterrestores", list, opts...); err != nil {
		return nil, err
	}
	return list, nil
}

// ListRestoresForCluster lists the restores of a single cluster.
func (k *Kubernetes) ListRestoresForCluster(ctx context.Context, namespace, cluster string) (*models.DatabaseClusterRestoreList, error) {
	return k.ListDatabaseClusterRestores(ctx, namespace,
		ctrlclient.MatchingLabels{common.DatabaseClusterNameLabel: cluster})
}

// GetDatabaseClusterRestore returns a restore.
func (k *Kubernetes) GetDatabaseClusterRestore(ctx context.Context, namespace, name string) (*models.DatabaseClusterRestore, error) {
	r := &models.DatabaseClusterRestore{}
	if err := k.get(ctx, "databaseclusterrestores", namespace, name, r); err != nil {
		return nil, err
	}
	return r, nil
}

// CreateDatabaseClusterRestore creates a restore labelled with its cluster.
func (k *Kubernetes) CreateDatabaseClusterRestore(ctx context.Context, r *models.DatabaseClusterRestore) (*models.DatabaseClusterRestore, error) {
	labels := r.GetLabels()
	if labels == nil {
		labels = map[string]string{}
	}
	labels[common.DatabaseClusterNameLabel] = r.Spec.DBClusterName
	r.SetLabels(labels)
	if err := k.create(ctx, "databaseclusterrestores", r); err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateDatabaseClusterRestore updates a restore.
func (k *Kubernetes) UpdateDatabaseClusterRestore(ctx context.Context, r *models.DatabaseClusterRestore) (*models.DatabaseClusterRestore, error) {
	if err := k.update(ctx, "databaseclusterrestores", r); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteDatabaseClusterRestore deletes a restore.
func (k *Kubernetes) DeleteDatabaseClusterRestore(ctx context.Context, namespace, name string) error {
	return k.delete(ctx, "databaseclusterrestores", &models.DatabaseClusterRestore{ObjectMeta: objectMeta(namespace, name)})
}

// ListBackupStorages lists backup storages in a namespace.
func (k *Kubernetes) ListBackupStorages(ctx context.Context, namespace string) (*models.BackupStorageList, error) {
	list := &models.BackupStorageList{}
	if err := k.list(ctx, "backupstorages", list, ctrlclient.InNamespace(namespace)); err != nil {
		return nil, err
	}
	return list, nil
}

// GetBackupStorage returns a backup storage.
func (k *Kubernetes) GetBackupStorage(ctx context.Context, namespace, name string) (*models.BackupStorage, error) {
	bs := &models.BackupStorage{}
	if err := k.get(ctx, "backupstorages", namespace, name, bs); err != nil {
		return nil, err
	}
	return bs, nil
}

// CreateBackupStorage creates a backup storage.
func (k *Kubernetes) CreateBackupStorage(ctx context.Context, bs *models.BackupStorage) (*models.BackupStorage, error) {
	if err := k.create(ctx, "backupstorages", bs); err != nil {
		return nil, err
	}
	return bs, nil
}

// UpdateBackupStorage updates a backup storage.
func (k *Kubernetes) UpdateBackupStorage(ctx context.Context, bs *models.BackupStorage) (*models.BackupStorage, error) {
	if err := k.update(ctx, "backupstorages", bs); err != nil {
		return nil, err
	}
	return bs, nil
}

// DeleteBackupStorage deletes a backup storage.
func (k *Kubernetes) DeleteBackupStorage(ctx context.Context, namespace, name string) error {
	return k.delete(ctx, "backupstorages", &models.BackupStorage{ObjectMeta: objectMeta(namespace, name)})
}

// ListMonitoringConfigs lists monitoring configs in a namespace.
func (k *Kubernetes) ListMonitoringConfigs(ctx context.Context, namespace string) (*models.MonitoringConfigList, error) {
	list := &models.MonitoringConfigList{}
	if err := k.list(ctx, "monitoringconfigs", list, ctrlclient.InNamespace(namespace)); err != nil {
		return nil, err
	}
	return list, nil
}

// GetMonitoringConfig returns a monitoring config.
func (k *Kubernetes) GetMonitoringConfig(ctx context.Context, namespace, name string) (*models.MonitoringConfig, error) {
	mc := &models.MonitoringConfig{}
	if err := k.get(ctx, "monitoringconfigs", namespace, name, mc); err != nil {
		return nil, err
	}
	return mc, nil
}

// CreateMonitoringConfig creates a monitoring config.
func (k *Kubernetes) CreateMonitoringConfig(ctx context.Context, mc *models.MonitoringConfig) (*models.MonitoringConfig, error) {
	if err := k.create(ctx, "monitoringconfigs", mc); err != nil {
		return nil, err
	}
	return mc, nil
}

// UpdateMonitoringConfig updates a monitoring config.
func (k *Kubernetes) UpdateMonitoringConfig(ctx context.Context, mc *models.MonitoringConfig) (*models.MonitoringConfig, error) {
	if err := k.update(ctx, "monitoringconfigs", mc); err != nil {
		return nil, err
	}
	return mc, nil
}

// DeleteMonitoringConfig deletes a monitoring config.
func (k *Kubernetes) DeleteMonitoringConfig(ctx context.Context, namespace, name string) error {
	return k.delete(ctx, "monitoringconfigs", &models.MonitoringConfig{ObjectMeta: objectMeta(namespace, name)})
}

// ListDatabaseEngines lists database engines in a namespace.
func (k *Kubernetes) ListDatabaseEngines(ctx context.Context, namespace string) (*models.DatabaseEngineList, error) {
	list := &models.DatabaseEngineList{}
	if err := k.list(ctx, "databaseengines", list, ctrlclient.InNamespace(namespace)); err != nil {
		return nil, err
	}
	return list, nil
}

// GetDatabaseEngine returns a database engine.
func (k *Kubernetes) GetDatabaseEngine(ctx context.Context, namespace, name string) (*models.DatabaseEngine, error) {
	e := &models.DatabaseEngine{}
	if err := k.get(ctx, "databaseengines", namespace, name, e); err != nil {
		return nil, err
	}
	return e, nil
}

// CreateDatabaseEngine creates a database engine.
func (k *Kubernetes) CreateDatabaseEngine(ctx context.Context, e *models.DatabaseEngine) (*models.DatabaseEngine, error) {
	if err := k.create(ctx, "databaseengines", e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateDatabaseEngine updates a database engine.
func (k *Kubernetes) UpdateDatabaseEngine(ctx context.Context, e *models.DatabaseEngine) (*models.DatabaseEngine, error) {
	if err := k.update(ctx, "databaseengines", e); err != nil {
		return nil, err
	}
	return e, nil
}

// SetDatabaseEngineLock sets or clears the upgrade lock annotation of an engine.
func (k *Kubernetes) SetDatabaseEngineLock(ctx context.Context, namespace, name string, locked bool) error {
	engine, err := k.GetDatabaseEngine(ctx, namespace, name)
	if err != nil {
		return err
	}
	annotations := engine.GetAnnotations()
	if annotations == nil {
		annotations = map[string]string{}
	}
	if locked {
		annotations[common.UpgradeLockAnnotation] = "true"
	} else {
		delete(annotations, common.UpgradeLockAnnotation)
	}
	engine.SetAnnotations(annotations)
	_, err = k.UpdateDatabaseEngine(ctx, engine)
	return err
}

// ListPodSchedulingPolicies lists pod scheduling policies in a namespace.
func (k *Kubernetes) ListPodSchedulingPolicies(ctx context.Context, namespace string) (*models.PodSchedulingPolicyList, error) {
	list := &models.PodSchedulingPolicyList{}
	if err := k.list(ctx, "podschedulingpolicies", list, ctrlclient.InNamespace(namespace)); err != nil {
		return nil, err
	}
	return list, nil
}

// GetPodSchedulingPolicy returns a pod scheduling policy.
func (k *Kubernetes) GetPodSchedulingPolicy(ctx context.Context, namespace, name string) (*models.PodSchedulingPolicy, error) {
	p := &models.PodSchedulingPolicy{}
	if err := k.get(ctx, "podschedulingpolicies", namespace, name, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePodSchedulingPolicy creates a pod scheduling policy.
func (k *Kubernetes) CreatePodSchedulingPolicy(ctx context.Context, p *models.PodSchedulingPolicy) (*models.PodSchedulingPolicy, error) {
	if err := k.create(ctx, "podschedulingpolicies", p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePodSchedulingPolicy updates a pod scheduling policy.
func (k *Kubernetes) UpdatePodSchedulingPolicy(ctx context.Context, p *models.PodSchedulingPolicy) (*models.PodSchedulingPolicy, error) {
	if err := k.update(ctx, "podschedulingpolicies", p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePodSchedulingPolicy deletes a pod scheduling policy.
func (k *Kubernetes) DeletePodSchedulingPolicy(ctx context.Context, namespace, name string) error {
	return k.delete(ctx, "podschedulingpolicies", &models.PodSchedulingPolicy{ObjectMeta: objectMeta(namespace, name)})
}
