package service

import (
	"context"

	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/common"
)

func setLabel(obj ctrlclient.Object, key, value string) {
	labels := obj.GetLabels()
	if labels == nil {
		labels = map[string]string{}
	}
	labels[key] = value
	obj.SetLabels(labels)
}

func (h *k8sHandler) ListBackups(ctx context.Context, namespace string) (*models.DatabaseClusterBackupList, error) {
	return h.kube.ListDatabaseClusterBackups(ctx, namespace)
}

func (h *k8sHandler) GetBackup(ctx context.Context, namespace, name string) (*models.DatabaseClusterBackup, error) {
	return h.kube.GetDatabaseClusterBackup(ctx, namespace, name)
}

func (h *k8sHandler) CreateBackup(ctx context.Context, b *models.DatabaseClusterBackup) (*models.DatabaseClusterBackup, error) {
	if err := h.ensureClusterExists(ctx, b.GetNamespace(), b.Spec.DBClusterName); err != nil {
		return nil, err
	}
	b.APIVersion = models.APIVersion
	b.Kind = "DatabaseClusterBackup"
	setLabel(b, common.DatabaseClusterNameLabel, b.Spec.DBClusterName)
	setLabel(b, common.BackupStorageNameLabel, b.Spec.BackupStorageName)
	return h.kube.CreateDatabaseClusterBackup(ctx, b)
}

func (h *k8sHandler) DeleteBackup(ctx context.Context, namespace, name string) error {
	return h.kube.DeleteDatabaseClusterBackup(ctx, namespace, name)
}

func (h *k8sHandler) ListRestores(ctx context.Context, namespace string) (*models.DatabaseClusterRestoreList, error) {
	return h.kube.ListDatabaseClusterRestores(ctx, namespace)
}

func (h *k8sHandler) GetRestore(ctx context.Context, namespace, name string) (*models.DatabaseClusterRestore, error) {
	return h.kube.GetDatabaseClusterRestore(ctx, namespace, name)
}

func (h *k8sHandler) CreateRestore(ctx context.Context, r *models.DatabaseClusterRestore) (*models.DatabaseClusterRestore, error) {
	if err := h.ensureClusterExists(ctx, r.GetNamespace(), r.Spec.DBClusterName); err != nil {
		return nil, err
	}
	r.APIVersion = models.APIVersion
	r.Kind = "DatabaseClusterRestore"
	setLabel(r, common.DatabaseClusterNameLabel, r.Spec.DBClusterName)
	return h.kube.CreateDatabaseClusterRestore(ctx, r)
}

func (h *k8sHandler) UpdateRestore(ctx context.Context, r *models.DatabaseClusterRestore) (*models.DatabaseClusterRestore, error) {
	return h.kube.UpdateDatabaseClusterRestore(ctx, r)
}

func (h *k8sHandler) DeleteRestore(ctx context.Context, namespace, name string) error {
	return h.kube.DeleteDatabaseClusterRestore(ctx, namespace, name)
}
