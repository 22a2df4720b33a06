package service

import (
	"context"
	"errors"

	"github.com/everest-platform/console/models"
)

var (
	errBackupNoClusterName = errors.New(".spec.dbClusterName cannot be empty")
	errBackupNoStorageName = errors.New(".spec.backupStorageName cannot be empty")
)

func (h *validateHandler) ListBackups(ctx context.Context, namespace string) (*models.DatabaseClusterBackupList, error) {
	return h.next.ListBackups(ctx, namespace)
}

func (h *validateHandler) GetBackup(ctx context.Context, namespace, name string) (*models.DatabaseClusterBackup, error) {
	return h.next.GetBackup(ctx, namespace, name)
}

func (h *validateHandler) CreateBackup(ctx context.Context, b *models.DatabaseClusterBackup) (*models.DatabaseClusterBackup, error) {
	if err := validateMetadata(b); err != nil {
		return nil, invalid(err)
	}
	if b.Spec.DBClusterName == "" {
		return nil, invalid(errBackupNoClusterName)
	}
	if b.Spec.BackupStorageName == "" {
		return nil, invalid(errBackupNoStorageName)
	}
	return h.next.CreateBackup(ctx, b)
}

func (h *validateHandler) DeleteBackup(ctx context.Context, namespace, name string) error {
	return h.next.DeleteBackup(ctx, namespace, name)
}

func (h *validateHandler) ListRestores(ctx context.Context, namespace string) (*models.DatabaseClusterRestoreList, error) {
	return h.next.ListRestores(ctx, namespace)
}

func (h *validateHandler) GetRestore(ctx context.Context, namespace, name string) (*models.DatabaseClusterRestore, error) {
	return h.next.GetRestore(ctx, namespace, name)
}

func validateRestore(r *models.DatabaseClusterRestore) error {
	if err := validateMetadata(r); err != nil {
		return err
	}
	if r.Spec.DBClusterName == "" {
		return errBackupNoClusterName
	}
	return validateRestoreDataSource(r.Spec.DataSource)
}

func (h *validateHandler) CreateRestore(ctx context.Context, r *models.DatabaseClusterRestore) (*models.DatabaseClusterRestore, error) {
	if err := validateRestore(r); err != nil {
		return nil, invalid(err)
	}
	return h.next.CreateRestore(ctx, r)
}

func (h *validateHandler) UpdateRestore(ctx context.Context, r *models.DatabaseClusterRestore) (*models.DatabaseClusterRestore, error) {
	if err := validateRestore(r); err != nil {
		return nil, invalid(err)
	}
	return h.next.UpdateRestore(ctx, r)
}

func (h *validateHandler) DeleteRestore(ctx context.Context, namespace, name string) error {
	return h.next.DeleteRestore(ctx, namespace, name)
}
