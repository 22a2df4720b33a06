package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/common"
)

func (h *k8sHandler) ListDatabaseClusters(ctx context.Context, namespace string) (*models.DatabaseClusterList, error) {
	return h.kube.ListDatabaseClusters(ctx, namespace)
}

func (h *k8sHandler) GetDatabaseCluster(ctx context.Context, namespace, name string) (*models.DatabaseCluster, error) {
	return h.kube.GetDatabaseCluster(ctx, namespace, name)
}

func (h *k8sHandler) CreateDatabaseCluster(ctx context.Context, db *models.DatabaseCluster) (*models.DatabaseCluster, error) {
	db.APIVersion = models.APIVersion
	db.Kind = "DatabaseCluster"
	return h.kube.CreateDatabaseCluster(ctx, db)
}

func (h *k8sHandler) UpdateDatabaseCluster(ctx context.Context, db *models.DatabaseCluster) (*models.DatabaseCluster, error) {
	return h.kube.UpdateDatabaseCluster(ctx, db)
}

// DeleteDatabaseCluster deletes a cluster. Unless cleanupBackupStorage is set,
// the storage protection finalizer is dropped from the cluster's backups so
// their files are kept in the backup storage.
func (h *k8sHandler) DeleteDatabaseCluster(ctx context.Context, namespace, name string, params *models.DeleteDatabaseClusterParams) error {
	cleanup := params != nil && params.CleanupBackupStorage != nil && *params.CleanupBackupStorage
	if !cleanup {
		if err := h.releaseBackupFiles(ctx, namespace, name); err != nil {
			return err
		}
	}
	return h.kube.DeleteDatabaseCluster(ctx, namespace, name)
}

func (h *k8sHandler) releaseBackupFiles(ctx context.Context, namespace, cluster string) error {
	backups, err := h.kube.ListBackupsForCluster(ctx, namespace, cluster)
	if err != nil {
		return fmt.Errorf("failed to list backups of %s: %w", cluster, err)
	}
	for i := range backups.Items {
		b := &backups.Items[i]
		finalizers := b.GetFinalizers()
		if !slices.Contains(finalizers, common.DBBStorageProtectionFinalizer) {
			continue
		}
		b.SetFinalizers(slices.DeleteFunc(slices.Clone(finalizers), func(f string) bool {
			return f == common.DBBStorageProtectionFinalizer
		}))
		if _, err := h.kube.UpdateDatabaseClusterBackup(ctx, b); err != nil {
			return fmt.Errorf("failed to update backup %s: %w", b.GetName(), err)
		}
		h.l.Debug("released backup files", zap.String("backup", b.GetName()))
	}
	return nil
}

// GetDatabaseClusterCredentials reads the root credentials from the
// everest-secrets-<name> Secret.
func (h *k8sHandler) GetDatabaseClusterCredentials(ctx context.Context, namespace, name string) (*models.DatabaseClusterCredential, error) {
	db, err := h.kube.GetDatabaseCluster(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	secret, err := h.kube.GetSecret(ctx, namespace, common.EverestSecretsPrefix+name)
	if err != nil {
		return nil, err
	}
	cred := &models.DatabaseClusterCredential{
		Username: string(secret.Data["username"]),
		Password: string(secret.Data["password"]),
	}
	if cred.Username == "" {
		return nil, errors.New("credentials secret has no username")
	}
	cred.ConnectionURL = connectionURL(db, cred)
	return cred, nil
}

func connectionURL(db *models.DatabaseCluster, cred *models.DatabaseClusterCredential) string {
	if db.Status.Hostname == "" {
		return ""
	}
	var scheme string
	switch db.Spec.Engine.Type {
	case models.DatabaseEnginePXC:
		scheme = "mysql"
	case models.DatabaseEnginePSMDB:
		scheme = "mongodb"
	case models.DatabaseEnginePostgresql:
		scheme = "postgres"
	default:
		return ""
	}
	host := db.Status.Hostname
	if db.Status.Port != 0 {
		host = net.JoinHostPort(host, strconv.Itoa(int(db.Status.Port)))
	}
	u := url.URL{Scheme: scheme, User: url.UserPassword(cred.Username, cred.Password), Host: host}
	return u.String()
}

func (h *k8sHandler) ListDatabaseClusterBackups(ctx context.Context, namespace, cluster string) (*models.DatabaseClusterBackupList, error) {
	return h.kube.ListBackupsForCluster(ctx, namespace, cluster)
}

func (h *k8sHandler) ListDatabaseClusterRestores(ctx context.Context, namespace, cluster string) (*models.DatabaseClusterRestoreList, error) {
	return h.kube.ListRestoresForCluster(ctx, namespace, cluster)
}
