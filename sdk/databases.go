package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/everest-platform/console/models"
)

const (
	resourceDatabaseClusters = "database-clusters"
	resourceBackups          = "database-cluster-backups"
	resourceRestores         = "database-cluster-restores"
)

// ============================================================================
// Database Clusters
// ============================================================================

// ListDatabaseClusters lists the database clusters in namespace.
func (c *Client) ListDatabaseClusters(ctx context.Context, namespace string) (*models.DatabaseClusterList, error) {
	var list models.DatabaseClusterList
	if err := c.do(ctx, http.MethodGet, namespacedPath(namespace, resourceDatabaseClusters), nil, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list database clusters: %w", err)
	}
	return &list, nil
}

// GetDatabaseCluster returns a single database cluster.
func (c *Client) GetDatabaseCluster(ctx context.Context, namespace, name string) (*models.DatabaseCluster, error) {
	var db models.DatabaseCluster
	if err := c.do(ctx, http.MethodGet, namespacedPath(namespace, resourceDatabaseClusters, name), nil, nil, &db); err != nil {
		return nil, fmt.Errorf("failed to get database cluster %s: %w", name, err)
	}
	return &db, nil
}

// CreateDatabaseCluster creates db in its namespace.
func (c *Client) CreateDatabaseCluster(ctx context.Context, db *models.DatabaseCluster) (*models.DatabaseCluster, error) {
	var created models.DatabaseCluster
	if err := c.do(ctx, http.MethodPost, namespacedPath(db.GetNamespace(), resourceDatabaseClusters), nil, db, &created); err != nil {
		return nil, fmt.Errorf("failed to create database cluster %s: %w", db.GetName(), err)
	}
	return &created, nil
}

// UpdateDatabaseCluster replaces db. Its resource version must be current.
func (c *Client) UpdateDatabaseCluster(ctx context.Context, db *models.DatabaseCluster) (*models.DatabaseCluster, error) {
	var updated models.DatabaseCluster
	path := namespacedPath(db.GetNamespace(), resourceDatabaseClusters, db.GetName())
	if err := c.do(ctx, http.MethodPut, path, nil, db, &updated); err != nil {
		return nil, fmt.Errorf("failed to update database cluster %s: %w", db.GetName(), err)
	}
	return &updated, nil
}

// DeleteDatabaseCluster deletes a database cluster. params may be nil.
func (c *Client) DeleteDatabaseCluster(ctx context.Context, namespace, name string, params *models.DeleteDatabaseClusterParams) error {
	var query url.Values
	if params != nil && params.CleanupBackupStorage != nil {
		query = url.Values{"cleanupBackupStorage": {strconv.FormatBool(*params.CleanupBackupStorage)}}
	}
	if err := c.do(ctx, http.MethodDelete, namespacedPath(namespace, resourceDatabaseClusters, name), query, nil, nil); err != nil {
		return fmt.Errorf("failed to delete database cluster %s: %w", name, err)
	}
	return nil
}

// GetDatabaseClusterCredentials returns the root credentials of a cluster.
func (c *Client) GetDatabaseClusterCredentials(ctx context.Context, namespace, name string) (*models.DatabaseClusterCredential, error) {
	var creds models.DatabaseClusterCredential
	path := namespacedPath(namespace, resourceDatabaseClusters, name, "credentials")
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &creds); err != nil {
		return nil, fmt.Errorf("failed to get credentials of database cluster %s: %w", name, err)
	}
	return &creds, nil
}

// ListDatabaseClusterBackups lists the backups taken of a cluster.
func (c *Client) ListDatabaseClusterBackups(ctx context.Context, namespace, cluster string) (*models.DatabaseClusterBackupList, error) {
	var list models.DatabaseClusterBackupList
	path := namespacedPath(namespace, resourceDatabaseClusters, cluster, "backups")
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list backups of database cluster %s: %w", cluster, err)
	}
	return &list, nil
}

// ListDatabaseClusterRestores lists the restores into a cluster.
func (c *Client) ListDatabaseClusterRestores(ctx context.Context, namespace, cluster string) (*models.DatabaseClusterRestoreList, error) {
	var list models.DatabaseClusterRestoreList
	path := namespacedPath(namespace, resourceDatabaseClusters, cluster, "restores")
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list restores of database cluster %s: %w", cluster, err)
	}
	return &list, nil
}

// ============================================================================
// Backups
// ============================================================================

// ListBackups lists the backups in namespace.
func (c *Client) ListBackups(ctx context.Context, namespace string) (*models.DatabaseClusterBackupList, error) {
	var list models.DatabaseClusterBackupList
	if err := c.do(ctx, http.MethodGet, namespacedPath(namespace, resourceBackups), nil, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	return &list, nil
}

// GetBackup returns a single backup.
func (c *Client) GetBackup(ctx context.Context, namespace, name string) (*models.DatabaseClusterBackup, error) {
	var b models.DatabaseClusterBackup
	if err := c.do(ctx, http.MethodGet, namespacedPath(namespace, resourceBackups, name), nil, nil, &b); err != nil {
		return nil, fmt.Errorf("failed to get backup %s: %w", name, err)
	}
	return &b, nil
}

// CreateBackup starts an on-demand backup.
func (c *Client) CreateBackup(ctx context.Context, b *models.DatabaseClusterBackup) (*models.DatabaseClusterBackup, error) {
	var created models.DatabaseClusterBackup
	if err := c.do(ctx, http.MethodPost, namespacedPath(b.GetNamespace(), resourceBackups), nil, b, &created); err != nil {
		return nil, fmt.Errorf("failed to create backup %s: %w", b.GetName(), err)
	}
	return &created, nil
}

// DeleteBackup deletes a backup.
func (c *Client) DeleteBackup(ctx context.Context, namespace, name string) error {
	if err := c.do(ctx, http.MethodDelete, namespacedPath(namespace, resourceBackups, name), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete backup %s: %w", name, err)
	}
	return nil
}

// ============================================================================
// Restores
// ============================================================================

// ListRestores lists the restores in namespace.
func (c *Client) ListRestores(ctx context.Context, namespace string) (*models.DatabaseClusterRestoreList, error) {
	var list models.DatabaseClusterRestoreList
	if err := c.do(ctx, http.MethodGet, namespacedPath(namespace, resourceRestores), nil, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list restores: %w", err)
	}
	return &list, nil
}

// GetRestore returns a single restore.
func (c *Client) GetRestore(ctx context.Context, namespace, name string) (*models.DatabaseClusterRestore, error) {
	var r models.DatabaseClusterRestore
	if err := c.do(ctx, http.MethodGet, namespacedPath(namespace, resourceRestores, name), nil, nil, &r); err != nil {
		return nil, fmt.Errorf("failed to get restore %s: %w", name, err)
	}
	return &r, nil
}

// CreateRestore restores a cluster from a backup.
func (c *Client) CreateRestore(ctx context.Context, r *models.DatabaseClusterRestore) (*models.DatabaseClusterRestore, error) {
	var created models.DatabaseClusterRestore
	if err := c.do(ctx, http.MethodPost, namespacedPath(r.GetNamespace(), resourceRestores), nil, r, &created); err != nil {
		return nil, fmt.Errorf("failed to create restore %s: %w", r.GetName(), err)
	}
	return &created, nil
}

// UpdateRestore replaces r.
func (c *Client) UpdateRestore(ctx context.Context, r *models.DatabaseClusterRestore) (*models.DatabaseClusterRestore, error) {
	var updated models.DatabaseClusterRestore
	if err := c.do(ctx, http.MethodPut, namespacedPath(r.GetNamespace(), resourceRestores, r.GetName()), nil, r, &updated); err != nil {
		return nil, fmt.Errorf("failed to update restore %s: %w", r.GetName(), err)
	}
	return &updated, nil
}

// DeleteRestore deletes a restore.
func (c *Client) DeleteRestore(ctx context.Context, namespace, name string) error {
	if err := c.do(ctx, http.MethodDelete, namespacedPath(namespace, resourceRestores, name), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete restore %s: %w", name, err)
	}
	return nil
}
