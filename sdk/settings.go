package sdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/everest-platform/console/models"
)

const (
	resourceBackupStorages        = "backup-storages"
	resourceMonitoringInstances   = "monitoring-instances"
	resourceDatabaseEngines       = "database-engines"
	resourcePodSchedulingPolicies = "pod-scheduling-policies"
)

// ============================================================================
// Backup Storages
// ============================================================================

func (c *Client) ListBackupStorages(ctx context.Context, namespace string) (*models.BackupStorageList, error) {
	var list models.BackupStorageList
	if err := c.do(ctx, http.MethodGet, namespacedPath(namespace, resourceBackupStorages), nil, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list backup storages: %w", err)
	}
	return &list, nil
}

func (c *Client) GetBackupStorage(ctx context.Context, namespace, name string) (*models.BackupStorage, error) {
	var bs models.BackupStorage
	if err := c.do(ctx, http.MethodGet, namespacedPath(namespace, resourceBackupStorages, name), nil, nil, &bs); err != nil {
		return nil, fmt.Errorf("failed to get backup storage %s: %w", name, err)
	}
	return &bs, nil
}

// CreateBackupStorage registers a bucket. The server checks access to it
// before saving.
func (c *Client) CreateBackupStorage(ctx context.Context, namespace string, req *models.CreateBackupStorageRequest) (*models.BackupStorage, error) {
	var bs models.BackupStorage
	if err := c.do(ctx, http.MethodPost, namespacedPath(namespace, resourceBackupStorages), nil, req, &bs); err != nil {
		return nil, fmt.Errorf("failed to create backup storage %s: %w", req.Name, err)
	}
	return &bs, nil
}

// UpdateBackupStorage changes the fields set in req.
func (c *Client) UpdateBackupStorage(ctx context.Context, namespace, name string, req *models.UpdateBackupStorageRequest) (*models.BackupStorage, error) {
	var bs models.BackupStorage
	if err := c.do(ctx, http.MethodPut, namespacedPath(namespace, resourceBackupStorages, name), nil, req, &bs); err != nil {
		return nil, fmt.Errorf("failed to update backup storage %s: %w", name, err)
	}
	return &bs, nil
}

// DeleteBackupStorage fails with ErrConflict or ErrBadRequest while the storage is in use.
func (c *Client) DeleteBackupStorage(ctx context.Context, namespace, name string) error {
	if err := c.do(ctx, http.MethodDelete, namespacedPath(namespace, resourceBackupStorages, name), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete backup storage %s: %w", name, err)
	}
	return nil
}

// ============================================================================
// Monitoring Instances
// ============================================================================

func (c *Client) ListMonitoringInstances(ctx context.Context, namespace string) (*models.MonitoringConfigList, error) {
	var list models.MonitoringConfigList
	if err := c.do(ctx, http.MethodGet, namespacedPath(namespace, resourceMonitoringInstances), nil, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list monitoring instances: %w", err)
	}
	return &list, nil
}

func (c *Client) GetMonitoringInstance(ctx context.Context, namespace, name string) (*models.MonitoringConfig, error) {
	var mc models.MonitoringConfig
	if err := c.do(ctx, http.MethodGet, namespacedPath(namespace, resourceMonitoringInstances, name), nil, nil, &mc); err != nil {
		return nil, fmt.Errorf("failed to get monitoring instance %s: %w", name, err)
	}
	return &mc, nil
}

func (c *Client) CreateMonitoringInstance(ctx context.Context, namespace string, req *models.CreateMonitoringInstanceRequest) (*models.MonitoringConfig, error) {
	var mc models.MonitoringConfig
	if err := c.do(ctx, http.MethodPost, namespacedPath(namespace, resourceMonitoringInstances), nil, req, &mc); err != nil {
		return nil, fmt.Errorf("failed to create monitoring instance %s: %w", req.Name, err)
	}
	return &mc, nil
}

func (c *Client) UpdateMonitoringInstance(ctx context.Context, namespace, name string, req *models.UpdateMonitoringInstanceRequest) (*models.MonitoringConfig, error) {
	var mc models.MonitoringConfig
	if err := c.do(ctx, http.MethodPut, namespacedPath(namespace, resourceMonitoringInstances, name), nil, req, &mc); err != nil {
		return nil, fmt.Errorf("failed to update monitoring instance %s: %w", name, err)
	}
	return &mc, nil
}

func (c *Client) DeleteMonitoringInstance(ctx context.Context, namespace, name string) error {
	if err := c.do(ctx, http.MethodDelete, namespacedPath(namespace, resourceMonitoringInstances, name), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete monitoring instance %s: %w", name, err)
	}
	return nil
}

// ============================================================================
// Database Engines
// ============================================================================

func (c *Client) ListDatabaseEngines(ctx context.Context, namespace string) (*models.DatabaseEngineList, error) {
	var list models.DatabaseEngineList
	if err := c.do(ctx, http.MethodGet, namespacedPath(namespace, resourceDatabaseEngines), nil, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list database engines: %w", err)
	}
	return &list, nil
}

func (c *Client) GetDatabaseEngine(ctx context.Context, namespace, name string) (*models.DatabaseEngine, error) {
	var e models.DatabaseEngine
	if err := c.do(ctx, http.MethodGet, namespacedPath(namespace, resourceDatabaseEngines, name), nil, nil, &e); err != nil {
		return nil, fmt.Errorf("failed to get database engine %s: %w", name, err)
	}
	return &e, nil
}

func (c *Client) UpdateDatabaseEngine(ctx context.Context, e *models.DatabaseEngine) (*models.DatabaseEngine, error) {
	var updated models.DatabaseEngine
	if err := c.do(ctx, http.MethodPut, namespacedPath(e.GetNamespace(), resourceDatabaseEngines, e.GetName()), nil, e, &updated); err != nil {
		return nil, fmt.Errorf("failed to update database engine %s: %w", e.GetName(), err)
	}
	return &updated, nil
}

// GetUpgradePlan returns the pending operator upgrades in namespace and the
// tasks each cluster needs before they can be approved.
func (c *Client) GetUpgradePlan(ctx context.Context, namespace string) (*models.UpgradePlan, error) {
	var plan models.UpgradePlan
	if err := c.do(ctx, http.MethodGet, namespacedPath(namespace, resourceDatabaseEngines, "upgrade-plan"), nil, nil, &plan); err != nil {
		return nil, fmt.Errorf("failed to get upgrade plan: %w", err)
	}
	return &plan, nil
}

// ApproveUpgradePlan starts the pending operator upgrades in namespace.
func (c *Client) ApproveUpgradePlan(ctx context.Context, namespace string) error {
	path := namespacedPath(namespace, resourceDatabaseEngines, "upgrade-plan", "approval")
	if err := c.do(ctx, http.MethodPut, path, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to approve upgrade plan: %w", err)
	}
	return nil
}

// ============================================================================
// Pod Scheduling Policies
// ============================================================================

func (c *Client) ListPodSchedulingPolicies(ctx context.Context, namespace string) (*models.PodSchedulingPolicyList, error) {
	var list models.PodSchedulingPolicyList
	if err := c.do(ctx, http.MethodGet, namespacedPath(namespace, resourcePodSchedulingPolicies), nil, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list pod scheduling policies: %w", err)
	}
	return &list, nil
}

func (c *Client) GetPodSchedulingPolicy(ctx context.Context, namespace, name string) (*models.PodSchedulingPolicy, error) {
	var p models.PodSchedulingPolicy
	if err := c.do(ctx, http.MethodGet, namespacedPath(namespace, resourcePodSchedulingPolicies, name), nil, nil, &p); err != nil {
		return nil, fmt.Errorf("failed to get pod scheduling policy %s: %w", name, err)
	}
	return &p, nil
}

func (c *Client) CreatePodSchedulingPolicy(ctx context.Context, p *models.PodSchedulingPolicy) (*models.PodSchedulingPolicy, error) {
	var created models.PodSchedulingPolicy
	if err := c.do(ctx, http.MethodPost, namespacedPath(p.GetNamespace(), resourcePodSchedulingPolicies), nil, p, &created); err != nil {
		return nil, fmt.Errorf("failed to create pod scheduling policy %s: %w", p.GetName(), err)
	}
	return &created, nil
}

func (c *Client) UpdatePodSchedulingPolicy(ctx context.Context, p *models.PodSchedulingPolicy) (*models.PodSchedulingPolicy, error) {
	var updated models.PodSchedulingPolicy
	if err := c.do(ctx, http.MethodPut, namespacedPath(p.GetNamespace(), resourcePodSchedulingPolicies, p.GetName()), nil, p, &updated); err != nil {
		return nil, fmt.Errorf("failed to update pod scheduling policy %s: %w", p.GetName(), err)
	}
	return &updated, nil
}

func (c *Client) DeletePodSchedulingPolicy(ctx context.Context, namespace, name string) error {
	if err := c.do(ctx, http.MethodDelete, namespacedPath(namespace, resourcePodSchedulingPolicies, name), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete pod scheduling policy %s: %w", name, err)
	}
	return nil
}
