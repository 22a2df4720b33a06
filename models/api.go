package models

// UserCredentials is the login request body.
type UserCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionToken is the login response body.
type SessionToken struct {
	Token string `json:"token"`
}

// Version describes the running console build.
type Version struct {
	ProjectName string `json:"projectName"`
	Version     string `json:"version"`
	FullCommit  string `json:"fullCommit"`
}

// ClusterInfo describes the Kubernetes cluster the console manages.
type ClusterInfo struct {
	ClusterType   string `json:"clusterType"`
	ServerVersion string `json:"serverVersion,omitempty"`
}

// DatabaseClusterCredential holds the root credentials of a cluster.
type DatabaseClusterCredential struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ConnectionURL string `json:"connectionUrl,omitempty"`
}

// DeleteDatabaseClusterParams are the query parameters of a cluster deletion.
type DeleteDatabaseClusterParams struct {
	// CleanupBackupStorage also removes the cluster's backups from storage
	CleanupBackupStorage *bool `json:"cleanupBackupStorage,omitempty" form:"cleanupBackupStorage"`
}

// PMMCredentials are the credentials used to reach a PMM server.
type PMMCredentials struct {
	APIKey   string `json:"apiKey,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
}

// CreateMonitoringInstanceRequest is the body of a monitoring instance creation.
type CreateMonitoringInstanceRequest struct {
	Name      string          `json:"name"`
	Type      MonitoringType  `json:"type"`
	URL       string          `json:"url"`
	VerifyTLS *bool           `json:"verifyTLS,omitempty"`
	PMM       *PMMCredentials `json:"pmm,omitempty"`
}

// UpdateMonitoringInstanceRequest is the body of a monitoring instance update.
// Empty fields are left unchanged.
type UpdateMonitoringInstanceRequest struct {
	Type      MonitoringType  `json:"type,omitempty"`
	URL       string          `json:"url,omitempty"`
	VerifyTLS *bool           `json:"verifyTLS,omitempty"`
	PMM       *PMMCredentials `json:"pmm,omitempty"`
}

// CreateBackupStorageRequest is the body of a backup storage creation.
type CreateBackupStorageRequest struct {
	Name           string            `json:"name"`
	Type           BackupStorageType `json:"type"`
	Bucket         string            `json:"bucketName"`
	Region         string            `json:"region,omitempty"`
	URL            string            `json:"url,omitempty"`
	Description    string            `json:"description,omitempty"`
	AccessKey      string            `json:"accessKey"`
	SecretKey      string            `json:"secretKey"`
	ForcePathStyle *bool             `json:"forcePathStyle,omitempty"`
	VerifyTLS      *bool             `json:"verifyTLS,omitempty"`
}

// UpdateBackupStorageRequest is the body of a backup storage update.
// Nil fields are left unchanged.
type UpdateBackupStorageRequest struct {
	Bucket         *string `json:"bucketName,omitempty"`
	Region         *string `json:"region,omitempty"`
	URL            *string `json:"url,omitempty"`
	Description    *string `json:"description,omitempty"`
	AccessKey      *string `json:"accessKey,omitempty"`
	SecretKey      *string `json:"secretKey,omitempty"`
	ForcePathStyle *bool   `json:"forcePathStyle,omitempty"`
	VerifyTLS      *bool   `json:"verifyTLS,omitempty"`
}

// UpgradeTaskType is the action a cluster needs before or after an operator upgrade.
type UpgradeTaskType string

const (
	// UpgradeTaskReady means the cluster needs nothing.
	UpgradeTaskReady UpgradeTaskType = "ready"
	// UpgradeTaskNotReady means the cluster is not in the ready state.
	UpgradeTaskNotReady UpgradeTaskType = "notReady"
	// UpgradeTaskRestart means the cluster must be restarted with a new CR version.
	UpgradeTaskRestart UpgradeTaskType = "restart"
	// UpgradeTaskUpgradeEngine means the engine version is too old for the target operator.
	UpgradeTaskUpgradeEngine UpgradeTaskType = "upgradeEngine"
)

// Upgrade is a pending operator upgrade.
type Upgrade struct {
	Name           string `json:"name"`
	CurrentVersion string `json:"currentVersion"`
	TargetVersion  string `json:"targetVersion"`
}

// UpgradeTask is a per-cluster task of an upgrade plan.
type UpgradeTask struct {
	Name        string          `json:"name"`
	PendingTask UpgradeTaskType `json:"pendingTask"`
	Message     string          `json:"message,omitempty"`
}

// UpgradePlan lists the pending operator upgrades of a namespace and what
// every cluster needs before they can be approved.
type UpgradePlan struct {
	Upgrades       []Upgrade     `json:"upgrades"`
	PendingActions []UpgradeTask `json:"pendingActions"`
}

// Permission is a single enforced RBAC rule.
type Permission struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Object   string `json:"object"`
}

// UserPermissions is the permission set of the calling user.
type UserPermissions struct {
	// Enabled is false when RBAC is disabled and everything is allowed
	Enabled     bool         `json:"enabled"`
	Permissions []Permission `json:"permissions"`
}

// Namespace is a database namespace managed by the console.
type Namespace struct {
	Name string `json:"name"`
}
