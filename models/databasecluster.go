package models

import (
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// EngineType is the type of database engine a cluster runs.
type EngineType string

const (
	// DatabaseEnginePXC is Percona XtraDB Cluster (MySQL).
	DatabaseEnginePXC EngineType = "pxc"
	// DatabaseEnginePSMDB is Percona Server for MongoDB.
	DatabaseEnginePSMDB EngineType = "psmdb"
	// DatabaseEnginePostgresql is Percona Distribution for PostgreSQL.
	DatabaseEnginePostgresql EngineType = "postgresql"
)

// ProxyType is the type of proxy placed in front of the engine.
type ProxyType string

const (
	// ProxyTypeMongos is the MongoDB router used by sharded PSMDB clusters.
	ProxyTypeMongos ProxyType = "mongos"
	// ProxyTypeHAProxy is HAProxy, available for PXC.
	ProxyTypeHAProxy ProxyType = "haproxy"
	// ProxyTypeProxySQL is ProxySQL, available for PXC.
	ProxyTypeProxySQL ProxyType = "proxysql"
	// ProxyTypePGBouncer is PgBouncer, used by PostgreSQL.
	ProxyTypePGBouncer ProxyType = "pgbouncer"
)

// ExposeType defines how a cluster is reachable.
type ExposeType string

const (
	// ExposeTypeInternal exposes the cluster inside Kubernetes only.
	ExposeTypeInternal ExposeType = "internal"
	// ExposeTypeExternal exposes the cluster through a load balancer.
	ExposeTypeExternal ExposeType = "external"
)

// AppState is the aggregated state of a database cluster.
type AppState string

const (
	AppStateUnknown         AppState = "unknown"
	AppStateInit            AppState = "initializing"
	AppStatePausing         AppState = "pausing"
	AppStateStopping        AppState = "stopping"
	AppStatePaused          AppState = "paused"
	AppStateReady           AppState = "ready"
	AppStateError           AppState = "error"
	AppStateRestoring       AppState = "restoring"
	AppStateDeleting        AppState = "deleting"
	AppStateUpgrading       AppState = "upgrading"
	AppStateResizingVolumes AppState = "resizingVolumes"
	AppStateNew             AppState = "new"
)

// PITRType is the type of point-in-time recovery target.
type PITRType string

// PITRTypeDate restores to a given timestamp.
const PITRTypeDate PITRType = "date"

// IPSourceRange is a CIDR allowed to reach an externally exposed cluster.
type IPSourceRange string

// Storage is the persistent volume of the engine.
type Storage struct {
	// Size of the volume, e.g. "25Gi"
	Size resource.Quantity `json:"size"`
	// Class is the storage class; the cluster default is used when nil
	Class *string `json:"class,omitempty"`
}

// Resources are the compute resources of a single pod.
type Resources struct {
	CPU    resource.Quantity `json:"cpu,omitempty"`
	Memory resource.Quantity `json:"memory,omitempty"`
}

// Engine describes the database engine of a cluster.
type Engine struct {
	Type     EngineType `json:"type"`
	Version  string     `json:"version,omitempty"`
	Replicas int32      `json:"replicas,omitempty"`
	Storage  Storage    `json:"storage"`
	// Resources are the per-node compute resources
	Resources Resources `json:"resources,omitempty"`
	// Config is the engine configuration file content
	Config string `json:"config,omitempty"`
	// CRVersion pins the operator CR version used by the cluster
	CRVersion *string `json:"crVersion,omitempty"`
}

// Expose describes how the proxy is exposed.
type Expose struct {
	Type           ExposeType      `json:"type,omitempty"`
	IPSourceRanges []IPSourceRange `json:"ipSourceRanges,omitempty"`
}

// Proxy describes the proxy in front of the engine.
type Proxy struct {
	Type      ProxyType `json:"type,omitempty"`
	Replicas  *int32    `json:"replicas,omitempty"`
	Expose    Expose    `json:"expose,omitempty"`
	Resources Resources `json:"resources,omitempty"`
}

// BackupSchedule is a scheduled backup of a cluster.
type BackupSchedule struct {
	Enabled bool   `json:"enabled"`
	Name    string `json:"name"`
	// RetentionCopies is the number of backups kept; 0 keeps all of them
	RetentionCopies   int32  `json:"retentionCopies,omitempty"`
	Schedule          string `json:"schedule"`
	BackupStorageName string `json:"backupStorageName"`
}

// PITRSpec configures point-in-time recovery log uploads.
type PITRSpec struct {
	Enabled           bool    `json:"enabled"`
	BackupStorageName *string `json:"backupStorageName,omitempty"`
	UploadIntervalSec *int    `json:"uploadIntervalSec,omitempty"`
}

// Backup is the backup configuration of a cluster.
type Backup struct {
	Schedules []BackupSchedule `json:"schedules,omitempty"`
	PITR      PITRSpec         `json:"pitr,omitempty"`
}

// BackupSource points at a backup that is not tracked by a DatabaseClusterBackup.
type BackupSource struct {
	Path              string `json:"path"`
	BackupStorageName string `json:"backupStorageName"`
}

// PITR is a point-in-time recovery target.
type PITR struct {
	Type PITRType     `json:"type,omitempty"`
	Date *metav1.Time `json:"date,omitempty"`
}

// DataSource is the origin of the data a cluster is created or restored from.
// Exactly one of DBClusterBackupName and BackupSource must be set.
type DataSource struct {
	DBClusterBackupName string        `json:"dbClusterBackupName,omitempty"`
	BackupSource        *BackupSource `json:"backupSource,omitempty"`
	PITR                *PITR         `json:"pitr,omitempty"`
}

// Monitoring binds a cluster to a monitoring instance.
type Monitoring struct {
	MonitoringConfigName string `json:"monitoringConfigName,omitempty"`
}

// ConfigServer is the config server replica set of a sharded cluster.
type ConfigServer struct {
	Replicas int32 `json:"replicas"`
}

// Sharding is the sharding configuration of a PSMDB cluster.
type Sharding struct {
	Enabled      bool         `json:"enabled"`
	Shards       int32        `json:"shards"`
	ConfigServer ConfigServer `json:"configServer"`
}

// DatabaseClusterSpec is the desired state of a database cluster.
type DatabaseClusterSpec struct {
	Paused                   bool        `json:"paused,omitempty"`
	AllowUnsafeConfiguration bool        `json:"allowUnsafeConfiguration,omitempty"`
	Engine                   Engine      `json:"engine"`
	Proxy                    Proxy       `json:"proxy,omitempty"`
	DataSource               *DataSource `json:"dataSource,omitempty"`
	Backup                   Backup      `json:"backup,omitempty"`
	Monitoring               *Monitoring `json:"monitoring,omitempty"`
	Sharding                 *Sharding   `json:"sharding,omitempty"`
	PodSchedulingPolicyName  string      `json:"podSchedulingPolicyName,omitempty"`
}

// DatabaseClusterStatus is the observed state of a database cluster.
type DatabaseClusterStatus struct {
	ObservedGeneration int64    `json:"observedGeneration,omitempty"`
	Status             AppState `json:"status,omitempty"`
	Hostname           string   `json:"hostname,omitempty"`
	Port               int32    `json:"port,omitempty"`
	Ready              int32    `json:"ready,omitempty"`
	Size               int32    `json:"size,omitempty"`
	Message            string   `json:"message,omitempty"`
	CRVersion          string   `json:"crVersion,omitempty"`
	// RecommendedCRVersion is set when the operator recommends a newer CR version
	RecommendedCRVersion *string `json:"recommendedCRVersion,omitempty"`
	// ActiveStorage is the backup storage PSMDB is bound to
	ActiveStorage string `json:"activeStorage,omitempty"`
}

// DatabaseCluster is a managed database deployment.
type DatabaseCluster struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   DatabaseClusterSpec   `json:"spec,omitempty"`
	Status DatabaseClusterStatus `json:"status,omitempty"`
}

// DatabaseClusterList is a list of database clusters.
type DatabaseClusterList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []DatabaseCluster `json:"items"`
}
