package models

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

// BackupState is the state of a backup.
type BackupState string

const (
	BackupNew       BackupState = ""
	BackupStarting  BackupState = "Starting"
	BackupRunning   BackupState = "Running"
	BackupFailed    BackupState = "Failed"
	BackupSucceeded BackupState = "Succeeded"
	BackupDeleting  BackupState = "Deleting"
)

// DatabaseClusterBackupSpec is the desired state of a backup.
type DatabaseClusterBackupSpec struct {
	// DBClusterName is the cluster being backed up
	DBClusterName string `json:"dbClusterName"`
	// BackupStorageName is the storage the backup is written to
	BackupStorageName string `json:"backupStorageName"`
}

// DatabaseClusterBackupStatus is the observed state of a backup.
type DatabaseClusterBackupStatus struct {
	CreatedAt            *metav1.Time `json:"created,omitempty"`
	CompletedAt          *metav1.Time `json:"completed,omitempty"`
	State                BackupState  `json:"state,omitempty"`
	Destination          *string      `json:"destination,omitempty"`
	LatestRestorableTime *metav1.Time `json:"latestRestorableTime,omitempty"`
}

// DatabaseClusterBackup is an on-demand or scheduled backup.
type DatabaseClusterBackup struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   DatabaseClusterBackupSpec   `json:"spec,omitempty"`
	Status DatabaseClusterBackupStatus `json:"status,omitempty"`
}

// DatabaseClusterBackupList is a list of backups.
type DatabaseClusterBackupList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []DatabaseClusterBackup `json:"items"`
}

// RestoreState is the state of a restore.
type RestoreState string

const (
	RestoreNew       RestoreState = ""
	RestoreStarting  RestoreState = "Starting"
	RestoreRunning   RestoreState = "Restoring"
	RestoreFailed    RestoreState = "Failed"
	RestoreSucceeded RestoreState = "Succeeded"
)

// DatabaseClusterRestoreSpec is the desired state of a restore.
type DatabaseClusterRestoreSpec struct {
	DBClusterName string     `json:"dbClusterName"`
	DataSource    DataSource `json:"dataSource"`
}

// DatabaseClusterRestoreStatus is the observed state of a restore.
type DatabaseClusterRestoreStatus struct {
	State       RestoreState `json:"state,omitempty"`
	CompletedAt *metav1.Time `json:"completed,omitempty"`
	Message     string       `json:"message,omitempty"`
}

// DatabaseClusterRestore restores a cluster from a backup.
type DatabaseClusterRestore struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   DatabaseClusterRestoreSpec   `json:"spec,omitempty"`
	Status DatabaseClusterRestoreStatus `json:"status,omitempty"`
}

// DatabaseClusterRestoreList is a list of restores.
type DatabaseClusterRestoreList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []DatabaseClusterRestore `json:"items"`
}

// IsInProgress reports whether the restore has not finished yet.
func (r *DatabaseClusterRestore) IsInProgress() bool {
	return r.Status.State != RestoreSucceeded && r.Status.State != RestoreFailed
}
