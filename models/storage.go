package models

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

// BackupStorageType is the kind of object store behind a backup storage.
type BackupStorageType string

const (
	// BackupStorageTypeS3 is any S3-compatible object store.
	BackupStorageTypeS3 BackupStorageType = "s3"
	// BackupStorageTypeAzure is Azure Blob Storage.
	BackupStorageTypeAzure BackupStorageType = "azure"
)

// BackupStorageSpec is the desired state of a backup storage.
type BackupStorageSpec struct {
	Type   BackupStorageType `json:"type"`
	Bucket string            `json:"bucket"`
	Region string            `json:"region,omitempty"`
	// EndpointURL overrides the default endpoint of the provider
	EndpointURL string `json:"endpointURL,omitempty"`
	Description string `json:"description,omitempty"`
	// CredentialsSecretName is the Secret holding the access and secret keys
	CredentialsSecretName string `json:"credentialsSecretName"`
	ForcePathStyle        *bool  `json:"forcePathStyle,omitempty"`
	VerifyTLS             *bool  `json:"verifyTLS,omitempty"`
}

// BackupStorage is a location backups are written to.
type BackupStorage struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec BackupStorageSpec `json:"spec,omitempty"`
}

// BackupStorageList is a list of backup storages.
type BackupStorageList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []BackupStorage `json:"items"`
}

// MonitoringType is the type of monitoring system.
type MonitoringType string

// MonitoringTypePMM is Percona Monitoring and Management.
const MonitoringTypePMM MonitoringType = "pmm"

// PMMConfig is the PMM specific part of a monitoring config.
type PMMConfig struct {
	URL   string `json:"url"`
	Image string `json:"image,omitempty"`
}

// MonitoringConfigSpec is the desired state of a monitoring config.
type MonitoringConfigSpec struct {
	Type MonitoringType `json:"type"`
	// CredentialsSecretName is the Secret holding the API key or user/password
	CredentialsSecretName string    `json:"credentialsSecretName"`
	PMM                   PMMConfig `json:"pmm,omitempty"`
	VerifyTLS             *bool     `json:"verifyTLS,omitempty"`
}

// MonitoringConfigStatus is the observed state of a monitoring config.
type MonitoringConfigStatus struct {
	InUse bool `json:"inUse,omitempty"`
}

// MonitoringConfig is a monitoring endpoint clusters report to.
// The console API calls it a monitoring instance.
type MonitoringConfig struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   MonitoringConfigSpec   `json:"spec,omitempty"`
	Status MonitoringConfigStatus `json:"status,omitempty"`
}

// MonitoringConfigList is a list of monitoring configs.
type MonitoringConfigList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []MonitoringConfig `json:"items"`
}
