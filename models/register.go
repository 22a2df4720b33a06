package models

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/scheme"
)

var (
	// GroupVersion is the API group and version of the Everest custom resources.
	GroupVersion = schema.GroupVersion{Group: "everest.percona.com", Version: "v1alpha1"}

	// SchemeBuilder registers the Everest types with a runtime.Scheme.
	SchemeBuilder = &scheme.Builder{GroupVersion: GroupVersion}

	// AddToScheme adds the Everest types to a scheme.
	AddToScheme = SchemeBuilder.AddToScheme
)

// APIVersion is the apiVersion string written into every object.
const APIVersion = "everest.percona.com/v1alpha1"

func init() {
	SchemeBuilder.Register(
		&DatabaseCluster{}, &DatabaseClusterList{},
		&DatabaseClusterBackup{}, &DatabaseClusterBackupList{},
		&DatabaseClusterRestore{}, &DatabaseClusterRestoreList{},
		&BackupStorage{}, &BackupStorageList{},
		&MonitoringConfig{}, &MonitoringConfigList{},
		&DatabaseEngine{}, &DatabaseEngineList{},
		&PodSchedulingPolicy{}, &PodSchedulingPolicyList{},
	)
}
