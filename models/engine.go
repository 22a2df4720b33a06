package models

import (
	goversion "github.com/hashicorp/go-version"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// EngineState is the installation state of a database engine.
type EngineState string

const (
	DBEngineStateNotInstalled EngineState = "not installed"
	DBEngineStateInstalling   EngineState = "installing"
	DBEngineStateInstalled    EngineState = "installed"
	DBEngineStateUpgrading    EngineState = "upgrading"
)

// ComponentStatus tells whether a component version may be used.
type ComponentStatus string

const (
	DBEngineComponentRecommended ComponentStatus = "recommended"
	DBEngineComponentAvailable   ComponentStatus = "available"
	DBEngineComponentUnavailable ComponentStatus = "unavailable"
	DBEngineComponentUnsupported ComponentStatus = "unsupported"
)

// Component is a single version of an engine component.
type Component struct {
	Status    ComponentStatus `json:"status,omitempty"`
	ImagePath string          `json:"imagePath,omitempty"`
	ImageHash string          `json:"imageHash,omitempty"`
	Critical  bool            `json:"critical,omitempty"`
}

// ComponentsMap maps a version to its component.
type ComponentsMap map[string]*Component

// Versions are the component versions offered by an engine.
type Versions struct {
	Engine ComponentsMap            `json:"engine,omitempty"`
	Backup ComponentsMap            `json:"backup,omitempty"`
	Proxy  map[string]ComponentsMap `json:"proxy,omitempty"`
}

// OperatorUpgrade is an operator upgrade waiting for approval.
type OperatorUpgrade struct {
	TargetVersion  string                      `json:"targetVersion"`
	InstallPlanRef corev1.LocalObjectReference `json:"installPlanRef"`
}

// DatabaseEngineSpec is the desired state of a database engine.
type DatabaseEngineSpec struct {
	Type EngineType `json:"type"`
	// AllowedVersions restricts the engine versions clusters may use
	AllowedVersions []string `json:"allowedVersions,omitempty"`
}

// DatabaseEngineStatus is the observed state of a database engine.
type DatabaseEngineStatus struct {
	State                   EngineState       `json:"status,omitempty"`
	AvailableVersions       Versions          `json:"availableVersions,omitempty"`
	OperatorVersion         string            `json:"operatorVersion,omitempty"`
	PendingOperatorUpgrades []OperatorUpgrade `json:"pendingOperatorUpgrades,omitempty"`
}

// GetPendingUpgrade returns the pending upgrade to targetVersion, or nil.
func (s DatabaseEngineStatus) GetPendingUpgrade(targetVersion string) *OperatorUpgrade {
	for i := range s.PendingOperatorUpgrades {
		if s.PendingOperatorUpgrades[i].TargetVersion == targetVersion {
			return &s.PendingOperatorUpgrades[i]
		}
	}
	return nil
}

// GetNextUpgradeVersion returns the lowest pending target version that is
// newer than the running operator, or "" when there is none.
func (s DatabaseEngineStatus) GetNextUpgradeVersion() string {
	current, err := goversion.NewVersion(s.OperatorVersion)
	if err != nil {
		return ""
	}
	var next *goversion.Version
	for _, u := range s.PendingOperatorUpgrades {
		v, err := goversion.NewVersion(u.TargetVersion)
		if err != nil || !v.GreaterThan(current) {
			continue
		}
		if next == nil || v.LessThan(next) {
			next = v
		}
	}
	if next == nil {
		return ""
	}
	return next.Original()
}

// DatabaseEngine is an installed database operator.
type DatabaseEngine struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   DatabaseEngineSpec   `json:"spec,omitempty"`
	Status DatabaseEngineStatus `json:"status,omitempty"`
}

// DatabaseEngineList is a list of database engines.
type DatabaseEngineList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []DatabaseEngine `json:"items"`
}

// AffinityConfig holds the affinity of each cluster component.
type AffinityConfig struct {
	Engine       *corev1.Affinity `json:"engine,omitempty"`
	Proxy        *corev1.Affinity `json:"proxy,omitempty"`
	ConfigServer *corev1.Affinity `json:"configServer,omitempty"`
}

// PodSchedulingPolicySpec is the desired state of a pod scheduling policy.
type PodSchedulingPolicySpec struct {
	EngineType     EngineType      `json:"engineType"`
	AffinityConfig *AffinityConfig `json:"affinityConfig,omitempty"`
}

// PodSchedulingPolicyStatus is the observed state of a pod scheduling policy.
type PodSchedulingPolicyStatus struct {
	InUse bool `json:"inUse,omitempty"`
}

// PodSchedulingPolicy describes how cluster pods are placed on nodes.
type PodSchedulingPolicy struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   PodSchedulingPolicySpec   `json:"spec,omitempty"`
	Status PodSchedulingPolicyStatus `json:"status,omitempty"`
}

// PodSchedulingPolicyList is a list of pod scheduling policies.
type PodSchedulingPolicyList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []PodSchedulingPolicy `json:"items"`
}
