package console

import (
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/everest-platform/console/models"
)

const (
	// MinShards is the shard count of a newly sharded cluster.
	MinShards = 1
	// DefaultConfigServers is the config server count of a newly sharded cluster.
	DefaultConfigServers = 3
)

// ParamsPlaceholder is the sample engine configuration shown for engine.
func ParamsPlaceholder(engine models.EngineType) string {
	switch engine {
	case models.DatabaseEnginePSMDB:
		return "operationProfiling:\nmode: slowOp\nslowOpThresholdMs: 200"
	case models.DatabaseEnginePXC:
		return "[mysqld]\nkey_buffer_size=16M\nmax_allowed_packet=128M\nmax_connections=250"
	default:
		return "log_connections = yes\nsearch_path = '\"$user\", public'\nshared_buffers = 128MB"
	}
}

// AdvancedConfiguration holds the values of the advanced configuration form.
type AdvancedConfiguration struct {
	StorageClass            *string
	ExternalAccess          bool
	EngineParametersEnabled bool
	EngineParameters        string
	// SourceRanges always has at least one row; empty rows are ignored on apply.
	SourceRanges []string
}

// AdvancedConfigurationDefaults reads the form values from db.
func AdvancedConfigurationDefaults(db *models.DatabaseCluster) AdvancedConfiguration {
	cfg := AdvancedConfiguration{
		StorageClass:            db.Spec.Engine.Storage.Class,
		ExternalAccess:          db.Spec.Proxy.Expose.Type == models.ExposeTypeExternal,
		EngineParametersEnabled: db.Spec.Engine.Config != "",
		EngineParameters:        db.Spec.Engine.Config,
	}
	for _, r := range db.Spec.Proxy.Expose.IPSourceRanges {
		cfg.SourceRanges = append(cfg.SourceRanges, string(r))
	}
	if len(cfg.SourceRanges) == 0 {
		cfg.SourceRanges = []string{""}
	}
	return cfg
}

// ApplyAdvancedConfiguration returns a copy of db with cfg applied. Source
// ranges are only kept for externally exposed clusters.
func ApplyAdvancedConfiguration(db *models.DatabaseCluster, cfg AdvancedConfiguration) *models.DatabaseCluster {
	out := db.DeepCopy()
	out.Spec.Engine.Config = ""
	if cfg.EngineParametersEnabled {
		out.Spec.Engine.Config = cfg.EngineParameters
	}

	out.Spec.Proxy.Expose = models.Expose{Type: models.ExposeTypeInternal}
	if cfg.ExternalAccess {
		out.Spec.Proxy.Expose.Type = models.ExposeTypeExternal
		for _, r := range cfg.SourceRanges {
			if r != "" {
				out.Spec.Proxy.Expose.IPSourceRanges = append(out.Spec.Proxy.Expose.IPSourceRanges, models.IPSourceRange(r))
			}
		}
	}
	return out
}

// ApplyEngineVersion returns a copy of db running version.
func ApplyEngineVersion(db *models.DatabaseCluster, version string) *models.DatabaseCluster {
	out := db.DeepCopy()
	out.Spec.Engine.Version = version
	return out
}

// ApplyCRVersion returns a copy of db pinned to the operator CR version.
func ApplyCRVersion(db *models.DatabaseCluster, crVersion string) *models.DatabaseCluster {
	out := db.DeepCopy()
	out.Spec.Engine.CRVersion = &crVersion
	return out
}

// ApplyMonitoring returns a copy of db bound to the monitoring instance
// name. An empty name turns monitoring off.
func ApplyMonitoring(db *models.DatabaseCluster, name string) *models.DatabaseCluster {
	out := db.DeepCopy()
	out.Spec.Monitoring = &models.Monitoring{MonitoringConfigName: name}
	return out
}

// ResourcesUpdate holds the values of the resources form.
type ResourcesUpdate struct {
	CPU      resource.Quantity
	Memory   resource.Quantity
	Disk     resource.Quantity
	Replicas int32

	ProxyCPU      resource.Quantity
	ProxyMemory   resource.Quantity
	ProxyReplicas int32

	// Sharding enables sharding on PSMDB clusters. Shards and ConfigServers
	// default to MinShards and DefaultConfigServers when zero.
	Sharding      bool
	Shards        int32
	ConfigServers int32
}

// ApplyResources returns a copy of db with the new sizes. The storage class
// and the proxy exposure are kept.
func ApplyResources(db *models.DatabaseCluster, r ResourcesUpdate) *models.DatabaseCluster {
	out := db.DeepCopy()
	out.Spec.Engine.Replicas = r.Replicas
	out.Spec.Engine.Resources = models.Resources{CPU: r.CPU, Memory: r.Memory}
	out.Spec.Engine.Storage.Size = r.Disk

	proxies := r.ProxyReplicas
	out.Spec.Proxy.Replicas = &proxies
	out.Spec.Proxy.Resources = models.Resources{CPU: r.ProxyCPU, Memory: r.ProxyMemory}

	if out.Spec.Engine.Type == models.DatabaseEnginePSMDB && r.Sharding {
		shards, cfgSrv := r.Shards, r.ConfigServers
		if shards == 0 {
			shards = MinShards
		}
		if cfgSrv == 0 {
			cfgSrv = DefaultConfigServers
		}
		out.Spec.Sharding = &models.Sharding{
			Enabled:      true,
			Shards:       shards,
			ConfigServer: models.ConfigServer{Replicas: cfgSrv},
		}
		out.Spec.Proxy.Type = models.ProxyTypeMongos
	}
	return out
}

// PitrForm holds the values of the point-in-time recovery form.
type PitrForm struct {
	Enabled         bool
	StorageLocation string
}

// PitrEditDefaults returns the initial PITR form values.
func PitrEditDefaults(enabled bool, storage string) PitrForm {
	return PitrForm{Enabled: enabled, StorageLocation: storage}
}

// ApplyPITR returns a copy of db with PITR turned on or off. Turning it off
// clears the storage.
func ApplyPITR(db *models.DatabaseCluster, enabled bool, storage string) *models.DatabaseCluster {
	out := db.DeepCopy()
	if !enabled {
		empty := ""
		out.Spec.Backup.PITR.Enabled = false
		out.Spec.Backup.PITR.BackupStorageName = &empty
		return out
	}
	out.Spec.Backup.PITR.Enabled = true
	out.Spec.Backup.PITR.BackupStorageName = &storage
	return out
}

// ApplySchedulesTimezone returns a copy of db with every backup schedule
// converted from UTC to tz, the way the console does before it sends an
// update.
func ApplySchedulesTimezone(db *models.DatabaseCluster, tz string) (*models.DatabaseCluster, error) {
	out := db.DeepCopy()
	for i := range out.Spec.Backup.Schedules {
		s := &out.Spec.Backup.Schedules[i]
		converted, err := ConvertCron(s.Schedule, "UTC", tz)
		if err != nil {
			return nil, err
		}
		s.Schedule = converted
	}
	return out, nil
}
